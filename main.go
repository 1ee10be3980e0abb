package main

import "github.com/kaz-takahashi/github-streak/cmd"

func main() {
	cmd.Execute()
}
