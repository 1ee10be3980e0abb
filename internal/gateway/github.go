// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/kaz-takahashi/github-streak/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching contribution
// activity from GitHub. Each year is fetched independently so callers can
// run years concurrently and drop the ones that fail.
type Fetcher interface {
	FetchYearActivity(ctx context.Context, login string, year int) (*domain.YearActivity, error)
	FetchAccountCreatedYear(ctx context.Context, login string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// contributionsQuery fetches one year's contribution calendar plus the
// per-repository commit contributions needed for the fork correction.
// TODO: paginate contributions past the first 100 nodes per repository.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
			CommitContributionsByRepository []struct {
				Repository struct {
					NameWithOwner string
					IsFork        bool
				}
				Contributions struct {
					Nodes []struct {
						OccurredAt  githubv4.DateTime
						CommitCount int
					}
				} `graphql:"contributions(first: 100)"`
			} `graphql:"commitContributionsByRepository(maxRepositories: 100)"`
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchYearActivity fetches one calendar year of contribution activity.
// The current year's upper bound is clamped to now because the API rejects
// ranges reaching into the future.
func (g *GitHubGateway) FetchYearActivity(ctx context.Context, login string, year int) (*domain.YearActivity, error) {
	g.logger.Printf("Fetching contribution activity for %d...", year)
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	if now := time.Now().UTC(); to.After(now) {
		to = now
	}
	variables := map[string]interface{}{
		"login": githubv4.String(login),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}

	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %d contributions: %w", year, err)
	}

	doc := &domain.YearActivity{Year: year}
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			doc.Calendar = append(doc.Calendar, domain.DayCount{
				Date:  day.Date,
				Count: day.ContributionCount,
			})
		}
	}
	for _, repo := range q.User.ContributionsCollection.CommitContributionsByRepository {
		activity := domain.RepositoryActivity{
			Name:   repo.Repository.NameWithOwner,
			IsFork: repo.Repository.IsFork,
		}
		for _, node := range repo.Contributions.Nodes {
			activity.Commits = append(activity.Commits, domain.CommitActivity{
				Date:  node.OccurredAt.UTC().Format(domain.DateLayout),
				Count: node.CommitCount,
			})
		}
		doc.Repositories = append(doc.Repositories, activity)
	}
	g.logger.Printf("Completed fetching contribution activity for %d (%d calendar days).", year, len(doc.Calendar))
	return doc, nil
}

// FetchAccountCreatedYear looks up the account's creation year with the
// REST API. Used to resolve the starting year when fetching since joining.
func (g *GitHubGateway) FetchAccountCreatedYear(ctx context.Context, login string) (int, error) {
	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return 0, fmt.Errorf("failed to look up user %s with REST API: %w", login, err)
	}
	return user.GetCreatedAt().Year(), nil
}
