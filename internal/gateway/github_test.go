package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaz-takahashi/github-streak/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}

	return gateway, server
}

func TestGitHubGateway_FetchYearActivity(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expected       *domain.YearActivity
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - calendar and fork contributions are mapped",
			// The mock JSON is "flattened" the way the GraphQL library expects.
			responseBody: `{"data":{"user":{"contributionsCollection":{` +
				`"contributionCalendar":{"weeks":[{"contributionDays":[` +
				`{"date":"2024-06-01","contributionCount":3},` +
				`{"date":"2024-06-02","contributionCount":0}]}]},` +
				`"commitContributionsByRepository":[{` +
				`"repository":{"nameWithOwner":"octo/forked","isFork":true},` +
				`"contributions":{"nodes":[{"occurredAt":"2024-06-01T12:00:00Z","commitCount":2}]}}]}}}}`,
			expected: &domain.YearActivity{
				Year: 2024,
				Calendar: []domain.DayCount{
					{Date: "2024-06-01", Count: 3},
					{Date: "2024-06-02", Count: 0},
				},
				Repositories: []domain.RepositoryActivity{
					{
						Name:    "octo/forked",
						IsFork:  true,
						Commits: []domain.CommitActivity{{Date: "2024-06-01", Count: 2}},
					},
				},
			},
		},
		{
			name:           "error case - GraphQL response carries errors",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)

				// The query must select the contributions collection for the
				// requested user.
				assert.Contains(t, string(body), "contributionsCollection")
				assert.Contains(t, string(body), `"login":"streak-user"`)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			doc, err := gateway.FetchYearActivity(context.Background(), "streak-user", 2024)

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, doc)
			}
		})
	}
}

func TestGitHubGateway_FetchAccountCreatedYear(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedYear   int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - returns the account creation year",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.String(), "/users/streak-user")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"login":"streak-user","created_at":"2019-03-07T10:00:00Z"}`)
			},
			expectedYear: 2019,
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to look up user",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			year, err := gateway.FetchAccountCreatedYear(context.Background(), "streak-user")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedYear, year)
			}
		})
	}
}
