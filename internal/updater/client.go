package updater

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hasura/go-graphql-client"
)

// DefaultEndpoint is the GitHub GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client queries release metadata over GraphQL
type Client struct {
	gql   *graphql.Client
	token string
}

// NewClient creates a client for endpoint. The token is sent as a bearer
// token on every request.
func NewClient(httpClient *http.Client, endpoint, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	authedClient := &http.Client{
		Transport: &tokenTransport{base: httpClient.Transport, token: token},
		Timeout:   httpClient.Timeout,
	}

	return &Client{
		gql:   graphql.NewClient(endpoint, authedClient),
		token: token,
	}
}

type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// IsAuthenticated reports whether a token is configured
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// Release is a published release of the installer
type Release struct {
	TagName     string    `graphql:"tagName"`
	URL         string    `graphql:"url"`
	PublishedAt time.Time `graphql:"publishedAt"`
}

// LatestRelease fetches the latest non-prerelease release of owner/name.
// A repository without releases returns (nil, nil).
func (c *Client) LatestRelease(ctx context.Context, owner, name string) (*Release, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNoToken
	}

	var query struct {
		Repository struct {
			LatestRelease *Release `graphql:"latestRelease"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(name),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying latest release: %w", err)
	}

	return query.Repository.LatestRelease, nil
}
