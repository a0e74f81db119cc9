// Package updater checks whether a newer installer release has been
// published. It only reports; downloading is left to the user.
package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"
)

// EnvToken is the environment variable consulted before the stored token.
const EnvToken = "GITHUB_TOKEN"

var (
	// ErrNoToken means no API token is available; the GraphQL API rejects
	// anonymous requests.
	ErrNoToken = errors.New("no GitHub token configured")
	// ErrBadRepo means the repository is not in owner/name form.
	ErrBadRepo = errors.New("update repository must be owner/name")
)

// ReleaseSource returns the latest release of a repository.
type ReleaseSource interface {
	LatestRelease(ctx context.Context, owner, name string) (*Release, error)
}

// TokenStore is where a saved token is looked up.
type TokenStore interface {
	GetToken(sourceID string) (*db.StoredToken, error)
}

// ResolveToken returns the token from getenv, falling back to store. Both
// may be nil.
func ResolveToken(getenv func(string) string, store TokenStore) (string, error) {
	if getenv != nil {
		if tok := strings.TrimSpace(getenv(EnvToken)); tok != "" {
			return tok, nil
		}
	}
	if store == nil {
		return "", nil
	}
	stored, err := store.GetToken(db.TokenGitHub)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", nil
	}
	return stored.Token, nil
}

// Result is the outcome of an update check
type Result struct {
	Current   *semver.Version
	Latest    *semver.Version
	URL       string
	Available bool
}

// Check compares current against the latest release of repo. Tags may carry
// a leading "v".
func Check(ctx context.Context, src ReleaseSource, repo, current string) (*Result, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrBadRepo, repo)
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("parsing current version %q: %w", current, err)
	}

	release, err := src.LatestRelease(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	res := &Result{Current: cur}
	if release == nil {
		return res, nil
	}

	latest, err := semver.NewVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("parsing release tag %q: %w", release.TagName, err)
	}
	res.Latest = latest
	res.URL = release.URL
	res.Available = latest.GreaterThan(cur)
	return res, nil
}

// Pending is an update check running in the background
type Pending struct {
	mu     sync.Mutex
	done   chan struct{}
	result *Result
	err    error
}

// Start runs Check on its own goroutine. Cancel ctx to abandon it.
func Start(ctx context.Context, src ReleaseSource, repo, current string) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		res, err := Check(ctx, src, repo, current)
		p.mu.Lock()
		p.result, p.err = res, err
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

// Wait blocks until the check finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.err
}

// Ready reports whether the check has finished without blocking.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
