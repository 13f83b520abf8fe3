// Package github lists a user's public repositories as project entries.
package github

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	pageSize = 100
	// maxPages bounds pagination against a misbehaving server.
	maxPages = 50
)

// repository is the subset of the GitHub repository object curator reads.
type repository struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    string    `json:"homepage"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
	PushedAt    time.Time `json:"pushed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Source fetches public, non-fork repositories for one user.
type Source struct {
	username string
	baseURL  string
	http     connector.HTTPOptions
	logger   *slog.Logger
}

var _ connector.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithBaseURL points the source at another API root.
func WithBaseURL(base string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(s *Source) {
		s.http.Token = token
	}
}

// WithHTTPOptions replaces the HTTP settings. A token set with WithToken is kept.
func WithHTTPOptions(opts connector.HTTPOptions) Option {
	return func(s *Source) {
		token := s.http.Token
		s.http = opts
		if opts.Token == "" {
			s.http.Token = token
		}
	}
}

// New creates a repository source for username.
func New(username string, opts ...Option) (*Source, error) {
	if strings.TrimSpace(username) == "" {
		return nil, connector.ErrUsernameRequired
	}
	s := &Source{
		username: username,
		baseURL:  DefaultBaseURL,
		http:     connector.DefaultHTTPOptions(),
		logger:   slog.Default().With("component", "github-source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "github:" + s.username
}

// Fetch lists every page of the user's repositories.
func (s *Source) Fetch(ctx context.Context, known connector.Known) (iter.Seq[connector.Result], error) {
	var results []connector.Result

	for page := 1; page <= maxPages; page++ {
		endpoint := fmt.Sprintf("%s/users/%s/repos?type=public&per_page=%d&page=%d",
			s.baseURL, url.PathEscape(s.username), pageSize, page)

		var repos []repository
		if err := connector.GetJSON(ctx, s.http, endpoint, &repos); err != nil {
			return nil, fmt.Errorf("listing repositories for %s: %w", s.username, err)
		}

		for _, repo := range repos {
			if repo.Private {
				results = append(results, connector.Skip(connector.StatusSkippedFiltered, repo.Name, "private repository"))
				continue
			}
			if repo.Fork {
				results = append(results, connector.Skip(connector.StatusSkippedFiltered, repo.Name, "fork"))
				continue
			}
			results = append(results, connector.Processed(toEntry(repo)))
		}

		if len(repos) < pageSize {
			break
		}
	}

	s.logger.Debug("listed repositories", "user", s.username, "count", len(results))
	return connector.Slice(results), nil
}

// toEntry maps a repository to a project entry.
func toEntry(repo repository) *core.Entry {
	entry := &core.Entry{
		Kind:           core.KindProject,
		Title:          repo.Name,
		Description:    repo.Description,
		Summary:        repo.Description,
		RepoURL:        normalize.URL(repo.HTMLURL),
		Platform:       "GitHub",
		SourcePlatform: core.SourceRepositoryHost,
	}
	for _, topic := range repo.Topics {
		entry.AddTag(topic)
	}
	if lang := strings.ToLower(repo.Language); lang != "" && !slices.Contains(entry.Tags, lang) {
		entry.AddTag(lang)
	}

	switch {
	case !repo.PushedAt.IsZero():
		entry.Date = core.FormatDate(repo.PushedAt)
	case !repo.CreatedAt.IsZero():
		entry.Date = core.FormatDate(repo.CreatedAt)
	}
	return entry
}
