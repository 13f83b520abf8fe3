// Package devto lists a user's published Dev.to articles.
package devto

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

const (
	// DefaultBaseURL is the public Dev.to API.
	DefaultBaseURL = "https://dev.to/api"

	// DefaultMinWords is the shortest article body kept.
	DefaultMinWords = 200

	// DefaultWorkers bounds concurrent detail requests.
	DefaultWorkers = 4

	boostPrefix = "[Boost]"
	pageSize    = 1000
)

// tagList accepts both the array and the comma separated string forms the
// API uses on different endpoints.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = nil
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			*t = append(*t, tag)
		}
	}
	return nil
}

// article is the subset of the article object curator reads.
type article struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	CoverImage   string    `json:"cover_image"`
	PublishedAt  time.Time `json:"published_at"`
	TagList      tagList   `json:"tag_list"`
	BodyMarkdown string    `json:"body_markdown"`
}

// Source lists articles for one user.
type Source struct {
	username string
	baseURL  string
	minWords int
	workers  int
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

// WithMinWords sets the shortest body kept. Zero keeps everything.
func WithMinWords(n int) Option {
	return func(s *Source) {
		s.minWords = n
	}
}

// WithWorkers sets how many article details are fetched at once.
func WithWorkers(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithHTTPOptions replaces the HTTP settings.
func WithHTTPOptions(opts connector.HTTPOptions) Option {
	return func(s *Source) {
		s.http = opts
	}
}

// New creates an article source for username.
func New(username string, opts ...Option) (*Source, error) {
	if strings.TrimSpace(username) == "" {
		return nil, connector.ErrUsernameRequired
	}
	s := &Source{
		username: username,
		baseURL:  DefaultBaseURL,
		minWords: DefaultMinWords,
		workers:  DefaultWorkers,
		http:     connector.DefaultHTTPOptions(),
		logger:   slog.Default().With("component", "devto-source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "devto:" + s.username
}

// Fetch lists the user's articles and fetches each body on a bounded pool.
// Results keep listing order.
func (s *Source) Fetch(ctx context.Context, known connector.Known) (iter.Seq[connector.Result], error) {
	endpoint := fmt.Sprintf("%s/articles?username=%s&per_page=%d",
		s.baseURL, url.QueryEscape(s.username), pageSize)

	var listing []article
	if err := connector.GetJSON(ctx, s.http, endpoint, &listing); err != nil {
		return nil, fmt.Errorf("listing articles for %s: %w", s.username, err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]connector.Result, len(listing))
	var wg sync.WaitGroup

	for i, summary := range listing {
		if strings.HasPrefix(strings.TrimSpace(summary.Title), boostPrefix) {
			results[i] = connector.Skip(connector.StatusSkippedFiltered, summary.Title, "boost")
			continue
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.fetchArticle(ctx, summary)
		})
		if err != nil {
			wg.Done()
			results[i] = connector.Failed(summary.Title, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("listed articles", "user", s.username, "count", len(results))
	return connector.Slice(results), nil
}

// fetchArticle loads one article's body and converts it.
func (s *Source) fetchArticle(ctx context.Context, summary article) connector.Result {
	var detail article
	endpoint := fmt.Sprintf("%s/articles/%d", s.baseURL, summary.ID)
	if err := connector.GetJSON(ctx, s.http, endpoint, &detail); err != nil {
		return connector.Failed(summary.Title, err)
	}

	if words := connector.WordCount(detail.BodyMarkdown); words < s.minWords {
		return connector.Skip(connector.StatusSkippedFiltered, summary.Title,
			fmt.Sprintf("%d words, below %d", words, s.minWords))
	}

	return connector.Processed(toEntry(summary, detail))
}

// toEntry maps an article to a blog entry, preferring detail fields.
func toEntry(summary, detail article) *core.Entry {
	entry := &core.Entry{
		Kind:           core.KindBlog,
		Title:          firstNonEmpty(detail.Title, summary.Title),
		Summary:        firstNonEmpty(detail.Description, summary.Description),
		URL:            normalize.URL(firstNonEmpty(detail.URL, summary.URL)),
		ImageURL:       firstNonEmpty(detail.CoverImage, summary.CoverImage),
		Platform:       "Dev.to",
		BodyContent:    strings.TrimSpace(detail.BodyMarkdown),
		SourcePlatform: core.SourceArticleAPI,
		ContentSource:  core.SourceArticleAPI,
	}

	published := detail.PublishedAt
	if published.IsZero() {
		published = summary.PublishedAt
	}
	entry.Date = core.FormatDate(published)

	tags := summary.TagList
	if len(tags) == 0 {
		tags = detail.TagList
	}
	for _, tag := range tags {
		entry.AddTag(tag)
	}
	return entry
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
