// Package feed reads published articles from an RSS or Atom feed.
package feed

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

const (
	// DefaultURLTemplate is the Medium feed for a user.
	DefaultURLTemplate = "https://medium.com/feed/@{username}"

	// DefaultPlatform labels entries from the default feed.
	DefaultPlatform = "Medium"

	summaryLength = 200
)

// Source reads one user's feed.
type Source struct {
	username string
	template string
	platform string
	parser   *gofeed.Parser
	logger   *slog.Logger
}

var _ connector.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithURLTemplate sets the feed URL; "{username}" is replaced by the user.
func WithURLTemplate(template string) Option {
	return func(s *Source) {
		s.template = template
	}
}

// WithPlatform sets the platform label on entries.
func WithPlatform(platform string) Option {
	return func(s *Source) {
		s.platform = platform
	}
}

// WithHTTPClient sets the client used to download the feed.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.parser.Client = client
	}
}

// New creates a feed source for username.
func New(username string, opts ...Option) (*Source, error) {
	if strings.TrimSpace(username) == "" {
		return nil, connector.ErrUsernameRequired
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "curator"
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	s := &Source{
		username: username,
		template: DefaultURLTemplate,
		platform: DefaultPlatform,
		parser:   parser,
		logger:   slog.Default().With("component", "feed-source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source.
func (s *Source) Name() string {
	return "feed:" + s.username
}

// URL returns the feed address for the configured user.
func (s *Source) URL() string {
	return strings.ReplaceAll(s.template, "{username}", s.username)
}

// Fetch downloads and parses the feed.
func (s *Source) Fetch(ctx context.Context, known connector.Known) (iter.Seq[connector.Result], error) {
	feedURL := s.URL()
	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("reading feed %s: %w", feedURL, err)
	}

	results := make([]connector.Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry, err := s.toEntry(item)
		if err != nil {
			results = append(results, connector.Failed(item.Title, err))
			continue
		}
		results = append(results, connector.Processed(entry))
	}

	s.logger.Debug("read feed", "url", feedURL, "items", len(results))
	return connector.Slice(results), nil
}

// toEntry maps a feed item to a blog entry.
func (s *Source) toEntry(item *gofeed.Item) (*core.Entry, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}

	bodyHTML := item.Content
	if strings.TrimSpace(bodyHTML) == "" {
		bodyHTML = item.Description
	}

	body, err := connector.ToMarkdown(bodyHTML)
	if err != nil {
		return nil, fmt.Errorf("converting %q: %w", title, err)
	}

	entry := &core.Entry{
		Kind:           core.KindBlog,
		Title:          title,
		URL:            normalize.URL(item.Link),
		Summary:        summarize(item.Description, bodyHTML),
		Platform:       s.platform,
		BodyContent:    body,
		ImageURL:       imageURL(item, bodyHTML),
		SourcePlatform: core.SourceFeed,
	}
	if body != "" {
		entry.ContentSource = core.SourceFeed
	}
	for _, c := range item.Categories {
		entry.AddTag(c)
	}

	switch {
	case item.PublishedParsed != nil:
		entry.Date = core.FormatDate(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		entry.Date = core.FormatDate(*item.UpdatedParsed)
	}
	return entry, nil
}

// summarize returns the stripped description when it adds something beyond
// the body, else the start of the stripped body.
func summarize(description, bodyHTML string) string {
	desc := connector.StripHTML(description)
	body := connector.StripHTML(bodyHTML)
	if desc != "" && desc != body {
		return desc
	}
	return connector.Truncate(body, summaryLength)
}

// imageURL returns the item image, falling back to the first image in the body.
func imageURL(item *gofeed.Item, bodyHTML string) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if bodyHTML == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}
