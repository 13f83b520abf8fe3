// Package archive reads a Medium account export.
//
// An export is a zip file whose posts/ directory holds one HTML page per
// post, draft or reply. Only published articles are converted; everything
// else is reported with a skip status.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/normalize"
)

// Progress phases reported to a ProgressFunc.
const (
	PhaseSkippingDraft     = "Skipping draft"
	PhaseReadingFile       = "Reading file"
	PhaseParsingContent    = "Parsing content"
	PhaseProcessingContent = "Processing content"
)

const (
	postsDir       = "posts/"
	draftMarker    = "draft_"
	paywallMarker  = "Member-only story"
	maxPostSize    = 16 << 20
	defaultTitle   = "Untitled"
	platformMedium = "Medium"
)

// ErrPostTooLarge is returned for a post file above the size limit.
var ErrPostTooLarge = errors.New("post file too large")

// ProgressFunc receives the 1-based index of the file being handled.
type ProgressFunc func(index, total int, file, phase string)

// Archive is an open export.
type Archive struct {
	reader   *zip.ReadCloser
	posts    []*zip.File
	enricher ai.Enricher
	logger   *slog.Logger
}

// Open opens the export at path and indexes its post files.
func Open(path string, enricher ai.Enricher) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	var posts []*zip.File
	for _, f := range reader.File {
		if strings.HasPrefix(f.Name, postsDir) && strings.HasSuffix(f.Name, ".html") {
			posts = append(posts, f)
		}
	}

	return &Archive{
		reader:   reader,
		posts:    posts,
		enricher: enricher,
		logger:   slog.Default().With("component", "archive", "path", path),
	}, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Total returns the number of post files in the export.
func (a *Archive) Total() int {
	return len(a.posts)
}

// Posts returns a lazy sequence over the post files. Each step reads and
// parses a single file; ranging again starts over from the first post.
func (a *Archive) Posts(ctx context.Context, known connector.Known, onProgress ProgressFunc) iter.Seq[connector.Result] {
	if onProgress == nil {
		onProgress = func(int, int, string, string) {}
	}
	total := a.Total()

	return func(yield func(connector.Result) bool) {
		for i, f := range a.posts {
			if ctx.Err() != nil {
				return
			}
			index := i + 1

			if strings.Contains(strings.ToLower(f.Name), draftMarker) {
				onProgress(index, total, f.Name, PhaseSkippingDraft)
				if !yield(connector.Skip(connector.StatusSkippedDraft, f.Name, "draft")) {
					return
				}
				continue
			}

			onProgress(index, total, f.Name, PhaseReadingFile)
			result := a.readPost(ctx, f, known, func(phase string) {
				onProgress(index, total, f.Name, phase)
			})
			if result.Status == connector.StatusError {
				a.logger.Error("failed to process post", "file", f.Name, "err", result.Err)
			}
			if !yield(result) {
				return
			}
		}
	}
}

// readPost reads and converts one post file.
func (a *Archive) readPost(ctx context.Context, f *zip.File, known connector.Known, phase func(string)) connector.Result {
	if f.UncompressedSize64 > maxPostSize {
		return connector.Failed(f.Name, ErrPostTooLarge)
	}
	rc, err := f.Open()
	if err != nil {
		return connector.Failed(f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPostSize))
	if err != nil {
		return connector.Failed(f.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return connector.Failed(f.Name, err)
	}

	result := a.parsePost(ctx, doc, known, phase)
	result.Name = f.Name
	return result
}

// parsePost classifies a parsed page and converts articles to entries.
func (a *Archive) parsePost(ctx context.Context, doc *goquery.Document, known connector.Known, phase func(string)) connector.Result {
	if doc.Find(".u-in-reply-to, .p-in-reply-to").Length() > 0 {
		return connector.Skip(connector.StatusSkippedNotBlog, "", "reply")
	}
	content := doc.Find("section.e-content").First()
	if content.Length() == 0 {
		return connector.Skip(connector.StatusSkippedNotBlog, "", "no content section")
	}
	if content.Find("h3").Length() == 0 {
		return connector.Skip(connector.StatusSkippedNotBlog, "", "no subheadings")
	}

	title := connector.CollapseSpace(doc.Find("title").First().Text())
	if title == "" {
		title = defaultTitle
	}

	phase(PhaseParsingContent)

	postURL, ok := doc.Find("a.u-url").First().Attr("href")
	if !ok || postURL == "" {
		postURL, _ = doc.Find("a.p-canonical").First().Attr("href")
	}
	postURL = normalize.URL(postURL)

	if postURL != "" && known.Enriched(postURL) {
		return connector.Skip(connector.StatusSkippedExisting, "", "already enriched")
	}

	date := ""
	if published, ok := doc.Find("time.dt-published").First().Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			date = core.FormatDate(t)
		}
	}

	subtitle := connector.CollapseSpace(doc.Find("p.p-summary").First().Text())

	tags := doc.Find("ul.p-tags").First()
	if tags.Length() == 0 {
		tags = doc.Find("ul.tags").First()
	}
	var tagList []string
	tags.Find("li").Each(func(_ int, li *goquery.Selection) {
		if tag := connector.CollapseSpace(li.Text()); tag != "" {
			tagList = append(tagList, tag)
		}
	})

	contentText := connector.CollapseSpace(content.Text())

	entry := &core.Entry{
		Kind:           core.KindBlog,
		Title:          title,
		URL:            postURL,
		Date:           date,
		Platform:       platformMedium,
		Tags:           tagList,
		IsPrivate:      strings.Contains(contentText, paywallMarker),
		SourcePlatform: core.SourceArchive,
		ContentSource:  core.SourceArchive,
	}

	if len(tagList) == 0 && a.enricher != nil {
		phase(PhaseProcessingContent)
		enrichment, err := a.enricher.Enrich(ctx, contentText)
		if err != nil {
			a.logger.Warn("enrichment failed", "title", title, "err", err)
		} else if enrichment != nil {
			entry.AISummary = enrichment.Summary
			for _, tag := range enrichment.Tags {
				entry.AddTag(tag)
			}
		}
	}

	entry.Summary = subtitle
	if entry.Summary == "" {
		entry.Summary = entry.AISummary
	}

	entry.BodyContent = frontmatter(entry) + "# " + title + "\n\n" + connector.SelectionToMarkdown(content)
	return connector.Processed(entry)
}

// frontmatter renders the metadata block that heads the markdown body.
func frontmatter(entry *core.Entry) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", entry.Title)
	if entry.Date != "" {
		fmt.Fprintf(&b, "date: %s\n", entry.Date)
	}
	if entry.URL != "" {
		fmt.Fprintf(&b, "url: %s\n", entry.URL)
	}
	if entry.Summary != "" {
		fmt.Fprintf(&b, "subtitle: %s\n", entry.Summary)
	}
	if len(entry.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(entry.Tags, ", "))
	}
	b.WriteString("---\n\n")
	return b.String()
}
