package archive

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Go Generics</title></head><body>
<article>
<p class="p-summary">A tour of type parameters</p>
<section data-field="body" class="e-content">
<h3>Why generics</h3>
<p>Generics landed in Go 1.18.</p>
<ul><li>constraints</li></ul>
</section>
<footer>
<p>By <a href="https://medium.com/@me">Me</a> on <time class="dt-published" datetime="2024-04-30T09:15:00.000Z">April 30, 2024</time>.</p>
<p><a href="https://medium.com/@me/go-generics-abc?source=export" class="p-canonical">Canonical link</a></p>
<ul class="p-tags"><li>Go</li><li>Programming</li></ul>
</footer>
</article></body></html>`

const untaggedHTML = `<html><head><title>Member Post</title></head><body>
<section class="e-content"><p>Member-only story</p><h3>Part one</h3><p>Deep dive into channels.</p></section>
<a class="u-url" href="https://medium.com/@me/member-post/">link</a>
</body></html>`

const replyHTML = `<html><head><title>Re: something</title></head><body>
<div class="p-in-reply-to">in reply</div>
<section class="e-content"><h3>x</h3></section>
</body></html>`

const noHeadingHTML = `<html><head><title>Short note</title></head><body>
<section class="e-content"><p>Just a note.</p></section>
</body></html>`

const knownHTML = `<html><head><title>Old</title></head><body>
<section class="e-content"><h3>h</h3><p>old</p></section>
<a class="u-url" href="https://medium.com/@me/old">link</a>
</body></html>`

func writeArchive(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range order {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func sampleArchive(t *testing.T) string {
	files := map[string]string{
		"README.html":                  "<html></html>",
		"posts/draft_unfinished.html":  articleHTML,
		"posts/2024-04-30_go.html":     articleHTML,
		"posts/2024-05-01_reply.html":  replyHTML,
		"posts/2024-05-02_note.html":   noHeadingHTML,
		"posts/2024-05-03_member.html": untaggedHTML,
		"posts/2024-05-04_old.html":    knownHTML,
		"posts/images/cover.png":       "png",
	}
	return writeArchive(t, files, []string{
		"README.html",
		"posts/draft_unfinished.html",
		"posts/2024-04-30_go.html",
		"posts/2024-05-01_reply.html",
		"posts/2024-05-02_note.html",
		"posts/2024-05-03_member.html",
		"posts/2024-05-04_old.html",
		"posts/images/cover.png",
	})
}

func TestOpen_Total(t *testing.T) {
	a, err := Open(sampleArchive(t), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 6, a.Total())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.zip"), nil)
	assert.Error(t, err)
}

func TestPosts(t *testing.T) {
	enricher := mock.NewMockEnricher().WithEnrichFunc(func(ctx context.Context, text string) (*ai.Enrichment, error) {
		return &ai.Enrichment{Summary: "A deep dive into channels.", Tags: []string{"go", "concurrency"}}, nil
	})

	a, err := Open(sampleArchive(t), enricher)
	require.NoError(t, err)
	defer a.Close()

	type call struct {
		index int
		file  string
		phase string
	}
	var calls []call
	progress := func(index, total int, file, phase string) {
		assert.Equal(t, 6, total)
		calls = append(calls, call{index, file, phase})
	}

	known := connector.NewKnown("https://medium.com/@me/old")
	var results []connector.Result
	for r := range a.Posts(context.Background(), known, progress) {
		results = append(results, r)
	}
	require.Len(t, results, 6)

	assert.Equal(t, connector.StatusSkippedDraft, results[0].Status)
	assert.Equal(t, connector.StatusProcessed, results[1].Status)
	assert.Equal(t, connector.StatusSkippedNotBlog, results[2].Status)
	assert.Equal(t, connector.StatusSkippedNotBlog, results[3].Status)
	assert.Equal(t, connector.StatusProcessed, results[4].Status)
	assert.Equal(t, connector.StatusSkippedExisting, results[5].Status)
	assert.Equal(t, "posts/2024-05-01_reply.html", results[2].Name)

	article := results[1].Entry
	assert.Equal(t, core.KindBlog, article.Kind)
	assert.Equal(t, "Go Generics", article.Title)
	assert.Equal(t, "https://medium.com/@me/go-generics-abc", article.URL)
	assert.Equal(t, "2024-04-30", article.Date)
	assert.Equal(t, "A tour of type parameters", article.Summary)
	assert.Equal(t, []string{"Go", "Programming"}, article.Tags)
	assert.Equal(t, core.SourceArchive, article.SourcePlatform)
	assert.Equal(t, core.SourceArchive, article.ContentSource)
	assert.Empty(t, article.AISummary)
	assert.False(t, article.IsPrivate)
	assert.Contains(t, article.BodyContent, "---\ntitle: Go Generics\ndate: 2024-04-30\nurl: https://medium.com/@me/go-generics-abc\nsubtitle: A tour of type parameters\ntags: Go, Programming\n---\n\n# Go Generics\n\n")
	assert.Contains(t, article.BodyContent, "### Why generics")
	assert.Contains(t, article.BodyContent, "- constraints")

	member := results[4].Entry
	assert.Equal(t, "https://medium.com/@me/member-post", member.URL)
	assert.True(t, member.IsPrivate)
	assert.Equal(t, "A deep dive into channels.", member.AISummary)
	assert.Equal(t, "A deep dive into channels.", member.Summary)
	assert.Equal(t, []string{"go", "concurrency"}, member.Tags)

	// only the untagged article was sent for enrichment
	assert.Equal(t, 1, enricher.CallCount())

	assert.Equal(t, call{1, "posts/draft_unfinished.html", PhaseSkippingDraft}, calls[0])
	assert.Equal(t, call{2, "posts/2024-04-30_go.html", PhaseReadingFile}, calls[1])
	assert.Equal(t, call{2, "posts/2024-04-30_go.html", PhaseParsingContent}, calls[2])
	assert.Contains(t, calls, call{5, "posts/2024-05-03_member.html", PhaseProcessingContent})
}

func TestPosts_EnrichmentFailureStillProcesses(t *testing.T) {
	enricher := mock.NewMockEnricher().WithEnrichFunc(func(ctx context.Context, text string) (*ai.Enrichment, error) {
		return nil, errors.New("model offline")
	})
	path := writeArchive(t, map[string]string{"posts/member.html": untaggedHTML}, []string{"posts/member.html"})

	a, err := Open(path, enricher)
	require.NoError(t, err)
	defer a.Close()

	entries := connector.Entries(a.Posts(context.Background(), connector.Known{}, nil))
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].AISummary)
	assert.Empty(t, entries[0].Summary)
}

func TestPosts_Restartable(t *testing.T) {
	a, err := Open(sampleArchive(t), nil)
	require.NoError(t, err)
	defer a.Close()

	seq := a.Posts(context.Background(), connector.Known{}, nil)

	first := 0
	for range seq {
		first++
		if first == 2 {
			break
		}
	}
	assert.Len(t, connector.Entries(seq), 3)
}

func TestSource(t *testing.T) {
	src := NewSource(sampleArchive(t))
	assert.Contains(t, src.Name(), "archive:")

	seq, err := src.Fetch(context.Background(), connector.Known{})
	require.NoError(t, err)
	assert.Len(t, connector.Entries(seq), 3)

	_, err = NewSource(filepath.Join(t.TempDir(), "nope.zip")).Fetch(context.Background(), connector.Known{})
	assert.Error(t, err)
}
