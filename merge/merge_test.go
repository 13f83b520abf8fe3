package merge

import (
	"testing"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedRecord() *core.Entry {
	return &core.Entry{
		Kind:           core.KindBlog,
		Title:          "New Title",
		Date:           "2026-02-01",
		URL:            "https://medium.com/@me/post",
		Summary:        "From the feed",
		BodyContent:    "thin feed body",
		SourcePlatform: core.SourceFeed,
	}
}

func archiveRecord() *core.Entry {
	return &core.Entry{
		Kind:           core.KindBlog,
		Title:          "Old Title",
		Date:           "2026-01-01",
		URL:            "https://medium.com/@me/post",
		BodyContent:    "# X",
		AISummary:      "archive summary",
		IsPrivate:      true,
		Tags:           []string{"go"},
		SourcePlatform: core.SourceArchive,
		ContentSource:  core.SourceArchive,
	}
}

func TestMerge_FeedThenArchive(t *testing.T) {
	merged := Merge(feedRecord(), archiveRecord())

	assert.Equal(t, "New Title", merged.Title)
	assert.Equal(t, "2026-02-01", merged.Date)
	assert.Equal(t, "# X", merged.BodyContent)
	assert.Equal(t, "archive summary", merged.AISummary)
	assert.True(t, merged.IsPrivate)
	assert.Equal(t, core.SourceArchive, merged.ContentSource)
	assert.Equal(t, []string{"go"}, merged.Tags)
}

func TestMerge_ArchiveThenFeed(t *testing.T) {
	merged := Merge(archiveRecord(), feedRecord())

	assert.Equal(t, "New Title", merged.Title)
	assert.Equal(t, "2026-02-01", merged.Date)
	assert.Equal(t, "# X", merged.BodyContent, "archive content survives a later thin feed")
	assert.Equal(t, "archive summary", merged.AISummary)
	assert.True(t, merged.IsPrivate)
	assert.Equal(t, core.SourceFeed, merged.SourcePlatform, "last touched by the feed")
	assert.Equal(t, core.SourceArchive, merged.ContentSource)
}

func TestMerge_ArchiveFillsMissingMetadata(t *testing.T) {
	feed := feedRecord()
	feed.Date = ""

	merged := Merge(feed, archiveRecord())
	assert.Equal(t, "New Title", merged.Title)
	assert.Equal(t, "2026-01-01", merged.Date)
}

func TestMerge_StoredContentSourceIsSticky(t *testing.T) {
	// A persisted record last touched by the feed still carries archive content.
	stored := Merge(feedRecord(), archiveRecord())
	stored.ID = "medium:post"
	stored.CreatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	again := Merge(stored, feedRecord())
	assert.Equal(t, "# X", again.BodyContent)
	assert.Equal(t, "medium:post", again.ID)
	assert.Equal(t, stored.CreatedAt, again.CreatedAt)
}

func TestMerge_AISummaryNeverCleared(t *testing.T) {
	base := &core.Entry{Title: "A", AISummary: "existing", SourcePlatform: core.SourceRepositoryHost}
	incoming := &core.Entry{Title: "A", SourcePlatform: core.SourceRepositoryHost}

	merged := Merge(base, incoming)
	assert.Equal(t, "existing", merged.AISummary)

	incoming.AISummary = "fresh"
	merged = Merge(base, incoming)
	assert.Equal(t, "fresh", merged.AISummary)
}

func TestMerge_Tags(t *testing.T) {
	base := &core.Entry{Title: "A", Tags: []string{"go", "cli"}}

	merged := Merge(base, &core.Entry{Title: "A"})
	assert.Equal(t, []string{"go", "cli"}, merged.Tags, "empty never wins")

	merged = Merge(base, &core.Entry{Title: "A", Tags: []string{"rust"}})
	assert.Equal(t, []string{"rust"}, merged.Tags, "later-applied wins when both set")

	merged = Merge(&core.Entry{Title: "A"}, &core.Entry{Title: "A", Tags: []string{"x"}})
	assert.Equal(t, []string{"x"}, merged.Tags)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := feedRecord()
	incoming := archiveRecord()

	merged := Merge(base, incoming)
	merged.Tags[0] = "changed"

	assert.Equal(t, "New Title", base.Title)
	assert.Equal(t, "go", incoming.Tags[0])
	assert.Equal(t, "thin feed body", base.BodyContent)
}

func TestMerge_ManualWinsContentOverLive(t *testing.T) {
	live := &core.Entry{Title: "Tool", RepoURL: "https://github.com/u/tool", BodyContent: "readme", SourcePlatform: core.SourceRepositoryHost}
	manual := &core.Entry{Title: "Tool", RepoURL: "https://github.com/u/tool", BodyContent: "curated", SourcePlatform: core.SourceManual, IsManual: true, Featured: true}

	merged := Merge(manual, live)
	assert.Equal(t, "curated", merged.BodyContent)
	assert.True(t, merged.IsManual)
	assert.True(t, merged.Featured)
}

func TestMerge_Nil(t *testing.T) {
	e := feedRecord()

	got := Merge(nil, e)
	require.NotNil(t, got)
	assert.Equal(t, e.Title, got.Title)

	got = Merge(e, nil)
	require.NotNil(t, got)
	assert.Equal(t, e.Title, got.Title)
}

func TestMerge_MetadataOnly(t *testing.T) {
	base := &core.Entry{Title: "A", MetadataOnly: true}
	merged := Merge(base, &core.Entry{Title: "A"})
	assert.True(t, merged.MetadataOnly)

	merged = Merge(base, &core.Entry{Title: "A", BodyContent: "body"})
	assert.False(t, merged.MetadataOnly)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "https://x.com/p", Key(&core.Entry{URL: "https://x.com/p/?a=1"}))
	assert.Equal(t, "id:custom", Key(&core.Entry{ID: "custom"}))
	assert.Equal(t, "", Key(&core.Entry{Title: "Demo"}))
}
