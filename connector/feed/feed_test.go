package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/curator/connector"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Stories by Me</title>
  <item>
    <title>Understanding Go Generics</title>
    <link>https://medium.com/@me/understanding-go-generics-abc123?source=rss-----</link>
    <pubDate>Tue, 30 Apr 2024 10:00:00 GMT</pubDate>
    <category>go</category>
    <category>programming</category>
    <content:encoded><![CDATA[<h3>Intro</h3><p>Generics landed in Go 1.18.</p><img src="https://cdn.example.com/cover.png"/><ul><li>one</li></ul>]]></content:encoded>
  </item>
  <item>
    <title></title>
    <link>https://medium.com/@me/second</link>
    <description><![CDATA[<p>Only a description.</p>]]></description>
  </item>
</channel>
</rss>`

func TestNew_RequiresUsername(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, connector.ErrUsernameRequired)
}

func TestURL(t *testing.T) {
	src, err := New("me")
	require.NoError(t, err)
	assert.Equal(t, "https://medium.com/feed/@me", src.URL())
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/@me", r.URL.Path)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer srv.Close()

	src, err := New("me", WithURLTemplate(srv.URL+"/feed/@{username}"))
	require.NoError(t, err)

	seq, err := src.Fetch(context.Background(), connector.Known{})
	require.NoError(t, err)

	entries := connector.Entries(seq)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, core.KindBlog, first.Kind)
	assert.Equal(t, "Understanding Go Generics", first.Title)
	assert.Equal(t, "https://medium.com/@me/understanding-go-generics-abc123", first.URL)
	assert.Equal(t, "2024-04-30", first.Date)
	assert.Equal(t, []string{"go", "programming"}, first.Tags)
	assert.Equal(t, "Medium", first.Platform)
	assert.Equal(t, core.SourceFeed, first.SourcePlatform)
	assert.Equal(t, core.SourceFeed, first.ContentSource)
	assert.Contains(t, first.BodyContent, "### Intro")
	assert.Contains(t, first.BodyContent, "- one")
	assert.Equal(t, "https://cdn.example.com/cover.png", first.ImageURL)
	assert.Contains(t, first.Summary, "Generics landed in Go 1.18.")

	second := entries[1]
	assert.Equal(t, "Untitled", second.Title)
	assert.Equal(t, "Only a description.", second.Summary)
	assert.Equal(t, "Only a description.", second.BodyContent)
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := New("me", WithURLTemplate(srv.URL+"/{username}"))
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), connector.Known{})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "desc", summarize("<p>desc</p>", "<p>body</p>"))
	assert.Equal(t, "body", summarize("<p>body</p>", "<p>body</p>"))
	assert.Equal(t, "", summarize("", ""))
}
