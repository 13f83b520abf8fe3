package normalize

import (
	"testing"

	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
)

func TestRegistryClaim(t *testing.T) {
	r := NewRegistry()

	first := r.Claim("github:tools", "https://github.com/a/tools")
	assert.Equal(t, "github:tools", first)

	again := r.Claim("github:tools", "https://github.com/a/tools")
	assert.Equal(t, "github:tools", again, "same identity keeps the id")

	other := r.Claim("github:tools", "https://github.com/b/tools")
	assert.Equal(t, "github:tools-"+ShortHash("https://github.com/b/tools"), other)

	owner, ok := r.Owner(other)
	assert.True(t, ok)
	assert.Equal(t, "https://github.com/b/tools", owner)
}

func TestRegistryReserve(t *testing.T) {
	r := NewRegistry()
	r.Reserve("medium:post", "https://medium.com/@a/post")
	r.Reserve("medium:post", "https://medium.com/@b/post")

	owner, _ := r.Owner("medium:post")
	assert.Equal(t, "https://medium.com/@a/post", owner, "reserve never overrides")

	id := r.Claim("medium:post", "https://medium.com/@b/post")
	assert.NotEqual(t, "medium:post", id)
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "https://x.com/a", Identity(&core.Entry{Title: "A", URL: "https://x.com/a/"}))
	assert.Equal(t, "A", Identity(&core.Entry{Title: "A"}))
}
