package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare filename", "123.jpg", "/uploads/123.jpg"},
		{"folder relative", "blogs/123.jpg", "/uploads/blogs/123.jpg"},
		{"already canonical", "/uploads/blogs/123.jpg", "/uploads/blogs/123.jpg"},
		{"missing leading slash", "uploads/blogs/123.jpg", "/uploads/blogs/123.jpg"},
		{"absolute filesystem path", "/var/app/uploads/blogs/123.jpg", "/uploads/blogs/123.jpg"},
		{"windows separators", `C:\app\uploads\landing\1.png`, "/uploads/landing/1.png"},
		{"doubled prefix", "/uploads/uploads/blogs/1.jpg", "/uploads/blogs/1.jpg"},
		{"absolute url", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"protocol relative url", "//cdn.example.com/a.jpg", "//cdn.example.com/a.jpg"},
		{"protocol relative with port", "//localhost:9000/a.jpg", "//localhost:9000/a.jpg"},
		{"doubled leading slash", "//uploads/blogs/1.jpg", "/uploads/blogs/1.jpg"},
		{"empty", "", ""},
		{"traversal", "blogs/../../etc/passwd", "/uploads/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.in))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"a.jpg", "/srv/uploads/site/logo.svg", `uploads\profiles\me.png`} {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once))
	}
}

func TestJoinAndRelativePath(t *testing.T) {
	url := Join("blogs", "1-2.jpg")
	assert.Equal(t, "/uploads/blogs/1-2.jpg", url)
	assert.Equal(t, "blogs/1-2.jpg", RelativePath(url))
	assert.True(t, IsAbsoluteURL("http://x/y"))
	assert.True(t, IsAbsoluteURL("//cdn.example.com/y.png"))
	assert.False(t, IsAbsoluteURL(url))
}
