package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "projects/1700000000123-my-photo-1-.png", UploadPath("projects", "my photo (1).png", now))
	assert.Equal(t, "sections/1700000000123-passwd", UploadPath("sections", "../../etc/passwd", now))
	assert.Equal(t, "articles/1700000000123-file", UploadPath("articles", "日本", now))
}

func TestPublicURL(t *testing.T) {
	s := &MinioStore{Bucket: "portfolio-images", PublicBase: "http://127.0.0.1:9000"}
	assert.Equal(t, "http://127.0.0.1:9000/portfolio-images/projects/1-a.png", s.PublicURL("projects/1-a.png"))
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("http://cdn.test/")
	require.NoError(t, m.PutBytes(context.Background(), "a/b.png", []byte{1, 2}, "image/png"))
	obj, ok := m.Object("a/b.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "http://cdn.test/a/b.png", m.PublicURL("a/b.png"))
}

func TestGuessContentType(t *testing.T) {
	assert.Equal(t, "image/png", GuessContentType("x.png", ""))
	assert.Equal(t, "image/heic", GuessContentType("x.unknownext", "image/heic"))
	assert.Equal(t, "application/octet-stream", GuessContentType("x", ""))
}
