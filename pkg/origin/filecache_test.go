package origin_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/overlayforge/pkg/origin"
)

func TestFileCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := origin.NewFileCache(func(key string) string {
		return filepath.Join(dir, key)
	})

	_, ok := cache.Get("https://example.com/a.tar.gz")
	assert.False(t, ok)

	cache.Set("https://example.com/a.tar.gz", []byte("archive-bytes"))

	data, ok := cache.Get("https://example.com/a.tar.gz")
	assert.True(t, ok)
	assert.Equal(t, []byte("archive-bytes"), data)
}

func TestFileCacheDistinctURLsDistinctKeys(t *testing.T) {
	dir := t.TempDir()
	cache := origin.NewFileCache(func(key string) string {
		return filepath.Join(dir, key)
	})

	cache.Set("https://example.com/a.tar.gz", []byte("a"))
	cache.Set("https://example.com/b.tar.gz", []byte("b"))

	a, _ := cache.Get("https://example.com/a.tar.gz")
	b, _ := cache.Get("https://example.com/b.tar.gz")
	assert.Equal(t, []byte("a"), a)
	assert.Equal(t, []byte("b"), b)
}
