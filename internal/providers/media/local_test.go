package media

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStoreUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)

	url, err := store.Upload(context.Background(), "id.png", []byte("png-bytes"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))

	path := strings.TrimPrefix(url, "file://")
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)
}

func TestLocalStoreUniqueNames(t *testing.T) {
	store := NewLocal(t.TempDir())

	first, err := store.Upload(context.Background(), "id.png", []byte("a"))
	assert.NoError(t, err)
	second, err := store.Upload(context.Background(), "id.png", []byte("b"))
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStoreStripsPath(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)

	url, err := store.Upload(context.Background(), "../../etc/passwd", []byte("x"))
	assert.NoError(t, err)
	assert.NotContains(t, url, "..")
	assert.Contains(t, url, dir)
}
