package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads to a local directory. Meant for dev and
// test environments without a media host.
type LocalStore struct {
	dir string
}

func NewLocal(dir string) *LocalStore {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "lexperience-uploads")
	}
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Upload(ctx context.Context, fileName string, content []byte) (string, error) {
	_ = ctx
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	// Prefix with a UUID so concurrent uploads of the same file name
	// never clobber each other.
	name := uuid.NewString() + "-" + filepath.Base(strings.TrimSpace(fileName))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return "file://" + path, nil
}

var _ Store = (*LocalStore)(nil)
