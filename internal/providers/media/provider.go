package media

import "context"

// Store persists uploaded files and returns a public URL.
type Store interface {
	Upload(ctx context.Context, fileName string, content []byte) (string, error)
}

type NoOpStore struct{}

func (s *NoOpStore) Upload(ctx context.Context, fileName string, content []byte) (string, error) {
	return "", nil
}
