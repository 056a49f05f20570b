package sessionstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

type fileStore struct {
	dir string
}

// NewFileStore keeps one snapshot file per session under dir. Writes go
// through a temp file and rename so a crashed write never leaves a
// half-written snapshot behind.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create session store dir")
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(sessionID string) string {
	// session ids come from our own cookie (uuid), but never trust them as paths
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, sessionID)
	return filepath.Join(s.dir, safe+".json")
}

func (s *fileStore) Save(_ context.Context, sessionID string, snapshot []byte) error {
	target := s.path(sessionID)
	tmp, err := os.CreateTemp(s.dir, "snapshot-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	if _, err := tmp.Write(snapshot); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close snapshot")
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "commit snapshot")
	}
	return nil
}

func (s *fileStore) Load(_ context.Context, sessionID string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read snapshot")
	}
	return data, true, nil
}

func (s *fileStore) Clear(_ context.Context, sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove snapshot")
	}
	return nil
}
