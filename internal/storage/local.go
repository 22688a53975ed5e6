package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LocalStore keeps assets as flat files in one uploads directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Delete removes the file named by the last element of ref. Only the base name
// is used, so a reference can never address a file outside the directory.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	p, err := refPath(ref)
	if err != nil {
		return err
	}
	name := path.Base(p)
	target := filepath.Join(s.dir, name)

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Ctx(ctx).Debug().Str("file", target).Msg("asset already gone")
			return nil
		}
		return fmt.Errorf("failed to delete asset %s: %w", name, err)
	}
	log.Ctx(ctx).Debug().Str("file", target).Msg("deleted asset")
	return nil
}
