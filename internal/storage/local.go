package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"socialfeed/internal/observability"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads/"

// ErrInvalidReference is returned when a reference does not point into the store.
var ErrInvalidReference = errors.New("invalid asset reference")

// LocalStore keeps assets as files in a single directory.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Dir is the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes img under a unique name and returns its public reference.
func (s *LocalStore) Save(ctx context.Context, img *Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), img.Ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), img.Data, 0o600); err != nil {
		observability.AssetOperations.WithLabelValues("save", "error").Inc()
		return "", fmt.Errorf("write asset: %w", err)
	}
	observability.AssetOperations.WithLabelValues("save", "ok").Inc()
	return PublicPrefix + name, nil
}

// Delete removes the file behind ref. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.nameFor(ref)
	if err != nil {
		observability.AssetOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		observability.AssetOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("remove asset: %w", err)
	}
	observability.AssetOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (s *LocalStore) nameFor(ref string) (string, error) {
	if !strings.HasPrefix(ref, PublicPrefix) {
		return "", ErrInvalidReference
	}
	name := strings.TrimPrefix(ref, PublicPrefix)
	if name == "" || name != path.Base(name) || name == ".." {
		return "", ErrInvalidReference
	}
	return name, nil
}
