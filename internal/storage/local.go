package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zourte2486/school-platform-test/internal/config"
	"github.com/zourte2486/school-platform-test/internal/model"
)

// LocalStorage writes images to a directory on disk. Locators are bare
// filenames; the presentation layer resolves display paths for them.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(cfg *config.Config) (*LocalStorage, error) {
	dir := filepath.Join(cfg.Storage.Local.Dir, cfg.Storage.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, img model.ImagePayload) (string, error) {
	name := newObjectName(img)
	if err := os.WriteFile(filepath.Join(s.dir, name), img.Data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, locator string) error {
	// Locators are filenames; reject anything trying to escape the dir.
	name := filepath.Base(locator)
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
