// Package storage stores uploaded material files on local disk and hands out
// opaque references. The chat engine only ever needs "save bytes, get a
// reference" and "read bytes by reference".
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("stored file not found")

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes data under a fresh uuid-based name and returns the reference.
// The original file name only contributes its extension.
func (s *LocalStore) Save(originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	if len(ext) > 16 {
		ext = ""
	}
	ref := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write stored file failed: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) Read(ref string) ([]byte, error) {
	// A reference is a bare file name; reject anything that walks out of the
	// upload dir.
	if ref == "" || ref != filepath.Base(ref) {
		return nil, ErrFileNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read stored file failed: %w", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ref string) error {
	if ref == "" || ref != filepath.Base(ref) {
		return ErrFileNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("delete stored file failed: %w", err)
	}
	return nil
}
