// Package filex owns every physical mutation of the content tree: directory
// creation and removal, renames, and copying uploaded bytes into place. All
// paths live under one root directory validated at startup.
package filex

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"filesafe/internal/common"
)

// Storage performs filesystem mutations under a single validated root.
type Storage struct {
	root string
}

// NewStorage validates that root exists and is a directory. Configuration
// errors here are fatal at startup.
func NewStorage(root string) (*Storage, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: root folder invalid, check configuration: %s", common.ErrInternal, root)
	}
	return &Storage{root: root}, nil
}

// Root returns the configured root directory.
func (s *Storage) Root() string {
	return s.root
}

// CreateDir creates a directory named name under parentPath and returns the
// resulting path. The parent must already exist as a directory. A directory
// that already exists at the target path is adopted silently: a concurrent
// loser or an orphan from an earlier aborted operation occupies the same
// path the caller wants, and the relational unique constraint has already
// decided the winner.
func (s *Storage) CreateDir(parentPath, name string) (string, error) {
	if !s.IsDir(parentPath) {
		return "", fmt.Errorf("%w: invalid path provided: %s", common.ErrInvalidRequest, parentPath)
	}
	path := filepath.Join(parentPath, name)
	if err := os.Mkdir(path, 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: creating directory %s: %v", common.ErrInternal, path, err)
	}
	return path, nil
}

// CopyInto copies the file at srcPath into dirPath under name. The caller
// may delete the source afterwards; the copy is complete when this returns.
func (s *Storage) CopyInto(dirPath, srcPath, name string) error {
	if !s.IsDir(dirPath) {
		return fmt.Errorf("%w: invalid path provided: %s", common.ErrInvalidRequest, dirPath)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: opening source file %s: %v", common.ErrInternal, srcPath, err)
	}
	defer src.Close()

	dstPath := filepath.Join(dirPath, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("%w: creating file %s: %v", common.ErrInternal, dstPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: copying into %s: %v", common.ErrInternal, dstPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: closing file %s: %v", common.ErrInternal, dstPath, err)
	}
	return nil
}

// Rename renames the directory or file at path within its parent and returns
// the new path.
func (s *Storage) Rename(path, newName string) (string, error) {
	newPath := filepath.Join(filepath.Dir(path), newName)
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("%w: renaming %s: %v", common.ErrInternal, path, err)
	}
	return newPath, nil
}

// Remove deletes the entry at path. Used by compensation after a failed
// transaction; a missing entry is not an error.
func (s *Storage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %v", common.ErrInternal, path, err)
	}
	return nil
}

// IsDir reports whether path exists and denotes a directory.
func (s *Storage) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
