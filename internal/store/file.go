// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/xdg"
	"github.com/neonreach/neonreach/pkg/errutil"
)

const fileExt = ".json"

// WriteFile writes st as indented JSON. The file is replaced atomically
// so a crash never leaves a half-written snapshot behind.
func WriteFile(path string, st *game.State) error {
	body, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	body = append(body, '\n')

	dir := filepath.Dir(path)
	if err := xdg.EnsureDir(dir); err != nil {
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error wins
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error wins
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	return nil
}

// ReadFile reads a snapshot written by WriteFile.
func ReadFile(path string) (*game.State, error) {
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Code(CodeSnapshotNotFound).With("path", path).Wrap(err)
	}
	if err != nil {
		return nil, oops.Code(CodeSnapshotRead).With("path", path).Wrap(err)
	}
	return decodeState(body, "path", path)
}

func decodeState(body []byte, key, value string) (*game.State, error) {
	var st game.State
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, oops.Code(CodeSnapshotDecode).With(key, value).Wrap(err)
	}
	return &st, nil
}

// FileStore keeps one JSON file per snapshot name in a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// NewDefaultFileStore roots the store in the XDG data directory, where the
// DefaultName snapshot lands at xdg.SnapshotFile().
func NewDefaultFileStore() (*FileStore, error) {
	dir, err := xdg.DataDir()
	if err != nil {
		return nil, oops.Code(CodeSnapshotRead).With("operation", "resolve data dir").Wrap(err)
	}
	return NewFileStore(dir), nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a snapshot name maps to.
func (s *FileStore) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, name string, st *game.State) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return WriteFile(path, st)
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, name string) (*game.State, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	st, err := ReadFile(path)
	if errutil.HasCode(err, CodeSnapshotNotFound) {
		return nil, errNotFound(name)
	}
	return st, err
}

// List implements Store. Files that are not snapshots are skipped.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code(CodeSnapshotRead).With("dir", s.dir).Wrap(err)
	}

	var out []Entry
	for _, de := range dirEntries {
		name, ok := strings.CutSuffix(de.Name(), fileExt)
		if de.IsDir() || !ok || ValidateName(name) != nil {
			continue
		}
		header, savedAt, err := s.readHeader(filepath.Join(s.dir, de.Name()))
		if err != nil || header.Version == "" {
			continue
		}
		out = append(out, Entry{Name: name, Version: header.Version, SavedAt: savedAt})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

type stateHeader struct {
	Version string `json:"version"`
}

func (s *FileStore) readHeader(path string) (stateHeader, time.Time, error) {
	var h stateHeader
	body, err := os.ReadFile(path)
	if err != nil {
		return h, time.Time{}, err
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return h, time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return h, time.Time{}, err
	}
	return h, info.ModTime().UTC(), nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code(CodeSnapshotWrite).With("path", path).Wrap(err)
	}
	return true, nil
}
