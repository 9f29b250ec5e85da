package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"kycdesk/pkg/platform/sentinel"
)

// File keeps every key in one JSON object on disk. Writes go to a temporary
// file that is renamed over the original, so a crash leaves either the old or
// the new document, never a torn one. It is meant for a single process; the
// CLI and a running server pointed at the same file see each other's writes
// on Reload but do not lock against each other.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a KV stored at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (s *File) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := doc[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

func (s *File) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, sentinel.ErrMalformed) {
		doc, err = s.quarantine()
	}
	if err != nil {
		return err
	}
	doc[key] = value
	return s.write(doc)
}

// Ping checks that the directory holding the file exists.
func (s *File) Ping(context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("store dir %s: %w", dir, errors.Join(sentinel.ErrUnavailable, err))
	}
	if !info.IsDir() {
		return fmt.Errorf("store dir %s is not a directory: %w", dir, sentinel.ErrUnavailable)
	}
	return nil
}

func (s *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	doc := make(map[string]string)
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", s.path, errors.Join(sentinel.ErrMalformed, err))
	}
	return doc, nil
}

// quarantine moves an undecodable document to path.corrupt and starts over
// with an empty one.
func (s *File) quarantine() (map[string]string, error) {
	if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
		return nil, fmt.Errorf("quarantine store file: %w", err)
	}
	return make(map[string]string), nil
}

func (s *File) write(doc map[string]string) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
