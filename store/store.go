// Package store persists documents and per-owner settings as
// msgpack-encoded files under one directory. File-per-key, atomic
// replace on write, no consistency model beyond that.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"redline/types"
)

// Document is one stored writing document.
type Document struct {
	ID        string    `msgpack:"id"`
	Title     string    `msgpack:"title"`
	Content   string    `msgpack:"content"`
	OwnerID   string    `msgpack:"owner_id"`
	Timestamp time.Time `msgpack:"timestamp"`
}

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// Store is a file-per-key msgpack store rooted at one directory.
// Documents live under docs/, settings under settings/.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open creates the store directories if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory not configured")
	}
	for _, sub := range []string{"docs", "settings"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &Store{dir: dir}, nil
}

// SaveDocument writes a document, stamping it with the current time.
func (s *Store) SaveDocument(doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	doc.Timestamp = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.docPath(doc.ID), doc)
}

// LoadDocument reads a document by ID.
func (s *Store) LoadDocument(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc Document
	if err := s.read(s.docPath(id), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document. Deleting a missing document is
// not an error.
func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.docPath(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// ListDocuments returns every stored document for an owner. An empty
// owner matches everything.
func (s *Store) ListDocuments(ownerID string) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, "docs"))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp") {
			continue
		}
		var doc Document
		if err := s.read(filepath.Join(s.dir, "docs", entry.Name()), &doc); err != nil {
			continue
		}
		if ownerID == "" || doc.OwnerID == ownerID {
			docs = append(docs, &doc)
		}
	}
	return docs, nil
}

// SaveSettings stores an owner's analysis preferences.
func (s *Store) SaveSettings(ownerID string, settings *types.Settings) error {
	if ownerID == "" {
		return fmt.Errorf("owner ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.settingsPath(ownerID), settings)
}

// LoadSettings reads an owner's preferences. A missing record yields
// zero-value settings, not an error.
func (s *Store) LoadSettings(ownerID string) (*types.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var settings types.Settings
	err := s.read(s.settingsPath(ownerID), &settings)
	if errors.Is(err, ErrNotFound) {
		return &types.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Store) docPath(id string) string {
	return filepath.Join(s.dir, "docs", hexKey(id)+".mp")
}

func (s *Store) settingsPath(ownerID string) string {
	return filepath.Join(s.dir, "settings", hexKey(ownerID)+".mp")
}

// hexKey makes an arbitrary key filesystem-safe.
func hexKey(key string) string {
	return hex.EncodeToString([]byte(key))
}

// write encodes a record to a temp file and renames it into place.
func (s *Store) write(path string, record any) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(record); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(f.Name(), path)
}

func (s *Store) read(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to open record: %w", err)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}
