package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dmitrymomot/swimlive/core/logger"
)

const (
	filePrefix = "E"
	fileExt    = ".scb"
	notApplied = "N/A"
)

// FileName returns the event file name for id.
func FileName(id string) string {
	return filePrefix + id + fileExt
}

// EventIDFromFileName extracts the id from a name of the form E<id>.scb.
func EventIDFromFileName(name string) (string, bool) {
	base := filepath.Base(name)
	if base != name || !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(strings.ToLower(base), fileExt) {
		return "", false
	}
	id := base[len(filePrefix) : len(base)-len(fileExt)]
	if id == "" {
		return "", false
	}
	return id, true
}

// Store caches event titles and heats read from Dir.
type Store struct {
	dir    string
	logger *slog.Logger
	// afterRead runs between reading a file and caching its result.
	afterRead func(id string)

	mu    sync.RWMutex
	names map[string]string
	heats map[string][]Heat
	// gens counts invalidations per id. A read started under an older
	// generation is returned but not cached.
	gens map[string]uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for read failures.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a cache over the event files in dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{
		dir:    dir,
		logger: logger.NewNop(),
		names:  make(map[string]string),
		heats:  make(map[string][]Heat),
		gens:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// EventName returns the display name of event id. Events without a readable
// file are named by their id.
func (s *Store) EventName(id string) string {
	if id == "" || id == notApplied {
		return id
	}

	s.mu.RLock()
	name, ok := s.names[id]
	gen := s.gens[id]
	s.mu.RUnlock()
	if ok {
		return name
	}

	lines := s.readLines(id)
	name = id
	if len(lines) > 0 {
		name = ParseTitle(lines[0])
	}

	s.mu.Lock()
	if s.gens[id] == gen {
		s.names[id] = name
	}
	s.mu.Unlock()
	return name
}

// Heats returns every parsed heat of event id.
func (s *Store) Heats(id string) []Heat {
	if id == "" || id == notApplied {
		return nil
	}

	s.mu.RLock()
	heats, ok := s.heats[id]
	gen := s.gens[id]
	s.mu.RUnlock()
	if ok {
		return heats
	}

	heats = ParseHeats(s.readLines(id))

	s.mu.Lock()
	if s.gens[id] == gen {
		s.heats[id] = heats
	}
	s.mu.Unlock()
	return heats
}

// Lanes returns the formatted lane entries for heat of event id. An unknown or
// invalid heat yields eight empty entries.
func (s *Store) Lanes(id, heat string) Lanes {
	if id == "" || heat == "" || heat == notApplied {
		return Lanes{}
	}
	n, err := strconv.Atoi(strings.TrimSpace(heat))
	if err != nil || n < 1 {
		return Lanes{}
	}
	heats := s.Heats(id)
	if n > len(heats) {
		return Lanes{}
	}
	return heats[n-1].Lanes()
}

// Invalidate drops the cached title and heats of event id.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	delete(s.names, id)
	delete(s.heats, id)
	s.gens[id]++
	s.mu.Unlock()
}

func (s *Store) readLines(id string) []string {
	path := filepath.Join(s.dir, FileName(id))
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("event file unreadable",
				logger.Component("roster"),
				logger.EventID(id),
				logger.Error(err),
			)
		}
		return nil
	}

	text, err := decode(data)
	if err != nil {
		s.logger.Warn("event file undecodable",
			logger.Component("roster"),
			logger.EventID(id),
			logger.Error(err),
		)
		return nil
	}
	if s.afterRead != nil {
		s.afterRead(id)
	}
	return splitLines(text)
}

// decode returns data as UTF-8, treating invalid UTF-8 as Windows-1252.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), nil
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

// Healthcheck reports whether the roster directory is readable.
func (s *Store) Healthcheck(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("roster dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("roster dir %q is not a directory", s.dir)
	}
	return nil
}
