package transfer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrymomot/swimlive/core/logger"
	"github.com/dmitrymomot/swimlive/core/roster"
)

// Invalidator drops cached data for an event id.
type Invalidator interface {
	Invalidate(id string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(string) {}

// record is one line of the transfer stream.
type record struct {
	Name    string `json:"name"`
	Seq     int    `json:"seq"`
	Size    int    `json:"size"`
	Content string `json:"content"`
	Final   bool   `json:"final"`
}

type pending struct {
	chunks map[int][]byte
}

// Reassembler buffers chunks per file name and writes complete files to dir.
// It is owned by the transfer loop and not safe for concurrent use.
type Reassembler struct {
	dir     string
	cfg     Config
	inv     Invalidator
	logger  *slog.Logger
	pending map[string]*pending
}

// NewReassembler writes completed files into dir.
func NewReassembler(dir string, opts ...Option) *Reassembler {
	r := &Reassembler{
		dir:     dir,
		cfg:     DefaultConfig(),
		inv:     nopInvalidator{},
		logger:  logger.NewNop(),
		pending: make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("transfer"))
	return r
}

// Pending returns the names of files with buffered chunks, sorted.
func (r *Reassembler) Pending() []string {
	return slices.Sorted(maps.Keys(r.pending))
}

// HandleLine applies one record. Errors describe a dropped record; buffers of
// other files are never affected.
func (r *Reassembler) HandleLine(line []byte) error {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if rec.Name == "" {
		return ErrMissingName
	}
	if !plainFileName(rec.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, rec.Name)
	}

	if rec.Final {
		return r.finish(rec.Name)
	}
	if rec.Content == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(rec.Content)
	if err != nil {
		return fmt.Errorf("%w: %s seq %d: %w", ErrBadContent, rec.Name, rec.Seq, err)
	}

	p, ok := r.pending[rec.Name]
	if !ok {
		p = &pending{chunks: make(map[int][]byte)}
		r.pending[rec.Name] = p
	}
	p.chunks[rec.Seq] = data

	r.logger.Debug("chunk received",
		logger.File(rec.Name),
		slog.Int("seq", rec.Seq),
		slog.Int("bytes", len(data)),
	)
	return nil
}

func (r *Reassembler) finish(name string) error {
	p, ok := r.pending[name]
	delete(r.pending, name)
	if !ok || len(p.chunks) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChunks, name)
	}

	seqs := slices.Sorted(maps.Keys(p.chunks))
	size, err := r.write(name, seqs, p.chunks)
	if err != nil {
		return err
	}

	r.logger.Info("file saved",
		logger.File(name),
		slog.Int("bytes", size),
		logger.Count("chunks", len(seqs)),
	)

	if id, ok := roster.EventIDFromFileName(name); ok {
		r.inv.Invalidate(id)
	}
	return nil
}

// write stores the joined chunks through a temporary file so readers never
// see a partial event file.
func (r *Reassembler) write(name string, seqs []int, chunks map[int][]byte) (int, error) {
	tmp, err := os.CreateTemp(r.dir, "."+name+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	size := 0
	for _, seq := range seqs {
		n, err := tmp.Write(chunks[seq])
		size += n
		if err != nil {
			_ = tmp.Close()
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.dir, name)); err != nil {
		return 0, fmt.Errorf("rename %s: %w", name, err)
	}
	return size, nil
}

func plainFileName(name string) bool {
	if name == "." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.IsLocal(name) && filepath.Base(name) == name
}
