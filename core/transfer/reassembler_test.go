package transfer_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/transfer"
)

type invalidations struct {
	mu  sync.Mutex
	ids []string
}

func (i *invalidations) Invalidate(id string) {
	i.mu.Lock()
	i.ids = append(i.ids, id)
	i.mu.Unlock()
}

func (i *invalidations) list() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.ids...)
}

func chunk(t *testing.T, name string, seq int, content string) []byte {
	t.Helper()
	line, err := json.Marshal(map[string]any{
		"name":    name,
		"seq":     seq,
		"size":    len(content),
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	})
	require.NoError(t, err)
	return line
}

func final(name string) []byte {
	return []byte(fmt.Sprintf(`{"name":%q,"final":true}`, name))
}

func TestReassembler_OutOfOrderInterleaved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inv := &invalidations{}
	r := transfer.NewReassembler(dir, transfer.WithInvalidator(inv))

	lines := [][]byte{
		chunk(t, "E12.scb", 2, "C"),
		chunk(t, "heats.txt", 1, "world"),
		chunk(t, "E12.scb", 0, "A"),
		chunk(t, "heats.txt", 0, "hello "),
		chunk(t, "E12.scb", 1, "B"),
		final("E12.scb"),
	}
	for _, l := range lines {
		require.NoError(t, r.HandleLine(l))
	}

	data, err := os.ReadFile(filepath.Join(dir, "E12.scb"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))
	assert.Equal(t, []string{"12"}, inv.list())
	assert.Equal(t, []string{"heats.txt"}, r.Pending(), "other file still buffered")

	require.NoError(t, r.HandleLine(final("heats.txt")))
	data, err = os.ReadFile(filepath.Join(dir, "heats.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, []string{"12"}, inv.list(), "only event files invalidate")
	assert.Empty(t, r.Pending())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestReassembler_Overwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "E3.scb"), []byte("old"), 0o644))

	r := transfer.NewReassembler(dir)
	require.NoError(t, r.HandleLine(chunk(t, "E3.scb", 0, "new")))
	require.NoError(t, r.HandleLine(final("E3.scb")))

	data, err := os.ReadFile(filepath.Join(dir, "E3.scb"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestReassembler_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line []byte
		want error
	}{
		{"malformed_json", []byte(`{"name":`), transfer.ErrMalformedRecord},
		{"missing_name", []byte(`{"seq":0,"content":"QQ=="}`), transfer.ErrMissingName},
		{"parent_traversal", []byte(`{"name":"../E1.scb","seq":0,"content":"QQ=="}`), transfer.ErrInvalidName},
		{"absolute_path", []byte(`{"name":"/etc/E1.scb","seq":0,"content":"QQ=="}`), transfer.ErrInvalidName},
		{"windows_separator", []byte(`{"name":"sub\\E1.scb","seq":0,"content":"QQ=="}`), transfer.ErrInvalidName},
		{"bad_base64", []byte(`{"name":"E1.scb","seq":0,"content":"!!!"}`), transfer.ErrBadContent},
		{"final_without_chunks", final("E1.scb"), transfer.ErrNoChunks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			r := transfer.NewReassembler(dir)
			require.NoError(t, r.HandleLine(chunk(t, "other.scb", 0, "keep")))

			err := r.HandleLine(tt.line)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{"other.scb"}, r.Pending(), "other buffers untouched")

			_, statErr := os.Stat(filepath.Join(dir, "E1.scb"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestReassembler_FinalWithoutChunksDiscards(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := transfer.NewReassembler(dir)

	require.NoError(t, r.HandleLine([]byte(`{"name":"E5.scb","seq":0,"content":""}`)))
	assert.ErrorIs(t, r.HandleLine(final("E5.scb")), transfer.ErrNoChunks)
	assert.Empty(t, r.Pending())

	require.NoError(t, r.HandleLine(chunk(t, "E5.scb", 0, "late")))
	assert.Equal(t, []string{"E5.scb"}, r.Pending(), "a later chunk starts a fresh buffer")
}

type idle struct{}

func (idle) Read([]byte) (int, error) { return 0, nil }

// slowReader hands out its data a few bytes at a time, like a serial link,
// with an idle read in between.
type slowReader struct {
	data []byte
	step int
	idle bool
}

func (s *slowReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	s.idle = !s.idle
	if s.idle {
		return 0, nil
	}
	n := min(s.step, len(s.data), len(p))
	copy(p, s.data[:n])
	s.data = s.data[n:]
	return n, nil
}

func TestReassembler_Start(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inv := &invalidations{}
	cfg := transfer.DefaultConfig()
	cfg.IdleSleep = 0
	cfg.MaxLineBytes = 256
	r := transfer.NewReassembler(dir, transfer.WithInvalidator(inv), transfer.WithConfig(cfg))

	var stream bytes.Buffer
	stream.Write(chunk(t, "E7.scb", 1, "second\r\n"))
	stream.WriteString("\r\n")
	stream.WriteString(`{"name":"E7.scb","seq":9,"content":"` + string(bytes.Repeat([]byte("A"), 400)) + `"}` + "\n")
	stream.WriteString("not json\n")
	stream.Write(chunk(t, "E7.scb", 0, "first\r\n"))
	stream.WriteString("\n")
	stream.Write(final("E7.scb"))
	stream.WriteString("\n")

	require.NoError(t, r.Start(context.Background(), &slowReader{data: stream.Bytes(), step: 7}))

	data, err := os.ReadFile(filepath.Join(dir, "E7.scb"))
	require.NoError(t, err)
	assert.Equal(t, "first\r\nsecond\r\n", string(data), "oversized line dropped, not joined")
	assert.Equal(t, []string{"7"}, inv.list())
}

func TestReassembler_Run(t *testing.T) {
	t.Parallel()

	r := transfer.NewReassembler(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, idle{})() }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reassembler did not stop")
	}
}
