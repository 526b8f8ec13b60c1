// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/athorsen/local2stream/internal/services"
)

// FakeCatalog is an in-memory [services.SearchService] seeded with a fixed
// set of tracks. Searches do case-insensitive substring matching so the
// matching cascade can be exercised without network access. Error fields
// inject failures; SearchErrs is consumed one entry per search call.
type FakeCatalog struct {
	mu sync.Mutex

	Tracks []services.Candidate

	SearchErrs []error
	CreateErr  error
	AddErr     error

	SearchCalls  int
	PlaylistName string
	PlaylistDesc string
	AddBatches   [][]string
}

func (f *FakeCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (f *FakeCatalog) Name() string { return "fake" }

func (f *FakeCatalog) SearchByTitleArtist(ctx context.Context, title, artist string) ([]services.Candidate, error) {
	if err := f.nextSearchErr(); err != nil {
		return nil, err
	}
	return f.filter(func(c services.Candidate) bool {
		return looseMatch(title, c.Title)
	}), nil
}

func (f *FakeCatalog) SearchByTitle(ctx context.Context, title string) ([]services.Candidate, error) {
	if err := f.nextSearchErr(); err != nil {
		return nil, err
	}
	return f.filter(func(c services.Candidate) bool {
		return looseMatch(title, c.Title)
	}), nil
}

func (f *FakeCatalog) SearchByArtist(ctx context.Context, artist string) ([]services.Candidate, error) {
	if err := f.nextSearchErr(); err != nil {
		return nil, err
	}
	return f.filter(func(c services.Candidate) bool {
		return looseMatch(artist, c.Artist)
	}), nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error) {
	if f.CreateErr != nil {
		return "", f.CreateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.PlaylistName = name
	f.PlaylistDesc = description
	return "fake-playlist-1", nil
}

func (f *FakeCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if f.AddErr != nil {
		return f.AddErr
	}
	if len(trackIDs) > 100 {
		return fmt.Errorf("batch too large: %d", len(trackIDs))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]string, len(trackIDs))
	copy(batch, trackIDs)
	f.AddBatches = append(f.AddBatches, batch)
	return nil
}

// AddedIDs flattens the recorded batches in add order.
func (f *FakeCatalog) AddedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for _, batch := range f.AddBatches {
		ids = append(ids, batch...)
	}
	return ids
}

func (f *FakeCatalog) nextSearchErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SearchCalls++
	if len(f.SearchErrs) == 0 {
		return nil
	}
	err := f.SearchErrs[0]
	f.SearchErrs = f.SearchErrs[1:]
	return err
}

func (f *FakeCatalog) filter(keep func(services.Candidate) bool) []services.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []services.Candidate
	for _, c := range f.Tracks {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func looseMatch(query, field string) bool {
	q, fl := strings.ToLower(query), strings.ToLower(field)
	return strings.Contains(fl, q) || strings.Contains(q, fl)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
