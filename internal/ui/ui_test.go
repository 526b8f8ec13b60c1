package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/athorsen/local2stream/internal/match"
	"github.com/athorsen/local2stream/internal/services"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/athorsen/local2stream/internal/tasks"
	tu "github.com/athorsen/local2stream/internal/testing"
	tea "github.com/charmbracelet/bubbletea"
)

func writeLibrary(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// stallingCatalog holds every search open until the caller's context is
// cancelled, keeping a transfer in flight for as long as the test needs.
type stallingCatalog struct {
	*tu.FakeCatalog
	release chan struct{}
}

func (s *stallingCatalog) SearchByTitleArtist(ctx context.Context, title, artist string) ([]services.Candidate, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.FakeCatalog.SearchByTitleArtist(ctx, title, artist)
}

func newTestModel(t *testing.T, catalog services.SearchService, dir string) *Model {
	t.Helper()
	matching := shared.MatchingConfig{
		FuzzyThreshold:  0.75,
		TitleThreshold:  0.60,
		ArtistThreshold: 0.50,
		MaxAttempts:     1,
		RetryBackoffMS:  1,
	}
	resolver := match.NewResolver(catalog, matching, nil)
	engine := tasks.NewTransferEngine(catalog, resolver, shared.TransferConfig{}, nil)
	return NewModel(context.Background(), engine, dir, "Interrupted Mix")
}

func TestModelTransferCancel(t *testing.T) {
	keyYes := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	keyEsc := tea.KeyMsg{Type: tea.KeyEsc}

	t.Run("cancel key stops a running transfer", func(t *testing.T) {
		dir := writeLibrary(t, "The Beatles - Hey Jude.mp3", "The Beatles - Let It Be.mp3")
		catalog := &stallingCatalog{
			FakeCatalog: &tu.FakeCatalog{},
			release:     make(chan struct{}),
		}

		m := newTestModel(t, catalog, dir)
		m.view = ConfirmView

		if _, cmd := m.Update(keyYes); cmd == nil {
			t.Fatal("confirming must start the transfer command")
		}
		if m.view != TransferView {
			t.Fatalf("expected transfer view after confirm, got %d", m.view)
		}
		if m.cancel == nil {
			t.Fatal("running transfer must be cancellable")
		}

		m.Update(keyEsc)

		var complete transferCompleteMsg
		select {
		case complete = <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatal("cancelled transfer never finished")
		}

		if complete.err != nil {
			t.Fatalf("cancellation must yield a clean partial report, got %v", complete.err)
		}
		if complete.report == nil || !complete.report.Cancelled {
			t.Fatal("expected report flagged as cancelled")
		}

		m.Update(complete)
		if m.view != ResultView {
			t.Errorf("expected result view after completion, got %d", m.view)
		}
		if m.cancel != nil {
			t.Error("completed transfer must release its cancel func")
		}
		if m.report == nil || !m.report.Cancelled {
			t.Error("result view must carry the cancelled report")
		}
	})

	t.Run("cancel key is a no-op outside a run", func(t *testing.T) {
		dir := writeLibrary(t, "The Beatles - Hey Jude.mp3")
		m := newTestModel(t, &tu.FakeCatalog{}, dir)
		m.view = TransferView

		if _, cmd := m.Update(keyEsc); cmd != nil {
			t.Error("cancel with no transfer running must not emit a command")
		}
	})
}
