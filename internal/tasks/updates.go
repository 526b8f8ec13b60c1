package tasks

import (
	"fmt"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/match"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanLibrary Phase = iota
	CreatePlaylist
	MatchTracks
	AddTracks
	RunComplete
	RunError
)

func (p Phase) String() string {
	switch p {
	case ScanLibrary:
		return "scan_library"
	case CreatePlaylist:
		return "create_playlist"
	case MatchTracks:
		return "match_tracks"
	case AddTracks:
		return "add_tracks"
	case RunComplete:
		return "run_complete"
	case RunError:
		return "run_error"
	default:
		return ""
	}
}

func scanningUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scanning %s...", dir),
	}
}

func scannedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d audio files", count),
		Data:    count,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func playlistCreatedUpdate(name, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
		Data:    id,
	}
}

func matchingUpdate(step, total int, desc library.TrackDescriptor) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, desc.Display()),
	}
}

func matchResultUpdate(step, total int, desc library.TrackDescriptor, result match.MatchResult) ProgressUpdate {
	mark := "✓"
	if !result.Found() {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s (%s)", step, total, mark, desc.Display(), result.Strategy),
		Data:    result,
	}
}

func addBatchUpdate(added, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    added,
		Total:   total,
		Message: fmt.Sprintf("Added %d/%d tracks to playlist", added, total),
	}
}

func runCompleteUpdate(report *TransferReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunComplete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Transfer complete: %d added, %d not found, %d errors", len(report.Added()), len(report.NotFound()), len(report.Errored())),
		Data:    report,
	}
}

func runErrorUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunError,
		Step:    1,
		Total:   1,
		Message: err.Error(),
		Data:    err,
	}
}
