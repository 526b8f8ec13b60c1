package tasks

import (
	"time"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/match"
	"github.com/athorsen/local2stream/internal/shared"
)

// Bucket classifies a report entry. Every descriptor processed in a run
// lands in exactly one bucket; the three buckets partition the input set.
type Bucket string

const (
	BucketAdded    Bucket = "added"
	BucketNotFound Bucket = "not_found"
	BucketError    Bucket = "error"
)

// ReportEntry pairs one descriptor with its resolution outcome.
type ReportEntry struct {
	Descriptor library.TrackDescriptor `json:"descriptor"`
	Result     match.MatchResult       `json:"result"`
	Bucket     Bucket                  `json:"bucket"`
	Error      string                  `json:"error,omitempty"`
}

// TransferReport accumulates the outcome of one transfer run. It is owned
// exclusively by the engine while the run is in flight and must be treated
// as an immutable snapshot once Run returns.
type TransferReport struct {
	RunID        string         `json:"run_id"`
	PlaylistName string         `json:"playlist_name"`
	PlaylistID   string         `json:"playlist_id,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
	Cancelled    bool           `json:"cancelled,omitempty"`
	TotalScanned int            `json:"total_scanned"`
	Counts       map[string]int `json:"counts"`
	Entries      []ReportEntry  `json:"entries"`
}

func NewTransferReport(playlistName string) *TransferReport {
	return &TransferReport{
		RunID:        shared.GenerateID(),
		PlaylistName: playlistName,
		StartedAt:    time.Now().UTC(),
		Counts:       map[string]int{},
	}
}

// Record appends one entry and bumps its strategy counter. Error-bucket
// entries count under "error" since they never reached a strategy outcome.
func (r *TransferReport) Record(desc library.TrackDescriptor, result match.MatchResult, bucket Bucket, err error) {
	entry := ReportEntry{
		Descriptor: desc,
		Result:     result,
		Bucket:     bucket,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	r.Entries = append(r.Entries, entry)

	if bucket == BucketError {
		r.Counts["error"]++
		return
	}
	r.Counts[result.Strategy.String()]++
}

// rebucket moves the entries at the given indexes into the error bucket.
// Used when a playlist-add batch fails after its tracks were matched.
func (r *TransferReport) rebucket(indexes []int, err error) {
	for _, i := range indexes {
		if i < 0 || i >= len(r.Entries) {
			continue
		}
		entry := &r.Entries[i]
		r.Counts[entry.Result.Strategy.String()]--
		entry.Bucket = BucketError
		if err != nil {
			entry.Error = err.Error()
		}
		r.Counts["error"]++
	}
}

func (r *TransferReport) Finish(playlistID string, cancelled bool) {
	r.PlaylistID = playlistID
	r.Cancelled = cancelled
	r.CompletedAt = time.Now().UTC()
}

// Processed returns the number of descriptors that reached an outcome.
func (r *TransferReport) Processed() int {
	return len(r.Entries)
}

// Added returns the entries whose tracks ended up on the playlist.
func (r *TransferReport) Added() []ReportEntry {
	return r.bucket(BucketAdded)
}

// NotFound returns the entries the cascade could not match.
func (r *TransferReport) NotFound() []ReportEntry {
	return r.bucket(BucketNotFound)
}

// Errored returns the entries that failed outside the cascade, including
// unreadable files and failed playlist-add batches.
func (r *TransferReport) Errored() []ReportEntry {
	return r.bucket(BucketError)
}

func (r *TransferReport) bucket(want Bucket) []ReportEntry {
	var out []ReportEntry
	for _, e := range r.Entries {
		if e.Bucket == want {
			out = append(out, e)
		}
	}
	return out
}

// SuccessRate is the share of processed descriptors added to the playlist,
// as a percentage.
func (r *TransferReport) SuccessRate() float64 {
	if len(r.Entries) == 0 {
		return 0
	}
	return float64(len(r.Added())) / float64(len(r.Entries)) * 100
}

// Duration is the wall-clock span of the run.
func (r *TransferReport) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
