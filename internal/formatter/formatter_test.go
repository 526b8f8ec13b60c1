package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/match"
	"github.com/athorsen/local2stream/internal/tasks"
	th "github.com/athorsen/local2stream/internal/testing"
)

func sampleReport() *tasks.TransferReport {
	report := tasks.NewTransferReport("Local2Stream Collection")
	report.TotalScanned = 3
	report.Record(
		library.TrackDescriptor{Path: "/music/The Beatles - Hey Jude.mp3", Title: "Hey Jude", Artist: "The Beatles"},
		match.MatchResult{Strategy: match.StrategyExact, Confidence: 1.0, TrackID: "s1", Title: "Hey Jude", Artist: "The Beatles"},
		tasks.BucketAdded,
		nil,
	)
	report.Record(
		library.TrackDescriptor{Path: "/music/Unknown - Obscure.mp3", Title: "Obscure", Artist: "Unknown"},
		match.MatchResult{Strategy: match.StrategyNotFound},
		tasks.BucketNotFound,
		nil,
	)
	report.Finish("pl1", false)
	return report
}

func TestWriteReportFiles(t *testing.T) {
	t.Run("creates three timestamped artifacts", func(t *testing.T) {
		dir := t.TempDir()
		report := sampleReport()

		artifacts, err := WriteReportFiles(report, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		th.AssertFileExists(t, artifacts.AddedFile)
		th.AssertFileExists(t, artifacts.NotFoundFile)
		th.AssertFileExists(t, artifacts.ReportFile)

		suffix := report.CompletedAt.Format("20060102_150405")
		for _, path := range []string{artifacts.AddedFile, artifacts.NotFoundFile, artifacts.ReportFile} {
			if !strings.Contains(filepath.Base(path), suffix) {
				t.Errorf("artifact %s missing timestamp %s", path, suffix)
			}
		}

		var added []tasks.ReportEntry
		if err := json.Unmarshal([]byte(th.MustReadFile(t, artifacts.AddedFile)), &added); err != nil {
			t.Fatalf("added artifact is not valid JSON: %v", err)
		}
		if len(added) != 1 || added[0].Result.TrackID != "s1" {
			t.Errorf("unexpected added artifact contents: %+v", added)
		}

		var notFound []tasks.ReportEntry
		if err := json.Unmarshal([]byte(th.MustReadFile(t, artifacts.NotFoundFile)), &notFound); err != nil {
			t.Fatalf("not-found artifact is not valid JSON: %v", err)
		}
		if len(notFound) != 1 || notFound[0].Descriptor.Title != "Obscure" {
			t.Errorf("unexpected not-found artifact contents: %+v", notFound)
		}

		var full tasks.TransferReport
		if err := json.Unmarshal([]byte(th.MustReadFile(t, artifacts.ReportFile)), &full); err != nil {
			t.Fatalf("report artifact is not valid JSON: %v", err)
		}
		if full.PlaylistID != "pl1" || full.Counts["exact"] != 1 {
			t.Errorf("unexpected report artifact contents: %+v", full)
		}
	})

	t.Run("empty buckets serialize as arrays", func(t *testing.T) {
		dir := t.TempDir()
		report := tasks.NewTransferReport("Empty")
		report.Finish("pl1", false)

		artifacts, err := WriteReportFiles(report, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content := strings.TrimSpace(th.MustReadFile(t, artifacts.AddedFile))
		if content != "[]" {
			t.Errorf("expected empty JSON array, got %q", content)
		}
	})

	t.Run("creates output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "nested")
		if _, err := WriteReportFiles(sampleReport(), dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		th.AssertDirExists(t, dir)
	})
}

func TestReportToCSV(t *testing.T) {
	data, err := ReportToCSV(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Path,Title,Artist") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "exact") || !strings.Contains(lines[1], "s1") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "not_found") {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestWriteCSVReport(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()

	path, err := WriteCSVReport(report, filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	th.AssertFileExists(t, path)

	t.Run("defaults filename to run ID", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, wd)

		path, err := WriteCSVReport(report, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(path, report.RunID) {
			t.Errorf("expected run ID in default filename, got %s", path)
		}
	})
}

func TestSummaryText(t *testing.T) {
	report := sampleReport()
	summary := string(SummaryText(report))

	for _, want := range []string{
		"Local2Stream Collection",
		"Added: 1",
		"Not found: 1",
		"Success rate: 50.0%",
		"Unknown - Obscure",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	t.Run("cancelled runs are flagged", func(t *testing.T) {
		cancelled := tasks.NewTransferReport("X")
		cancelled.Finish("", true)
		if !strings.Contains(string(SummaryText(cancelled)), "cancelled") {
			t.Error("expected cancellation notice in summary")
		}
	})
}
