// package formatter serializes transfer reports to files and console output
// (JSON artifacts, CSV, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/athorsen/local2stream/internal/shared"
	"github.com/athorsen/local2stream/internal/tasks"
)

// ReportArtifacts contains the paths of the files created by WriteReportFiles.
type ReportArtifacts struct {
	AddedFile    string
	NotFoundFile string
	ReportFile   string
}

// WriteReportFiles persists one run as three timestamped JSON artifacts in
// outputDir: the tracks added to the playlist, the tracks the cascade could
// not find, and the full report with statistics. outputDir defaults to the
// working directory.
func WriteReportFiles(report *tasks.TransferReport, outputDir string) (*ReportArtifacts, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := report.CompletedAt
	if stamp.IsZero() {
		stamp = report.StartedAt
	}
	suffix := stamp.Format("20060102_150405")

	artifacts := &ReportArtifacts{
		AddedFile:    filepath.Join(outputDir, fmt.Sprintf("added_tracks_%s.json", suffix)),
		NotFoundFile: filepath.Join(outputDir, fmt.Sprintf("not_found_tracks_%s.json", suffix)),
		ReportFile:   filepath.Join(outputDir, fmt.Sprintf("transfer_report_%s.json", suffix)),
	}

	added := report.Added()
	if added == nil {
		added = []tasks.ReportEntry{}
	}
	notFound := report.NotFound()
	if notFound == nil {
		notFound = []tasks.ReportEntry{}
	}

	files := []struct {
		path string
		data any
	}{
		{artifacts.AddedFile, added},
		{artifacts.NotFoundFile, notFound},
		{artifacts.ReportFile, report},
	}

	for _, f := range files {
		payload, err := shared.MarshalJSON(f.data, true)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, payload, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	return artifacts, nil
}

// ReportToCSV converts a report to CSV with one row per processed descriptor.
func ReportToCSV(report *tasks.TransferReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Path", "Title", "Artist", "Album", "Bucket", "Strategy", "Confidence", "TrackID", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range report.Entries {
		record := []string{
			entry.Descriptor.Path,
			entry.Descriptor.Title,
			entry.Descriptor.Artist,
			entry.Descriptor.Album,
			string(entry.Bucket),
			entry.Result.Strategy.String(),
			strconv.FormatFloat(entry.Result.Confidence, 'f', 2, 64),
			entry.Result.TrackID,
			entry.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVReport writes the CSV rendition next to the JSON artifacts.
//
// Defaults to transfer_report_{run ID}.csv as the filename.
func WriteCSVReport(report *tasks.TransferReport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("transfer_report_%s.csv", report.RunID)
	}

	data, err := ReportToCSV(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// SummaryText renders a console-friendly run summary.
func SummaryText(report *tasks.TransferReport) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s", report.PlaylistName))
	if report.PlaylistID != "" {
		buf.WriteString(fmt.Sprintf(" (ID: %s)", report.PlaylistID))
	}
	buf.WriteString("\n")

	if report.Cancelled {
		buf.WriteString("Run cancelled before completion.\n")
	}

	buf.WriteString(fmt.Sprintf("Scanned: %d files\n", report.TotalScanned))
	buf.WriteString(fmt.Sprintf("Processed: %d\n", report.Processed()))
	buf.WriteString(fmt.Sprintf("Added: %d\n", len(report.Added())))
	buf.WriteString(fmt.Sprintf("Not found: %d\n", len(report.NotFound())))
	buf.WriteString(fmt.Sprintf("Errors: %d\n", len(report.Errored())))
	buf.WriteString(fmt.Sprintf("Success rate: %.1f%%\n", report.SuccessRate()))
	if d := report.Duration(); d > 0 {
		buf.WriteString(fmt.Sprintf("Duration: %s\n", d.Round(time.Millisecond)))
	}

	if notFound := report.NotFound(); len(notFound) > 0 {
		buf.WriteString("\nNot found:\n")
		for i, entry := range notFound {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, entry.Descriptor.Display()))
		}
	}

	return buf.Bytes()
}
