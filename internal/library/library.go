// package library scans a local music folder and produces track descriptors.
//
// Tag metadata is read via [github.com/dhowden/tag]; when a file carries no
// usable tags the descriptor falls back to filename parsing ("Artist - Title").
package library

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the audio file extensions picked up by a scan.
var SupportedExtensions = []string{".mp3", ".flac", ".m4a", ".mp4", ".wav", ".ogg"}

// TrackDescriptor is the normalized identity of one local audio file.
// Immutable once produced by the scanner.
type TrackDescriptor struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	// Duration is in seconds and stays 0 for scanned files: the tag reader
	// only exposes metadata frames, not stream length. Match tie-breaking
	// degrades to first-result order when it is unset.
	Duration int `json:"duration,omitempty"`
}

// Unparseable reports whether neither tags nor the filename yielded a title.
// Unparseable descriptors are skipped by the resolver and counted as errors.
func (d TrackDescriptor) Unparseable() bool {
	return strings.TrimSpace(d.Title) == ""
}

// Display renders the descriptor as "Artist - Title" for logs and progress.
func (d TrackDescriptor) Display() string {
	if d.Artist == "" {
		return d.Title
	}
	return d.Artist + " - " + d.Title
}

// IsSupported reports whether path has one of the supported audio extensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
