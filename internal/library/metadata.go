package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Extract reads tag metadata from the file at path and returns a descriptor.
//
// Tags win over the filename; any field the tags leave empty is filled from
// the filename stem instead. Extraction never fails outright: a file with no
// readable tags and an unparseable name yields an unparseable descriptor,
// which the caller buckets as an error.
func Extract(path string) TrackDescriptor {
	desc := fromFilename(path)

	f, err := os.Open(path)
	if err != nil {
		return desc
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return desc
	}

	if title := strings.TrimSpace(meta.Title()); title != "" {
		desc.Title = title
	}
	if artist := strings.TrimSpace(meta.Artist()); artist != "" {
		desc.Artist = artist
	}
	if album := strings.TrimSpace(meta.Album()); album != "" {
		desc.Album = album
	}

	return desc
}

// fromFilename derives a descriptor from the filename alone, parsing the
// "Artist - Title" convention. A stem without the separator becomes the title
// with no artist.
func fromFilename(path string) TrackDescriptor {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	desc := TrackDescriptor{Path: path}
	if artist, title, ok := strings.Cut(stem, " - "); ok {
		desc.Artist = strings.TrimSpace(artist)
		desc.Title = strings.TrimSpace(title)
	} else {
		desc.Title = strings.TrimSpace(stem)
	}

	return desc
}
