package ui

import (
	"fmt"
	"path/filepath"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem wraps [library.TrackDescriptor] to implement [list.Item].
type trackItem struct {
	descriptor library.TrackDescriptor
}

func (i trackItem) FilterValue() string { return i.descriptor.Display() }

func (i trackItem) Title() string {
	if i.descriptor.Unparseable() {
		return filepath.Base(i.descriptor.Path)
	}
	return i.descriptor.Display()
}

func (i trackItem) Description() string {
	if i.descriptor.Unparseable() {
		return "no usable metadata"
	}

	desc := i.descriptor.Album
	if desc == "" {
		desc = filepath.Base(i.descriptor.Path)
	}
	if i.descriptor.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.descriptor.Duration))
	}
	return desc
}
