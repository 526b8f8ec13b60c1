// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for library transfers:
//  1. [ScanView] : Scan the local music directory
//  2. [TrackListView] : Review the scanned tracks before transfer
//  3. [ConfirmView] : Confirm the transfer operation
//  4. [TransferView] : Monitor real-time matching progress
//  5. [ResultView] : Display the report summary and unmatched tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the TransferEngine, providing non-blocking status reporting during transfers.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
