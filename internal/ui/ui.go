package ui

import (
	"context"
	"fmt"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScanView ViewState = iota
	TrackListView
	ConfirmView
	TransferView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.TransferEngine
	dir          string
	playlistName string
	width        int
	height       int
	trackList    list.Model
	descriptors  []library.TrackDescriptor
	progressChan chan tasks.ProgressUpdate
	done         chan transferCompleteMsg
	cancel       context.CancelFunc
	progress     tasks.ProgressUpdate
	report       *tasks.TransferReport
	err          error
	help         help.Model
	keys         keyMap
}

type libraryScannedMsg struct {
	descriptors []library.TrackDescriptor
	err         error
}

type progressUpdateMsg tasks.ProgressUpdate

type transferCompleteMsg struct {
	report *tasks.TransferReport
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.TransferEngine, dir, playlistName string) *Model {
	return &Model{
		ctx:          ctx,
		view:         ScanView,
		engine:       engine,
		dir:          dir,
		playlistName: playlistName,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by scanning the local library.
func (m *Model) Init() tea.Cmd {
	return m.scanLibrary()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ScanView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case TransferView:
			return m.handleTransferKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case libraryScannedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.descriptors = msg.descriptors
		items := make([]list.Item, len(msg.descriptors))
		for i, d := range msg.descriptors {
			items[i] = trackItem{descriptor: d}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Local Library (%d tracks)", len(msg.descriptors))
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case transferCompleteMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.report = msg.report
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ScanView:
		return m.renderScan()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case TransferView:
		return m.renderTransfer()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = TransferView
		return m, m.startTransfer()
	}
	return m, nil
}

func (m *Model) handleTransferKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		// Stop the engine between tracks. The run drains into a partial
		// report, which arrives as the usual transferCompleteMsg.
		if m.cancel != nil {
			m.cancel()
		}
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ScanView
		m.descriptors = nil
		m.report = nil
		m.err = nil
		return m, m.scanLibrary()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != TrackListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) scanLibrary() tea.Cmd {
	return func() tea.Msg {
		descriptors, err := library.Scan(m.dir)
		return libraryScannedMsg{descriptors: descriptors, err: err}
	}
}

func (m *Model) startTransfer() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	runCtx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	done := make(chan transferCompleteMsg, 1)
	go func() {
		report, err := m.engine.Run(runCtx, progressChan, m.dir, m.playlistName)
		done <- transferCompleteMsg{report: report, err: err}
		close(progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return transferCompleteMsg{report: m.report, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderScan() string {
	title := styles.title.Render("Scanning Library")
	return fmt.Sprintf("%s\n\nReading %s...\n\n%s", title, m.dir, styles.help.Render("q quit"))
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.confirm, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Transfer %d tracks to Spotify?", len(m.descriptors)))
	info := fmt.Sprintf("\nPlaylist: %s\nSource: %s\n", m.playlistName, m.dir)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderTransfer() string {
	title := styles.title.Render("Transferring Library")

	var phase string
	switch m.progress.Phase {
	case tasks.ScanLibrary:
		phase = "Scanning library..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.MatchTracks:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.AddTracks:
		phase = "Adding tracks to playlist..."
	default:
		phase = "Processing..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.stop})
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Transfer failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.report == nil {
		return styles.err.Render("No report available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Transfer Complete!")
	if m.report.Cancelled {
		title = styles.warn.Render("Transfer cancelled")
	}

	info := fmt.Sprintf(
		"\nPlaylist: %s\nScanned: %d tracks\nAdded: %d\nNot found: %d\nErrors: %d\nSuccess rate: %.1f%%",
		m.report.PlaylistName,
		m.report.TotalScanned,
		len(m.report.Added()),
		len(m.report.NotFound()),
		len(m.report.Errored()),
		m.report.SuccessRate(),
	)

	var missed string
	if notFound := m.report.NotFound(); len(notFound) > 0 {
		missed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Could not match %d tracks:", len(notFound))))
		for _, entry := range notFound {
			missed += fmt.Sprintf("\n  • %s", entry.Descriptor.Display())
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missed, helpView)
}
