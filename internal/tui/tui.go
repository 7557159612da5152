// Package tui provides a Bubble Tea track order editor for album-catalog.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/album-catalog/internal/catalog"
	"github.com/handiism/album-catalog/internal/export"
	"github.com/handiism/album-catalog/internal/model"
	"github.com/handiism/album-catalog/internal/present"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateLoading
	StateEditing
	StateSaving
	StateComplete
	StateExporting
	StateError
)

// Catalog is what the editor reads and writes through.
type Catalog interface {
	Album(ctx context.Context, id int64) (*model.Album, error)
	Track(ctx context.Context, id int64) (*model.Track, error)
	AlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error)
	SyncTrackIDs(ctx context.Context, album *model.Album, desired []string) (*catalog.SyncResult, error)
}

// Options configures the editor.
type Options struct {
	Catalog Catalog

	// Exporter enables the export key after saving. Optional.
	Exporter *export.Exporter

	// ExportFormat is the archive format, "FLAC" if empty.
	ExportFormat string

	// AlbumID, when set, is loaded on start.
	AlbumID int64
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   export.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	input    textinput.Model
	adding   bool
	spinner  spinner.Model
	progress progress.Model
	opts     Options
	logs     []LogEntry
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	album    *model.Album
	tracks   []*model.Track
	original []int64
	cursor   int
	result   *catalog.SyncResult

	// Export progress
	totalFiles   int32
	writtenFiles int32
	writtenBytes int64
	exported     *export.Result

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	if opts.ExportFormat == "" {
		opts.ExportFormat = "FLAC"
	}

	ti := textinput.New()
	ti.Placeholder = "album ID"
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 20

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:    StateInput,
		input:    ti,
		spinner:  sp,
		progress: prog,
		opts:     opts,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
	if opts.AlbumID > 0 {
		m.input.SetValue(strconv.FormatInt(opts.AlbumID, 10))
		m.state = StateLoading
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.state == StateLoading {
		return tea.Batch(m.loadAlbum(m.opts.AlbumID), m.spinner.Tick)
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// LoadedMsg is sent when an album and its tracks have been read.
	LoadedMsg struct {
		Album  *model.Album
		Tracks []*model.Track
		Err    error
	}

	// TrackMsg is sent when a track to add has been looked up.
	TrackMsg struct {
		Track *model.Track
		Err   error
	}

	// SavedMsg is sent when the track order has been synced.
	SavedMsg struct {
		Result *catalog.SyncResult
		Err    error
	}

	// ExportDoneMsg is sent when the archive export finishes.
	ExportDoneMsg struct {
		Result *export.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var handled bool
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case LoadedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.album = msg.Album
		m.tracks = msg.Tracks
		m.original = trackIDs(msg.Tracks)
		m.cursor = 0
		m.state = StateEditing

	case TrackMsg:
		m.input.SetValue("")
		m.input.Blur()
		m.adding = false
		switch {
		case msg.Err != nil:
			m.log(fmt.Sprintf("Cannot add track: %v", msg.Err), export.LevelError)
		case slices.Contains(trackIDs(m.tracks), msg.Track.ID):
			m.log(fmt.Sprintf("%s is already listed", msg.Track.Title), export.LevelWarning)
		default:
			m.tracks = append(m.tracks, msg.Track)
			m.cursor = len(m.tracks) - 1
			m.log(fmt.Sprintf("Added %s", msg.Track.Title), export.LevelInfo)
		}

	case SavedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.result = msg.Result
		m.original = trackIDs(m.tracks)
		m.state = StateComplete
		if msg.Result.Changed {
			m.log(fmt.Sprintf("Saved %s: %d writes", m.album.Title, msg.Result.Writes), export.LevelSuccess)
		} else {
			m.log("Track list unchanged", export.LevelInfo)
		}

	case ExportDoneMsg:
		m.state = StateComplete
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) {
				msg.Err = errors.New("cancelled by user")
			}
			m.log(fmt.Sprintf("Export failed: %v", msg.Err), export.LevelError)
			break
		}
		m.exported = msg.Result
		m.log(fmt.Sprintf("Exported %s", msg.Result.Path), export.LevelSuccess)

	case TickMsg:
		if m.opts.Exporter != nil && m.state == StateExporting {
			written, _, files, totalFiles := m.opts.Exporter.GetProgress()
			m.writtenBytes = written
			m.writtenFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput || m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey reports whether the key was consumed. Unconsumed keys reach the
// text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch m.state {
	case StateInput:
		switch key {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			id, err := strconv.ParseInt(strings.TrimSpace(m.input.Value()), 10, 64)
			if err != nil || id <= 0 {
				m.log(fmt.Sprintf("Invalid album ID %q", m.input.Value()), export.LevelWarning)
				return m, nil, true
			}
			m.state = StateLoading
			return m, tea.Batch(m.loadAlbum(id), m.spinner.Tick), true
		}

	case StateEditing:
		if m.adding {
			switch key {
			case "esc":
				m.adding = false
				m.input.SetValue("")
				m.input.Blur()
				return m, nil, true
			case "enter":
				id, err := strconv.ParseInt(strings.TrimSpace(m.input.Value()), 10, 64)
				if err != nil || id <= 0 {
					m.log(fmt.Sprintf("Invalid track ID %q", m.input.Value()), export.LevelWarning)
					return m, nil, true
				}
				return m, m.fetchTrack(id), true
			}
			return m, nil, false
		}

		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tracks)-1 {
				m.cursor++
			}
		case "K", "shift+up":
			m.tracks, m.cursor = moveTrack(m.tracks, m.cursor, -1)
		case "J", "shift+down":
			m.tracks, m.cursor = moveTrack(m.tracks, m.cursor, 1)
		case "x", "delete":
			if len(m.tracks) > 0 {
				m.log(fmt.Sprintf("Removed %s", m.tracks[m.cursor].Title), export.LevelInfo)
				m.tracks = slices.Delete(slices.Clone(m.tracks), m.cursor, m.cursor+1)
				m.cursor = min(m.cursor, max(len(m.tracks)-1, 0))
			}
		case "a":
			m.adding = true
			m.input.SetValue("")
			m.input.Placeholder = "track ID"
			m.input.Focus()
		case "r":
			m.state = StateLoading
			return m, tea.Batch(m.loadAlbum(m.album.ID), m.spinner.Tick), true
		case "s":
			m.state = StateSaving
			return m, tea.Batch(m.save(), m.spinner.Tick), true
		case "esc":
			return m.reset(), nil, true
		}
		return m, nil, true

	case StateComplete:
		switch key {
		case "e":
			if m.opts.Exporter != nil {
				m.state = StateExporting
				m.exported = nil
				return m, tea.Batch(m.export(), m.tickProgress()), true
			}
		case "b":
			m.state = StateLoading
			return m, tea.Batch(m.loadAlbum(m.album.ID), m.spinner.Tick), true
		case "n":
			return m.reset(), nil, true
		case "q", "esc":
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateError:
		switch key {
		case "n":
			return m.reset(), nil, true
		case "q", "esc":
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateLoading, StateSaving, StateExporting:
		if key == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
			if m.state == StateExporting {
				return m, nil, true
			}
			m.state = StateError
			m.err = errors.New("cancelled by user")
		}
		return m, nil, true
	}

	return m, nil, false
}

// reset returns to the album prompt.
func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.album = nil
	m.tracks = nil
	m.original = nil
	m.result = nil
	m.exported = nil
	m.cursor = 0
	m.adding = false
	m.input.Placeholder = "album ID"
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m *Model) log(message string, level export.ProgressLevel) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// Changed reports whether the edited order differs from the saved one.
func (m Model) Changed() bool {
	return !slices.Equal(trackIDs(m.tracks), m.original)
}

// Tracks returns the tracks in their edited order.
func (m Model) Tracks() []*model.Track {
	return m.tracks
}

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Album Catalog"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Reorder, add and remove album tracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateLoading:
		b.WriteString(m.viewBusy("Loading album..."))
	case StateEditing:
		b.WriteString(m.viewEditing())
	case StateSaving:
		b.WriteString(m.viewBusy("Saving track order..."))
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter album ID:"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewBusy(label string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewEditing() string {
	var b strings.Builder

	title := fmt.Sprintf("%s (#%d)", m.album.Title, m.album.ID)
	if m.Changed() {
		title += " *"
	}
	b.WriteString(albumStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.tracks) == 0 {
		b.WriteString(dimStyle.Render("  no tracks"))
		b.WriteString("\n")
	}
	for i, t := range m.tracks {
		line := fmt.Sprintf("%2d. %s", i+1, t.Title)
		meta := fmt.Sprintf("  #%d", t.ID)
		if t.AlbumID != nil && *t.AlbumID != m.album.ID {
			meta += fmt.Sprintf(" from album %d", *t.AlbumID)
		} else if t.AlbumID == nil || !slices.Contains(m.original, t.ID) {
			meta += " new"
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString(dimStyle.Render(meta))
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Add track: "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf("✨ %s saved!\n\nTracks: %d", m.album.Title, len(m.tracks))
	if r := m.result; r != nil && r.Changed {
		summary += fmt.Sprintf("\nAttached: %d\nDetached: %d\nDonor albums: %d\nWrites: %d",
			len(r.Attached), len(r.Detached), len(r.Donors), r.Writes)
	}
	if e := m.exported; e != nil {
		summary += fmt.Sprintf("\n\nArchive: %s\nSize: %s", e.Path, present.FormatBytes(e.Bytes))
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Exporting %s as %s", m.album.Title, m.opts.ExportFormat)))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.writtenFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Written: %s",
		m.writtenFiles,
		m.totalFiles,
		present.FormatBytes(m.writtenBytes),
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case export.LevelError:
			style = errorStyle
			prefix = "✗"
		case export.LevelWarning:
			style = warningStyle
			prefix = "!"
		case export.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case export.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: load • esc: quit"
	case StateEditing:
		if m.adding {
			return "enter: add • esc: cancel"
		}
		return "↑/↓: select • K/J: move • x: remove • a: add • s: save • r: reload • esc: back"
	case StateLoading, StateSaving, StateExporting:
		return "esc: cancel"
	case StateComplete:
		if m.opts.Exporter != nil {
			return "e: export • b: back to editing • n: new album • q: quit"
		}
		return "b: back to editing • n: new album • q: quit"
	case StateError:
		return "n: new album • q: quit"
	}
	return ""
}

// loadAlbum reads the album and its tracks.
func (m *Model) loadAlbum(id int64) tea.Cmd {
	ctx, c := m.ctx, m.opts.Catalog
	return func() tea.Msg {
		album, err := c.Album(ctx, id)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		tracks, err := c.AlbumTracks(ctx, id)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Album: album, Tracks: tracks}
	}
}

// fetchTrack looks up a track to add.
func (m *Model) fetchTrack(id int64) tea.Cmd {
	ctx, c := m.ctx, m.opts.Catalog
	return func() tea.Msg {
		track, err := c.Track(ctx, id)
		return TrackMsg{Track: track, Err: err}
	}
}

// save syncs the edited order.
func (m *Model) save() tea.Cmd {
	ctx, c, album := m.ctx, m.opts.Catalog, m.album
	desired := make([]string, len(m.tracks))
	for i, t := range m.tracks {
		desired[i] = strconv.FormatInt(t.ID, 10)
	}
	return func() tea.Msg {
		res, err := c.SyncTrackIDs(ctx, album, desired)
		return SavedMsg{Result: res, Err: err}
	}
}

// export writes the album archive in the background.
func (m *Model) export() tea.Cmd {
	ctx, exp, album, format := m.ctx, m.opts.Exporter, m.album, m.opts.ExportFormat
	return func() tea.Msg {
		res, err := exp.Export(ctx, album, format)
		return ExportDoneMsg{Result: res, Err: err}
	}
}

// moveTrack swaps the track at i with its neighbour in direction dir and
// returns the new slice and cursor.
func moveTrack(tracks []*model.Track, i, dir int) ([]*model.Track, int) {
	j := i + dir
	if i < 0 || i >= len(tracks) || j < 0 || j >= len(tracks) {
		return tracks, i
	}
	out := slices.Clone(tracks)
	out[i], out[j] = out[j], out[i]
	return out, j
}

func trackIDs(tracks []*model.Track) []int64 {
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
