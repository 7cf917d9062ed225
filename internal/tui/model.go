package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
)

const (
	barWidth   = 30
	inputWidth = 60
	urlLimit   = 2048
)

// Model is the Bubbletea model for the download queue
type Model struct {
	// Navigation
	width    int
	adding   bool
	quitting bool
	cursor   int

	// Dependencies
	svc download.Downloader

	// Options for new items and batches
	quality       model.Quality
	maxConcurrent int

	// State, mirrored from service snapshots
	items []model.VideoItem
	index map[string]int
	last  *model.BatchReport

	// Components
	urlInput textinput.Model
	bar      progress.Model
	spinner  spinner.Model

	// UI state
	statusMessage string
	errorMessage  string
}

// NewModel creates the queue model
func NewModel(svc download.Downloader, quality model.Quality) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://..."
	urlInput.CharLimit = urlLimit
	urlInput.Width = inputWidth

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		svc:           svc,
		quality:       quality,
		maxConcurrent: svc.MaxConcurrent(),
		index:         make(map[string]int),
		urlInput:      urlInput,
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		spinner:       s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Subscribe forwards service callbacks to send, usually (*tea.Program).Send
func Subscribe(svc download.Downloader, send func(tea.Msg)) {
	svc.SetUpdateCallback(func(item model.VideoItem) {
		send(itemUpdateMsg{item: item})
	})
	svc.SetBatchCallback(func(report model.BatchReport) {
		send(batchDoneMsg{report: report})
	})
}

func (m Model) selected() (model.VideoItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.VideoItem{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) reindex() {
	m.index = make(map[string]int, len(m.items))
	for i, item := range m.items {
		m.index[item.ID] = i
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
