package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.errorMessage = ""
		m.statusMessage = ""
		if m.adding {
			return m.handleInputKeys(msg)
		}
		return m.handleListKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case itemUpdateMsg:
		m.applyUpdate(msg.item)
		return m, nil

	case batchDoneMsg:
		report := msg.report
		m.last = &report
		m.statusMessage = fmt.Sprintf("Batch finished: %d of %d downloaded", report.Completed, report.Total)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyUpdate stores a published snapshot
func (m *Model) applyUpdate(item model.VideoItem) {
	if i, ok := m.index[item.ID]; ok {
		m.items[i] = item
		return
	}
	// late snapshots of removed items
	if _, ok := m.svc.Item(item.ID); !ok {
		return
	}
	m.index[item.ID] = len(m.items)
	m.items = append(m.items, item)
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.adding = false
		m.urlInput.Blur()
		m.urlInput.SetValue("")
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		m.submitURL(m.urlInput.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

// submitURL queues one URL and leaves add mode on success
func (m *Model) submitURL(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		m.errorMessage = "Please enter a video URL"
		return
	}

	if _, err := m.svc.Enqueue(raw, m.quality); err != nil {
		var verr *download.ValidationError
		if errors.As(err, &verr) {
			m.errorMessage = fmt.Sprintf("%s (supported: %s)", verr.Reason, strings.Join(platform.SupportedPlatformNames(), ", "))
		} else {
			m.errorMessage = err.Error()
		}
		return
	}

	m.statusMessage = "Queued " + platform.TruncateURL(raw)
	m.adding = false
	m.urlInput.Blur()
	m.urlInput.SetValue("")
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("a"))):
		m.adding = true
		return m, m.urlInput.Focus()

	case key.Matches(msg, key.NewBinding(key.WithKeys("d"))):
		n, err := m.svc.StartBatch(m.maxConcurrent)
		switch {
		case errors.Is(err, download.ErrNothingToDownload):
			m.errorMessage = "Nothing to download"
		case err != nil:
			m.errorMessage = err.Error()
		default:
			m.statusMessage = fmt.Sprintf("Started %d downloads", n)
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("s"))):
		m.onSelected("start", m.svc.StartItem)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("p"))):
		m.onSelected("pause", m.svc.TogglePause)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
		m.onSelected("cancel", m.svc.Cancel)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		m.onSelected("retry", m.svc.Retry)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("x", "delete"))):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.svc.Remove(item.ID); err != nil && !errors.Is(err, download.ErrItemNotFound) {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.items = append(m.items[:m.cursor], m.items[m.cursor+1:]...)
		m.reindex()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("C"))):
		m.svc.ClearAll()
		m.items = nil
		m.last = nil
		m.reindex()
		m.statusMessage = "Cleared"
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("tab"))):
		m.quality = nextQuality(m.quality)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("+", "="))):
		m.setConcurrency(m.maxConcurrent + 1)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("-"))):
		m.setConcurrency(m.maxConcurrent - 1)
		return m, nil
	}

	return m, nil
}

func (m *Model) onSelected(action string, fn func(id string) error) {
	item, ok := m.selected()
	if !ok {
		return
	}
	if err := fn(item.ID); err != nil {
		m.errorMessage = fmt.Sprintf("cannot %s: %v", action, err)
	}
}

func (m *Model) setConcurrency(n int) {
	n = download.ClampConcurrent(n)
	if err := m.svc.SetMaxConcurrent(n); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.maxConcurrent = n
}

func nextQuality(q model.Quality) model.Quality {
	all := model.Qualities()
	for i, known := range all {
		if known == q {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
