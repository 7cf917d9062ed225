package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"}).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "63"}).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Bold(true)
)

const maxReportErrors = 5

// View renders the queue
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("czDownloader") + "\n\n")
	b.WriteString(fmt.Sprintf("  Quality: %s  Simultaneous: %d\n\n", m.quality, m.maxConcurrent))

	if m.adding {
		b.WriteString("  Add URL: " + m.urlInput.View() + "\n\n")
	}

	if len(m.items) == 0 {
		b.WriteString("  Queue is empty. Press 'a' to add a video URL.\n")
	} else {
		for i := range m.items {
			b.WriteString(m.viewItem(i))
		}
	}

	if m.last != nil {
		b.WriteString("\n" + boxStyle.Render(reportText(*m.last)) + "\n")
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errorMessage) + "\n")
	} else if m.statusMessage != "" {
		b.WriteString("\n" + successStyle.Render(m.statusMessage) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.helpText()) + "\n")
	return b.String()
}

func (m Model) viewItem(i int) string {
	item := m.items[i]

	cursor := "  "
	title := item.GetDisplayTitle()
	if i == m.cursor {
		cursor = "▸ "
		title = selectedStyle.Render(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s", cursor, statusText(item.Status), title)
	if item.Platform != "" {
		fmt.Fprintf(&b, " (%s, %s)", item.Platform, item.Quality)
	}
	b.WriteString("\n    ")

	switch item.Status {
	case model.StatusAnalyzing:
		b.WriteString(m.spinner.View() + " Fetching video info...")
	case model.StatusDownloading:
		if item.ProgressMode == model.ProgressIndeterminate {
			b.WriteString(m.spinner.View() + " Downloading...")
		} else {
			b.WriteString(m.bar.ViewAs(item.Progress / 100))
		}
		fmt.Fprintf(&b, "  %s  ETA %s", item.GetSpeedString(), item.GetETAString())
	case model.StatusPaused:
		b.WriteString(m.bar.ViewAs(item.Progress / 100))
	case model.StatusCompleted:
		b.WriteString(successStyle.Render("Saved as " + item.Filename))
	case model.StatusError:
		b.WriteString(errorStyle.Render(item.ErrorMessage))
	case model.StatusCancelled:
		b.WriteString(warningStyle.Render("Cancelled"))
	default:
		b.WriteString(helpStyle.Render(platform.TruncateURL(item.URL)))
	}
	b.WriteString("\n")
	return b.String()
}

func statusText(s model.ItemStatus) string {
	label := fmt.Sprintf("[%s]", s)
	switch s {
	case model.StatusCompleted:
		return successStyle.Render(label)
	case model.StatusError:
		return errorStyle.Render(label)
	case model.StatusCancelled, model.StatusPaused:
		return warningStyle.Render(label)
	default:
		return label
	}
}

// reportText formats a finalized batch
func reportText(r model.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch finished in %s\n", r.Duration.Round(time.Second))
	fmt.Fprintf(&b, "Completed: %d/%d  Failed: %d  Success rate: %.1f%%", r.Completed, r.Total, r.Failed, r.SuccessRate)
	for i, rec := range r.Errors {
		if i == maxReportErrors {
			fmt.Fprintf(&b, "\n... and %d more", len(r.Errors)-maxReportErrors)
			break
		}
		fmt.Fprintf(&b, "\n- %s: %s", rec.Title, rec.Message)
	}
	return b.String()
}

func (m Model) helpText() string {
	if m.adding {
		return "enter: add • esc: cancel"
	}
	return "a: add • d: download all • s: start • p: pause • c: cancel • r: retry • x: remove • C: clear • tab: quality • +/-: workers • q: quit"
}
