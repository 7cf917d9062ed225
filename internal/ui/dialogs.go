package ui

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/history"
	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// HistoryStore is the subset of the history database the UI reads
type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	CountByStatus(ctx context.Context) (map[model.ItemStatus]int, error)
	Clear(ctx context.Context) error
}

// summaryText formats a finished batch for the summary dialog
func summaryText(report model.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n", report.Total)
	fmt.Fprintf(&b, "Completed: %d\n", report.Completed)
	fmt.Fprintf(&b, "Failed: %d\n", report.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", report.SuccessRate)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(report.Duration.Seconds()))

	if len(report.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for i, rec := range report.Errors {
			if i == MaxSummaryErrors {
				fmt.Fprintf(&b, "... and %d more\n", len(report.Errors)-MaxSummaryErrors)
				break
			}
			fmt.Fprintf(&b, "• %s\n  %s\n", rec.Title, rec.Message)
		}
	}
	return b.String()
}

func formatDuration(sec float64) string {
	total := int(sec + 0.5)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}

// showSummary shows the batch report
func (ui *RootUI) showSummary(report model.BatchReport) {
	title := "Downloads finished"
	if report.Failed > 0 {
		title = "Downloads finished with errors"
	}

	text := widget.NewLabel(summaryText(report))
	text.Wrapping = fyne.TextWrapWord

	content := container.NewVScroll(text)
	d := dialog.NewCustom(title, "Close", content, ui.window)
	d.Resize(fyne.NewSize(SummaryDialogWidth, SummaryDialogHeight))
	d.Show()

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   title,
		Content: fmt.Sprintf("%d of %d downloaded", report.Completed, report.Total),
	})
}

// errorDetailsText formats a failed item with troubleshooting hints
func errorDetailsText(item model.VideoItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", item.GetDisplayTitle())
	fmt.Fprintf(&b, "URL: %s\n", platform.TruncateURL(item.URL))
	fmt.Fprintf(&b, "Error: %s\n", item.ErrorMessage)

	suggestions := download.SuggestionsFor(download.ErrorKind(item.ErrorKind))
	if len(suggestions) > 0 {
		b.WriteString("\nWhat you can try:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "• %s\n", s)
		}
	}
	return b.String()
}

func (ui *RootUI) showErrorDetails(item model.VideoItem) {
	label := widget.NewLabel(errorDetailsText(item))
	label.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustomConfirm("Download error", "Retry", "Close", container.NewVScroll(label), func(retry bool) {
		if retry {
			ui.onRetry(item.ID)
		}
	}, ui.window)
	d.Resize(fyne.NewSize(SummaryDialogWidth, SummaryDialogHeight))
	d.Show()
}

// historyLine formats one history entry for the list
func historyLine(e history.Entry) string {
	status := IconDone
	if e.Status == model.StatusError {
		status = IconError
	}
	line := fmt.Sprintf("%s %s  %s%s%s", status, e.FinishedAt.Format("2006-01-02 15:04"), e.Title, MiddleDotSeparator, e.Platform)
	if e.ErrorMessage != "" {
		line += MiddleDotSeparator + e.ErrorMessage
	}
	return line
}

func (ui *RootUI) showHistory() {
	if ui.history == nil {
		dialog.ShowInformation("History", "Download history is not available.", ui.window)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), HistoryTimeout)
		defer cancel()

		entries, err := ui.history.Recent(ctx, HistoryLimit)
		if err != nil {
			log.Printf("Failed to load history: %v", err)
			fyne.Do(func() { dialog.ShowError(err, ui.window) })
			return
		}
		counts, err := ui.history.CountByStatus(ctx)
		if err != nil {
			log.Printf("Failed to count history: %v", err)
		}

		fyne.Do(func() { ui.renderHistory(entries, counts) })
	}()
}

func (ui *RootUI) renderHistory(entries []history.Entry, counts map[model.ItemStatus]int) {
	header := widget.NewLabel(fmt.Sprintf("Completed: %d%sFailed: %d",
		counts[model.StatusCompleted], MiddleDotSeparator, counts[model.StatusError]))

	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(historyLine(entries[id]))
		},
	)

	var d dialog.Dialog
	clearBtn := widget.NewButton("Clear history", func() {
		dialog.ShowConfirm("Clear history", "Delete all history entries?", func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), HistoryTimeout)
			defer cancel()
			if err := ui.history.Clear(ctx); err != nil {
				dialog.ShowError(err, ui.window)
				return
			}
			d.Hide()
		}, ui.window)
	})
	clearBtn.Importance = widget.DangerImportance

	content := container.NewBorder(header, clearBtn, nil, nil, list)
	d = dialog.NewCustom("Download history", "Close", content, ui.window)
	d.Resize(fyne.NewSize(HistoryDialogWidth, HistoryDialogHeight))
	d.Show()
}

// checkForUpdates runs the release check in the background. When quiet is
// set only an available update is shown.
func (ui *RootUI) checkForUpdates(quiet bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), platform.UpdateCheckTimeout)
		defer cancel()

		info := platform.CheckForUpdate(ctx, nil, platform.ReleaseEndpoint, ui.version)
		fyne.Do(func() { ui.showUpdateResult(info, quiet) })
	}()
}

func (ui *RootUI) showUpdateResult(info platform.UpdateInfo, quiet bool) {
	switch {
	case !info.Checked:
		if !quiet {
			dialog.ShowInformation("Updates", "Could not check for updates.", ui.window)
		}
	case info.Available:
		msg := fmt.Sprintf("Version %s is available (you have %s). Open the download page?", info.Latest, info.Current)
		dialog.ShowConfirm("Update available", msg, func(ok bool) {
			if !ok {
				return
			}
			if u, err := url.Parse(info.URL); err == nil {
				if err := fyne.CurrentApp().OpenURL(u); err != nil {
					log.Printf("Failed to open release page: %v", err)
				}
			}
		}, ui.window)
	default:
		if !quiet {
			dialog.ShowInformation("Updates", fmt.Sprintf("You are running the latest version (%s).", info.Current), ui.window)
		}
	}
}

func (ui *RootUI) showAbout() {
	msg := fmt.Sprintf("CZ Video Downloader %s\n\nSupported sites: %s\nDownloads are saved to:\n%s",
		ui.version,
		strings.Join(platform.SupportedPlatformNames(), ", "),
		ui.svc.DownloadDirectory(),
	)
	dialog.ShowInformation("About", msg, ui.window)
}
