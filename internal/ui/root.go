package ui

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/czteam/czdownloader/internal/config"
	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	app      fyne.App
	svc      download.Downloader
	settings *config.Settings
	history  HistoryStore
	version  string

	urlEntry          *widget.Entry
	qualitySelect     *widget.Select
	concurrencySelect *widget.Select
	downloadAllBtn    *widget.Button
	clearAllBtn       *widget.Button
	statsLabel        *widget.Label
	list              *widget.List

	// items mirrors the service snapshots; only touched on the UI goroutine
	items []model.VideoItem
	index map[string]int
}

// NewRootUI creates and initializes the main UI. store may be nil when the
// history database could not be opened.
func NewRootUI(window fyne.Window, app fyne.App, svc download.Downloader, settings *config.Settings, store HistoryStore, version string) *RootUI {
	ui := &RootUI{
		window:   window,
		app:      app,
		svc:      svc,
		settings: settings,
		history:  store,
		version:  version,
		index:    make(map[string]int),
	}

	ui.svc.SetUpdateCallback(func(item model.VideoItem) {
		fyne.Do(func() { ui.applyUpdate(item) })
	})
	ui.svc.SetBatchCallback(func(report model.BatchReport) {
		fyne.Do(func() {
			ui.refreshStats()
			ui.showSummary(report)
		})
	})

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a YouTube, Facebook, TikTok, Instagram or X link")
	ui.urlEntry.OnSubmitted = func(string) { ui.onAdd() }

	addBtn := widget.NewButton("Add", ui.onAdd)
	addBtn.Importance = widget.HighImportance
	bulkBtn := widget.NewButton("Add many", ui.onBulkAdd)

	qualities := make([]string, 0, len(model.Qualities()))
	for _, q := range model.Qualities() {
		qualities = append(qualities, string(q))
	}
	ui.qualitySelect = widget.NewSelect(qualities, func(s string) {
		ui.settings.SetQuality(model.Quality(s))
	})
	ui.qualitySelect.SetSelected(string(ui.settings.GetQuality()))

	workers := make([]string, 0, download.MaxConcurrent)
	for n := download.MinConcurrent; n <= download.MaxConcurrent; n++ {
		workers = append(workers, strconv.Itoa(n))
	}
	ui.concurrencySelect = widget.NewSelect(workers, ui.onConcurrencyChanged)
	ui.concurrencySelect.SetSelected(strconv.Itoa(ui.settings.GetMaxConcurrentDownloads()))

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	urlRow := container.NewBorder(nil, nil, settingsBtn, container.NewHBox(addBtn, bulkBtn), ui.urlEntry)
	optionsRow := container.NewHBox(
		widget.NewLabel("Quality:"), ui.qualitySelect,
		widget.NewLabel("Simultaneous downloads:"), ui.concurrencySelect,
	)

	ui.downloadAllBtn = widget.NewButton(IconPlay+" Download all", ui.onDownloadAll)
	ui.downloadAllBtn.Importance = widget.HighImportance
	ui.clearAllBtn = widget.NewButton("Clear all", ui.onClearAll)
	ui.clearAllBtn.Importance = widget.DangerImportance
	folderBtn := widget.NewButton(IconFolder+" Folder", ui.onOpenDownloadFolder)

	ui.statsLabel = widget.NewLabel("")
	bottom := container.NewBorder(nil, nil, ui.statsLabel, container.NewHBox(folderBtn, ui.clearAllBtn, ui.downloadAllBtn))

	ui.list = widget.NewList(
		func() int { return len(ui.items) },
		func() fyne.CanvasObject { return NewItemRow(ui.rowActions()) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.items) {
				obj.(*ItemRow).SetItem(ui.items[id])
			}
		},
	)

	content := container.NewBorder(
		container.NewVBox(urlRow, optionsRow, widget.NewSeparator()),
		bottom,
		nil,
		nil,
		ui.list,
	)
	ui.window.SetContent(content)
	ui.refreshStats()

	if ui.settings.GetCheckUpdates() {
		ui.checkForUpdates(true)
	}
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Add multiple URLs...", ui.onBulkAdd),
		fyne.NewMenuItem("Open download folder", ui.onOpenDownloadFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", ui.onShowSettings),
	)
	view := fyne.NewMenu("View",
		fyne.NewMenuItem(IconTheme+" Toggle dark mode", ui.onToggleTheme),
		fyne.NewMenuItem("Download history", ui.showHistory),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("Check for updates", func() { ui.checkForUpdates(false) }),
		fyne.NewMenuItem("About", ui.showAbout),
	)

	ui.window.SetMainMenu(fyne.NewMainMenu(file, view, help))
}

func (ui *RootUI) rowActions() RowActions {
	return RowActions{
		OnStart:       ui.onStart,
		OnTogglePause: ui.onTogglePause,
		OnCancel:      ui.onCancel,
		OnRetry:       ui.onRetry,
		OnRemove:      ui.onRemove,
		OnDetails:     ui.showErrorDetails,
		OnOpenFolder:  ui.onOpenItemFolder,
	}
}

// applyUpdate stores a published snapshot and refreshes its row
func (ui *RootUI) applyUpdate(item model.VideoItem) {
	if i, ok := ui.index[item.ID]; ok {
		ui.items[i] = item
		ui.list.RefreshItem(i)
		ui.refreshStats()
		return
	}

	// late snapshots of removed items
	if _, ok := ui.svc.Item(item.ID); !ok {
		return
	}

	ui.index[item.ID] = len(ui.items)
	ui.items = append(ui.items, item)
	ui.list.Refresh()
	ui.refreshStats()
}

func (ui *RootUI) removeLocal(id string) {
	i, ok := ui.index[id]
	if !ok {
		return
	}
	ui.items = append(ui.items[:i], ui.items[i+1:]...)
	ui.reindex()
	ui.list.Refresh()
	ui.refreshStats()
}

func (ui *RootUI) reindex() {
	ui.index = make(map[string]int, len(ui.items))
	for i, item := range ui.items {
		ui.index[item.ID] = i
	}
}

// statsText summarizes the queue and the running batch
func statsText(items []model.VideoItem, summary model.BatchSummary) string {
	var active, completed, failed int
	for _, item := range items {
		switch {
		case item.Status.IsActive():
			active++
		case item.Status == model.StatusCompleted:
			completed++
		case item.Status == model.StatusError:
			failed++
		}
	}

	text := fmt.Sprintf("Total: %d%sActive: %d%sDone: %d%sErrors: %d",
		len(items), MiddleDotSeparator, active, MiddleDotSeparator, completed, MiddleDotSeparator, failed)
	if summary.Active() {
		text += fmt.Sprintf("%sBatch: %d/%d", MiddleDotSeparator, summary.Completed+summary.Failed, summary.Total)
	}
	return text
}

func (ui *RootUI) refreshStats() {
	ui.statsLabel.SetText(statsText(ui.items, ui.svc.Summary()))
}

// onAdd validates the entry and queues one URL
func (ui *RootUI) onAdd() {
	text := strings.TrimSpace(ui.urlEntry.Text)
	if text == "" {
		dialog.ShowInformation("Add video", "Please enter a video URL.", ui.window)
		return
	}

	id, err := ui.svc.Enqueue(text, ui.selectedQuality())
	if err != nil {
		log.Printf("Rejected URL %s: %v", platform.TruncateURL(text), err)
		ui.showEnqueueError(err)
		return
	}

	log.Printf("Queued item %s for %s", id, platform.TruncateURL(text))
	ui.urlEntry.SetText("")
}

func (ui *RootUI) showEnqueueError(err error) {
	var verr *download.ValidationError
	if errors.As(err, &verr) {
		msg := fmt.Sprintf("%s\n\nSupported sites: %s", verr.Reason, strings.Join(platform.SupportedPlatformNames(), ", "))
		dialog.ShowInformation("Invalid URL", msg, ui.window)
		return
	}
	dialog.ShowError(err, ui.window)
}

// onBulkAdd asks for one URL per line
func (ui *RootUI) onBulkAdd() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("One URL per line")
	entry.Wrapping = fyne.TextWrapOff

	d := dialog.NewCustomConfirm("Add multiple URLs", "Add", "Cancel", entry, func(ok bool) {
		if !ok {
			return
		}
		ids, rejected := ui.svc.EnqueueMany(entry.Text, ui.selectedQuality())
		msg := fmt.Sprintf("Added %d videos.", len(ids))
		if rejected > 0 {
			msg += fmt.Sprintf(" %d lines were skipped.", rejected)
		}
		dialog.ShowInformation("Add multiple URLs", msg, ui.window)
	}, ui.window)
	d.Resize(fyne.NewSize(BulkDialogWidth, BulkDialogHeight))
	d.Show()
}

func (ui *RootUI) selectedQuality() model.Quality {
	if q, err := model.ParseQuality(ui.qualitySelect.Selected); err == nil {
		return q
	}
	return config.DefaultQuality
}

func (ui *RootUI) selectedConcurrency() int {
	n, err := strconv.Atoi(ui.concurrencySelect.Selected)
	if err != nil {
		return config.DefaultMaxConcurrent
	}
	return n
}

func (ui *RootUI) onConcurrencyChanged(s string) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	ui.settings.SetMaxConcurrentDownloads(n)
	if err := ui.svc.SetMaxConcurrent(n); err != nil {
		log.Printf("Failed to set concurrency: %v", err)
	}
}

// onDownloadAll starts a batch over every pending item
func (ui *RootUI) onDownloadAll() {
	n, err := ui.svc.StartBatch(ui.selectedConcurrency())
	switch {
	case errors.Is(err, download.ErrNothingToDownload):
		dialog.ShowInformation("Download all", "There are no videos ready to download.", ui.window)
	case err != nil:
		dialog.ShowError(err, ui.window)
	default:
		log.Printf("Started batch of %d items", n)
		ui.refreshStats()
	}
}

func (ui *RootUI) onClearAll() {
	if len(ui.items) == 0 {
		return
	}
	dialog.ShowConfirm("Clear all", "Remove every video from the list?", func(ok bool) {
		if ok {
			ui.clearAll()
		}
	}, ui.window)
}

func (ui *RootUI) clearAll() {
	ui.svc.ClearAll()
	ui.items = nil
	ui.index = make(map[string]int)
	ui.list.Refresh()
	ui.refreshStats()
}

func (ui *RootUI) onStart(id string) {
	ui.report("start", id, ui.svc.StartItem(id))
}

func (ui *RootUI) onTogglePause(id string) {
	ui.report("pause", id, ui.svc.TogglePause(id))
}

func (ui *RootUI) onCancel(id string) {
	ui.report("cancel", id, ui.svc.Cancel(id))
}

func (ui *RootUI) onRetry(id string) {
	ui.report("retry", id, ui.svc.Retry(id))
}

func (ui *RootUI) onRemove(id string) {
	if err := ui.svc.Remove(id); err != nil && !errors.Is(err, download.ErrItemNotFound) {
		ui.report("remove", id, err)
		return
	}
	ui.removeLocal(id)
}

// report logs and shows a failed row action
func (ui *RootUI) report(action, id string, err error) {
	if err == nil {
		return
	}
	log.Printf("Cannot %s item %s: %v", action, id, err)
	dialog.ShowError(fmt.Errorf("cannot %s: %w", action, err), ui.window)
}

func (ui *RootUI) onOpenItemFolder(item model.VideoItem) {
	dir := ui.svc.DownloadDirectory()
	if item.Filename != "" {
		if path, err := platform.ResolveDownloadedFile(dir, item.Filename); err == nil {
			if err := platform.RevealFile(path); err == nil {
				return
			}
			log.Printf("Failed to reveal %s", path)
		}
	}
	ui.openFolder(dir)
}

func (ui *RootUI) onOpenDownloadFolder() {
	ui.openFolder(ui.svc.DownloadDirectory())
}

func (ui *RootUI) openFolder(dir string) {
	if err := platform.OpenFolder(dir); err != nil {
		log.Printf("Error opening folder %s: %v", dir, err)
		dialog.ShowError(fmt.Errorf("cannot open %s: %w", filepath.Clean(dir), err), ui.window)
	}
}

func (ui *RootUI) onToggleTheme() {
	t := ui.settings.ToggleTheme()
	ui.app.Settings().SetTheme(NewCompactTheme(t))
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.svc, func() {
		ui.app.Settings().SetTheme(NewCompactTheme(ui.settings.GetTheme()))
		ui.qualitySelect.SetSelected(string(ui.settings.GetQuality()))
		ui.concurrencySelect.SetSelected(strconv.Itoa(ui.settings.GetMaxConcurrentDownloads()))
	})
}
