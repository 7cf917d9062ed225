package ui

import (
	"log"
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

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	svc      download.Downloader
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	downloadDirEntry  *widget.Entry
	concurrencySelect *widget.Select
	qualitySelect     *widget.Select
	filenameEntry     *widget.Entry
	themeSelect       *widget.Select
	updatesCheck      *widget.Check
}

// ShowSettingsDialog opens the settings dialog. onSaved runs after the new
// values were stored and pushed to the service.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, svc download.Downloader, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, svc, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, svc download.Downloader, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		svc:      svc,
		window:   window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	workers := make([]string, 0, download.MaxConcurrent)
	for n := download.MinConcurrent; n <= download.MaxConcurrent; n++ {
		workers = append(workers, strconv.Itoa(n))
	}
	sd.concurrencySelect = widget.NewSelect(workers, nil)

	qualities := make([]string, 0, len(model.Qualities()))
	for _, q := range model.Qualities() {
		qualities = append(qualities, string(q))
	}
	sd.qualitySelect = widget.NewSelect(qualities, nil)

	sd.filenameEntry = widget.NewEntry()
	sd.filenameEntry.SetPlaceHolder(config.DefaultFilenameTemplate)

	sd.themeSelect = widget.NewSelect([]string{string(config.ThemeLight), string(config.ThemeDark)}, nil)
	sd.updatesCheck = widget.NewCheck("Check for updates at startup", nil)

	form := container.NewVBox(
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Download Directory:"),
		downloadDirRow,

		widget.NewLabel("Simultaneous Downloads:"),
		sd.concurrencySelect,

		widget.NewLabel("Default Quality:"),
		sd.qualitySelect,

		widget.NewLabel("Filename Template:"),
		sd.filenameEntry,

		widget.NewSeparator(),
		widget.NewLabel("Interface Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Theme:"),
		sd.themeSelect,
		sd.updatesCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.concurrencySelect.SetSelected(strconv.Itoa(sd.settings.GetMaxConcurrentDownloads()))
	sd.qualitySelect.SetSelected(string(sd.settings.GetQuality()))
	sd.filenameEntry.SetText(sd.settings.GetFilenameTemplate())
	sd.themeSelect.SetSelected(string(sd.settings.GetTheme()))
	sd.updatesCheck.SetChecked(sd.settings.GetCheckUpdates())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	if err := sd.apply(); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply stores the form values and pushes them to the service
func (sd *SettingsDialog) apply() error {
	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return err
		}
		sd.settings.SetDownloadDirectory(dir)
		sd.svc.SetDownloadDirectory(dir)
	}

	if n, err := strconv.Atoi(sd.concurrencySelect.Selected); err == nil {
		sd.settings.SetMaxConcurrentDownloads(n)
		if err := sd.svc.SetMaxConcurrent(sd.settings.GetMaxConcurrentDownloads()); err != nil {
			log.Printf("Failed to set concurrency: %v", err)
		}
	}

	if q, err := model.ParseQuality(sd.qualitySelect.Selected); err == nil {
		sd.settings.SetQuality(q)
	}

	sd.settings.SetFilenameTemplate(strings.TrimSpace(sd.filenameEntry.Text))
	sd.svc.SetFilenameTemplate(sd.settings.GetFilenameTemplate())

	if sd.themeSelect.Selected != "" {
		sd.settings.SetTheme(config.ParseTheme(sd.themeSelect.Selected))
	}
	sd.settings.SetCheckUpdates(sd.updatesCheck.Checked)
	return nil
}
