package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// Theme is the window color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir      = "download_directory"
	KeyMaxConcurrent    = "max_concurrent_downloads"
	KeyQuality          = "quality"
	KeyFilenameTemplate = "filename_template"
	KeyTheme            = "theme"
	KeyCheckUpdates     = "check_updates"
)

// Default values
const (
	DefaultMaxConcurrent    = download.DefaultMaxConcurrent
	DefaultQuality          = model.QualityBest
	DefaultFilenameTemplate = platform.DefaultFilenameTemplate
	DefaultTheme            = ThemeLight
	DefaultCheckUpdates     = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.DefaultDownloadDir()
		if err != nil {
			defaultDir = "/tmp/czDownloader"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxConcurrentDownloads returns the worker cap
func (s *Settings) GetMaxConcurrentDownloads() int {
	value := s.app.Preferences().Int(KeyMaxConcurrent)
	if value <= 0 {
		s.SetMaxConcurrentDownloads(DefaultMaxConcurrent)
		return DefaultMaxConcurrent
	}
	return download.ClampConcurrent(value)
}

// SetMaxConcurrentDownloads sets the worker cap, clamped to the allowed range
func (s *Settings) SetMaxConcurrentDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxConcurrent, download.ClampConcurrent(count))
}

// GetQuality returns the default quality for new items
func (s *Settings) GetQuality() model.Quality {
	q, err := model.ParseQuality(s.app.Preferences().String(KeyQuality))
	if err != nil {
		s.SetQuality(DefaultQuality)
		return DefaultQuality
	}
	return q
}

// SetQuality sets the default quality; unknown values are ignored
func (s *Settings) SetQuality(q model.Quality) {
	if !q.IsValid() {
		return
	}
	s.app.Preferences().SetString(KeyQuality, string(q))
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.app.Preferences().String(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(DefaultFilenameTemplate)
		return DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	template = strings.TrimSpace(template)
	if template == "" {
		template = DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetTheme returns the configured theme
func (s *Settings) GetTheme() Theme {
	return ParseTheme(s.app.Preferences().StringWithFallback(KeyTheme, string(DefaultTheme)))
}

// SetTheme sets the theme
func (s *Settings) SetTheme(t Theme) {
	s.app.Preferences().SetString(KeyTheme, string(ParseTheme(string(t))))
}

// ToggleTheme flips between light and dark and returns the new theme
func (s *Settings) ToggleTheme() Theme {
	next := ThemeDark
	if s.GetTheme() == ThemeDark {
		next = ThemeLight
	}
	s.SetTheme(next)
	return next
}

// GetCheckUpdates returns whether to check for updates at startup
func (s *Settings) GetCheckUpdates() bool {
	return s.app.Preferences().BoolWithFallback(KeyCheckUpdates, DefaultCheckUpdates)
}

// SetCheckUpdates sets whether to check for updates at startup
func (s *Settings) SetCheckUpdates(check bool) {
	s.app.Preferences().SetBool(KeyCheckUpdates, check)
}

// ParseTheme maps s to a theme, falling back to DefaultTheme
func ParseTheme(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	}
	return DefaultTheme
}
