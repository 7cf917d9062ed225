package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/czteam/czdownloader/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	if got := settings.GetDownloadDirectory(); got != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, got)
	}
}

func TestMaxConcurrentDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetMaxConcurrentDownloads(); got != DefaultMaxConcurrent {
		t.Errorf("Expected default max concurrent %d, got %d", DefaultMaxConcurrent, got)
	}

	tests := []struct {
		set  int
		want int
	}{
		{4, 4},
		{0, 1},
		{-3, 1},
		{15, 5},
	}

	for _, tt := range tests {
		settings.SetMaxConcurrentDownloads(tt.set)
		if got := settings.GetMaxConcurrentDownloads(); got != tt.want {
			t.Errorf("SetMaxConcurrentDownloads(%d): expected %d, got %d", tt.set, tt.want, got)
		}
	}
}

func TestMaxConcurrentDownloads_OutOfRangePreference(t *testing.T) {
	app := test.NewApp()
	app.Preferences().SetInt(KeyMaxConcurrent, 42)

	if got := NewSettings(app).GetMaxConcurrentDownloads(); got != 5 {
		t.Errorf("Expected stored value clamped to 5, got %d", got)
	}
}

func TestQuality(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetQuality(); got != DefaultQuality {
		t.Errorf("Expected default quality %s, got %s", DefaultQuality, got)
	}

	settings.SetQuality(model.Quality480p)
	if got := settings.GetQuality(); got != model.Quality480p {
		t.Errorf("Expected quality 480p, got %s", got)
	}

	settings.SetQuality(model.Quality("4k"))
	if got := settings.GetQuality(); got != model.Quality480p {
		t.Errorf("Invalid quality should be ignored, got %s", got)
	}
}

func TestFilenameTemplate(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetFilenameTemplate(); got != DefaultFilenameTemplate {
		t.Errorf("Expected default template %s, got %s", DefaultFilenameTemplate, got)
	}

	custom := "%(uploader)s - %(title)s.%(ext)s"
	settings.SetFilenameTemplate(custom)
	if got := settings.GetFilenameTemplate(); got != custom {
		t.Errorf("Expected template %s, got %s", custom, got)
	}

	settings.SetFilenameTemplate("   ")
	if got := settings.GetFilenameTemplate(); got != DefaultFilenameTemplate {
		t.Errorf("Blank template should reset to default, got %s", got)
	}
}

func TestTheme(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetTheme(); got != ThemeLight {
		t.Errorf("Expected light theme by default, got %s", got)
	}
	if got := settings.ToggleTheme(); got != ThemeDark {
		t.Errorf("Expected dark after toggle, got %s", got)
	}
	if got := settings.GetTheme(); got != ThemeDark {
		t.Errorf("Toggle should persist, got %s", got)
	}
	if got := settings.ToggleTheme(); got != ThemeLight {
		t.Errorf("Expected light after second toggle, got %s", got)
	}
}

func TestCheckUpdates(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetCheckUpdates() {
		t.Error("Update check should be on by default")
	}
	settings.SetCheckUpdates(false)
	if settings.GetCheckUpdates() {
		t.Error("Update check should be off after SetCheckUpdates(false)")
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
	}{
		{"dark", ThemeDark},
		{" DARK ", ThemeDark},
		{"light", ThemeLight},
		{"", ThemeLight},
		{"solarized", ThemeLight},
	}

	for _, tt := range tests {
		if got := ParseTheme(tt.in); got != tt.want {
			t.Errorf("ParseTheme(%q) = %s, expected %s", tt.in, got, tt.want)
		}
	}
}
