package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/czteam/czdownloader/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.MaxConcurrentDownloads != DefaultMaxConcurrent {
		t.Errorf("expected %d workers, got %d", DefaultMaxConcurrent, cfg.MaxConcurrentDownloads)
	}
	if cfg.QualityValue() != DefaultQuality {
		t.Errorf("expected quality %s, got %s", DefaultQuality, cfg.Quality)
	}
	if cfg.FilenameTemplate != DefaultFilenameTemplate {
		t.Errorf("unexpected template %q", cfg.FilenameTemplate)
	}
	if cfg.Theme != string(DefaultTheme) || !cfg.ShouldCheckUpdates() {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.DownloadDirectory == "" {
		t.Error("download directory must default")
	}
}

func TestLoadFile_Values(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantWorkers int
		wantQuality model.Quality
		wantTheme   string
		wantCheck   bool
	}{
		{
			name:        "explicit",
			content:     "download_directory: /data/videos\nmax_concurrent_downloads: 4\nquality: 720p\ntheme: dark\ncheck_updates: false\n",
			wantWorkers: 4,
			wantQuality: model.Quality720p,
			wantTheme:   "dark",
			wantCheck:   false,
		},
		{
			name:        "clamped and normalized",
			content:     "max_concurrent_downloads: 12\nquality: 1080P\ntheme: purple\n",
			wantWorkers: 5,
			wantQuality: model.Quality1080p,
			wantTheme:   "light",
			wantCheck:   true,
		},
		{
			name:        "unknown quality",
			content:     "quality: 8k\n",
			wantWorkers: DefaultMaxConcurrent,
			wantQuality: model.QualityBest,
			wantTheme:   "light",
			wantCheck:   true,
		},
		{
			name:        "empty file",
			content:     "",
			wantWorkers: DefaultMaxConcurrent,
			wantQuality: model.QualityBest,
			wantTheme:   "light",
			wantCheck:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, tt.content))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if cfg.MaxConcurrentDownloads != tt.wantWorkers {
				t.Errorf("workers = %d, expected %d", cfg.MaxConcurrentDownloads, tt.wantWorkers)
			}
			if cfg.QualityValue() != tt.wantQuality {
				t.Errorf("quality = %s, expected %s", cfg.Quality, tt.wantQuality)
			}
			if cfg.Theme != tt.wantTheme {
				t.Errorf("theme = %s, expected %s", cfg.Theme, tt.wantTheme)
			}
			if cfg.ShouldCheckUpdates() != tt.wantCheck {
				t.Errorf("check_updates = %v, expected %v", cfg.ShouldCheckUpdates(), tt.wantCheck)
			}
		})
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	if _, err := LoadFile(writeConfig(t, "max_concurrent_downloads: [1, 2\n")); err == nil {
		t.Error("expected decode error")
	}
}
