package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// ConfigFileName is looked up in the user config directory
const ConfigFileName = "config.yaml"

// FileConfig is the terminal frontend configuration. Keys match the desktop
// preferences.
type FileConfig struct {
	DownloadDirectory      string `yaml:"download_directory"`
	MaxConcurrentDownloads int    `yaml:"max_concurrent_downloads"`
	Quality                string `yaml:"quality"`
	FilenameTemplate       string `yaml:"filename_template"`
	Theme                  string `yaml:"theme"`
	CheckUpdates           *bool  `yaml:"check_updates"`
	HistoryPath            string `yaml:"history_path"`
}

// DefaultConfigPath returns config.yaml inside the user config directory
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "czDownloader", ConfigFileName), nil
}

// LoadFile reads a YAML config. A missing file yields the defaults.
func LoadFile(path string) (*FileConfig, error) {
	var cfg FileConfig

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FileConfig) applyDefaults() error {
	if c.DownloadDirectory == "" {
		dir, err := platform.DefaultDownloadDir()
		if err != nil {
			return fmt.Errorf("default download directory: %w", err)
		}
		c.DownloadDirectory = dir
	}

	if c.MaxConcurrentDownloads <= 0 {
		c.MaxConcurrentDownloads = DefaultMaxConcurrent
	}
	c.MaxConcurrentDownloads = download.ClampConcurrent(c.MaxConcurrentDownloads)

	if q, err := model.ParseQuality(c.Quality); err == nil {
		c.Quality = string(q)
	} else {
		c.Quality = string(DefaultQuality)
	}

	if c.FilenameTemplate == "" {
		c.FilenameTemplate = DefaultFilenameTemplate
	}

	c.Theme = string(ParseTheme(c.Theme))

	if c.CheckUpdates == nil {
		check := DefaultCheckUpdates
		c.CheckUpdates = &check
	}
	return nil
}

// QualityValue returns the configured quality
func (c *FileConfig) QualityValue() model.Quality {
	return model.Quality(c.Quality)
}

// ShouldCheckUpdates reports the check_updates flag
func (c *FileConfig) ShouldCheckUpdates() bool {
	return c.CheckUpdates == nil || *c.CheckUpdates
}
