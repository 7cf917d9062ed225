package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/czteam/czdownloader/internal/config"
	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/history"
	"github.com/czteam/czdownloader/internal/platform"
	"github.com/czteam/czdownloader/internal/tui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const logFileName = "czdl-tui.log"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: user config directory)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("czdl-tui v%s\n", version)
		return
	}

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, urls []string) error {
	// The terminal belongs to the program, so logs go to a file
	logFile, err := tea.LogToFile(logFileName, "czdl")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	if configPath == "" {
		if configPath, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	log.Printf("czdl-tui v%s using %s", version, configPath)

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDirectory); err != nil {
		return fmt.Errorf("failed to ensure downloads dir: %w", err)
	}

	store, err := openHistory(cfg.HistoryPath)
	if err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		defer store.Close()
	}

	svc := download.NewService(platform.NewYTDLPExtractor(), cfg.DownloadDirectory, cfg.MaxConcurrentDownloads)
	defer svc.Shutdown()
	svc.SetFilenameTemplate(cfg.FilenameTemplate)
	if store != nil {
		svc.SetRecorder(store)
	}

	if cfg.ShouldCheckUpdates() {
		go logUpdate()
	}

	p := tea.NewProgram(tui.NewModel(svc, cfg.QualityValue()), tea.WithAltScreen())
	tui.Subscribe(svc, p.Send)

	for _, u := range urls {
		if _, err := svc.Enqueue(u, cfg.QualityValue()); err != nil {
			log.Printf("Skipping %s: %v", platform.TruncateURL(u), err)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}

func openHistory(path string) (*history.Store, error) {
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}

func logUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), platform.UpdateCheckTimeout)
	defer cancel()

	info := platform.CheckForUpdate(ctx, nil, platform.ReleaseEndpoint, version)
	if info.Available {
		log.Printf("Update available: %s (current %s) %s", info.Latest, info.Current, info.URL)
	}
}
