package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/czteam/czdownloader/internal/config"
	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/history"
	"github.com/czteam/czdownloader/internal/platform"
	"github.com/czteam/czdownloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.czteam.czdownloader"
	AppName = "CZ Video Downloader"

	WindowWidth  = 900
	WindowHeight = 640
)

func main() {
	log.Printf("%s v%s starting...", AppName, version)

	myApp := app.NewWithID(AppID)
	settings := config.NewSettings(myApp)
	myApp.Settings().SetTheme(ui.NewCompactTheme(settings.GetTheme()))

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Printf("failed to ensure downloads dir: %v", err)
	}

	// History is optional; the app works without it
	var store ui.HistoryStore
	var recorder *history.Store
	if path, err := history.DefaultPath(); err != nil {
		log.Printf("history disabled: %v", err)
	} else if recorder, err = history.Open(path); err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		store = recorder
		defer recorder.Close()
	}

	downloadSvc := download.NewService(platform.NewYTDLPExtractor(), downloadsDir, settings.GetMaxConcurrentDownloads())
	downloadSvc.SetFilenameTemplate(settings.GetFilenameTemplate())
	if recorder != nil {
		downloadSvc.SetRecorder(recorder)
	}
	defer downloadSvc.Shutdown()

	ui.NewRootUI(myWindow, myApp, downloadSvc, settings, store, version)

	myWindow.ShowAndRun()
}
