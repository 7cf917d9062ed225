package download

import (
	"context"

	"github.com/czteam/czdownloader/internal/model"
)

// Extractor is the boundary to the video extraction library
type Extractor interface {
	// Analyze fetches metadata without downloading
	Analyze(ctx context.Context, url string) (*model.Metadata, error)

	// Download performs the transfer, calling onProgress zero or more times
	Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.ProgressEvent)) error
}

// Recorder persists terminal outcomes
type Recorder interface {
	RecordOutcome(ctx context.Context, item model.VideoItem) error
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.VideoItem))
	SetBatchCallback(func(model.BatchReport))

	Enqueue(url string, quality model.Quality) (string, error)
	EnqueueMany(text string, quality model.Quality) ([]string, int)
	StartBatch(maxConcurrent int) (int, error)
	StartItem(id string) error
	Cancel(id string) error
	Retry(id string) error
	TogglePause(id string) error
	Remove(id string) error
	ClearAll()

	Item(id string) (model.VideoItem, bool)
	Items() []model.VideoItem
	ActiveCount() int
	Summary() model.BatchSummary

	// MaxConcurrent returns the worker cap used by the next batch
	MaxConcurrent() int
	SetMaxConcurrent(n int) error

	// SetDownloadDirectory sets the download directory
	SetDownloadDirectory(dir string)
	DownloadDirectory() string

	// SetFilenameTemplate sets the yt-dlp output template used for new downloads
	SetFilenameTemplate(template string)
}
