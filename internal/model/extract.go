package model

// Metadata is the result of a metadata-only extraction
type Metadata struct {
	Title     string
	Duration  int // seconds
	Uploader  string
	Extractor string
	Thumbnail string
}

// ProgressStatus tags a raw progress event from the extraction library
type ProgressStatus string

const (
	ProgressStatusDownloading ProgressStatus = "downloading"
	ProgressStatusFinished    ProgressStatus = "finished"
	ProgressStatusError       ProgressStatus = "error"
)

// ProgressEvent is a raw progress callback from the extraction library.
// Zero values mean the field was absent.
type ProgressEvent struct {
	Status             ProgressStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	Speed              float64 // bytes per second
	ETASec             int
	Filename           string
	Err                string
}

// DownloadRequest carries everything the extractor needs for one transfer
type DownloadRequest struct {
	URL            string
	Quality        Quality
	Format         string
	OutputTemplate string
	Headers        map[string]string
	Retries        int
}
