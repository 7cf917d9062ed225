package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/czteam/czdownloader/internal/model"
)

// Extractor defaults
const (
	DefaultAnalyzeTimeout   = 60 * time.Second
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultRetries          = 3
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
)

const errorLinePrefix = "ERROR:"

// YTDLPExtractor fetches metadata and downloads videos through yt-dlp
type YTDLPExtractor struct {
	analyzeTimeout   time.Duration
	progressInterval time.Duration
}

// NewYTDLPExtractor creates an extractor with default timeouts
func NewYTDLPExtractor() *YTDLPExtractor {
	return &YTDLPExtractor{
		analyzeTimeout:   DefaultAnalyzeTimeout,
		progressInterval: DefaultProgressInterval,
	}
}

// SetAnalyzeTimeout sets the timeout for metadata fetches
func (y *YTDLPExtractor) SetAnalyzeTimeout(timeout time.Duration) {
	y.analyzeTimeout = timeout
}

// Analyze fetches title, duration and uploader without downloading
func (y *YTDLPExtractor) Analyze(ctx context.Context, rawURL string) (*model.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, y.analyzeTimeout)
	defer cancel()

	cmd := ytdlp.New().
		SkipDownload().
		DumpJSON().
		NoPlaylist().
		NoWarnings()
	applyHeaders(cmd, HeadersFor(DetectPlatform(rawURL)))

	result, err := cmd.Run(ctx, rawURL)
	if err != nil {
		return nil, runError("analyze", result, err)
	}

	return parseMetadata(result.Stdout)
}

// Download transfers req.URL and reports progress through onProgress. Exactly
// one finished event is emitted, after the run succeeds.
func (y *YTDLPExtractor) Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.ProgressEvent)) error {
	retries := req.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	cmd := ytdlp.New().
		NoPlaylist().
		Format(req.Format).
		Output(req.OutputTemplate).
		Retries(strconv.Itoa(retries)).
		FragmentRetries(strconv.Itoa(retries))
	applyHeaders(cmd, req.Headers)

	var (
		mu        sync.Mutex
		finalName string
	)
	cmd.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
		mu.Lock()
		if update.Filename != "" {
			finalName = update.Filename
		}
		mu.Unlock()

		if ev, ok := convertProgress(update); ok && onProgress != nil {
			onProgress(ev)
		}
	})

	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return runError("download", result, err)
	}

	mu.Lock()
	name := finalName
	mu.Unlock()

	if name == "" && result != nil {
		info, err := result.GetExtractedInfo()
		if err == nil && len(info) > 0 && info[0].Filename != nil {
			name = *info[0].Filename
		}
	}
	if name == "" {
		log.Printf("yt-dlp finished without reporting a filename for %s", req.URL)
	}

	if onProgress != nil {
		onProgress(model.ProgressEvent{
			Status:   model.ProgressStatusFinished,
			Filename: name,
		})
	}
	return nil
}

// convertProgress maps a go-ytdlp update to a raw progress event. Finished,
// post-processing and error updates are not forwarded.
func convertProgress(update ytdlp.ProgressUpdate) (model.ProgressEvent, bool) {
	switch update.Status {
	case ytdlp.ProgressStatusStarting, ytdlp.ProgressStatusDownloading:
	default:
		return model.ProgressEvent{}, false
	}

	ev := model.ProgressEvent{
		Status:          model.ProgressStatusDownloading,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		Filename:        update.Filename,
		ETASec:          -1,
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started).Seconds()
		if elapsed > 0 {
			ev.Speed = float64(update.DownloadedBytes) / elapsed
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETASec = int(math.Round(eta.Seconds()))
	}

	return ev, true
}

// applyHeaders adds headers in a stable order
func applyHeaders(cmd *ytdlp.Command, headers map[string]string) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.AddHeaders(k + ":" + headers[k])
	}
}

// metadataJSON is the subset of yt-dlp's info JSON we read
type metadataJSON struct {
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	Uploader     string  `json:"uploader"`
	Channel      string  `json:"channel"`
	ExtractorKey string  `json:"extractor_key"`
	Thumbnail    string  `json:"thumbnail"`
}

// parseMetadata reads the first JSON object line from yt-dlp output
func parseMetadata(output string) (*model.Metadata, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var data metadataJSON
		if err := json.Unmarshal([]byte(line), &data); err != nil {
			continue
		}

		uploader := data.Uploader
		if uploader == "" {
			uploader = data.Channel
		}
		return &model.Metadata{
			Title:     data.Title,
			Duration:  int(math.Round(data.Duration)),
			Uploader:  uploader,
			Extractor: data.ExtractorKey,
			Thumbnail: data.Thumbnail,
		}, nil
	}
	return nil, fmt.Errorf("no metadata in yt-dlp output")
}

// runError builds an error whose text carries yt-dlp's own ERROR lines, which
// the classifier matches on
func runError(op string, result *ytdlp.Result, err error) error {
	var stderr string
	if result != nil {
		stderr = result.Stderr
	}

	lines := errorLines(stderr)
	if len(lines) == 0 {
		return fmt.Errorf("yt-dlp %s: %w", op, err)
	}
	return fmt.Errorf("yt-dlp %s: %s: %w", op, strings.Join(lines, "; "), err)
}

// errorLines extracts the ERROR: lines yt-dlp prints to stderr
func errorLines(stderr string) []string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, errorLinePrefix) {
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, errorLinePrefix)))
		}
	}
	return lines
}
