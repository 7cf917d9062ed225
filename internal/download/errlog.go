package download

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/czteam/czdownloader/internal/model"
)

// ErrorLogFileName is created inside the download directory
const ErrorLogFileName = "download_errors.log"

const logSeparator = "----------------------------------------"

// ErrorLog appends timestamped text blocks for failed downloads and batch
// summaries
type ErrorLog struct {
	mu  sync.Mutex
	dir string
}

// NewErrorLog creates an error log writing into dir
func NewErrorLog(dir string) *ErrorLog {
	return &ErrorLog{dir: dir}
}

// SetDirectory moves future writes to dir
func (l *ErrorLog) SetDirectory(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dir = dir
}

// Path returns the current log file path
func (l *ErrorLog) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return filepath.Join(l.dir, ErrorLogFileName)
}

// LogFailure records one failed item with the raw library error
func (l *ErrorLog) LogFailure(item model.VideoItem, raw string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Download failed\n")
	fmt.Fprintf(&b, "Title: %s\n", item.GetDisplayTitle())
	fmt.Fprintf(&b, "URL: %s\n", item.URL)
	fmt.Fprintf(&b, "Quality: %s\n", item.Quality)
	fmt.Fprintf(&b, "Category: %s\n", item.ErrorKind)
	fmt.Fprintf(&b, "Message: %s\n", item.ErrorMessage)
	if raw != "" && raw != item.ErrorMessage {
		fmt.Fprintf(&b, "Detail: %s\n", raw)
	}
	return l.write(b.String())
}

// LogBatch records a finalized batch summary
func (l *ErrorLog) LogBatch(report model.BatchReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch finished\n")
	fmt.Fprintf(&b, "Total: %d, completed: %d, failed: %d\n", report.Total, report.Completed, report.Failed)
	fmt.Fprintf(&b, "Success rate: %.1f%%\n", report.SuccessRate)
	fmt.Fprintf(&b, "Duration: %s\n", report.Duration.Round(time.Second))
	for _, rec := range report.Errors {
		fmt.Fprintf(&b, "  - %s (%s): %s\n", rec.Title, rec.URL, rec.Message)
	}
	return l.write(b.String())
}

func (l *ErrorLog) write(block string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dir == "" {
		return fmt.Errorf("error log directory not set")
	}

	f, err := os.OpenFile(filepath.Join(l.dir, ErrorLogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	logger := log.New(f, "", log.Ldate|log.Ltime)
	logger.Printf("%s\n%s", block, logSeparator)
	return nil
}
