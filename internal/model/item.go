package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Quality is a user-facing quality token that maps to a format selector
type Quality string

const (
	QualityBest  Quality = "best"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityWorst Quality = "worst"
)

var qualities = []Quality{QualityBest, Quality1080p, Quality720p, Quality480p, Quality360p, QualityWorst}

// Qualities returns every supported quality token in display order
func Qualities() []Quality {
	out := make([]Quality, len(qualities))
	copy(out, qualities)
	return out
}

// IsValid reports whether q is one of the supported tokens
func (q Quality) IsValid() bool {
	for _, known := range qualities {
		if q == known {
			return true
		}
	}
	return false
}

// ParseQuality converts a string into a Quality
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if !q.IsValid() {
		return "", fmt.Errorf("unknown quality: %q", s)
	}
	return q, nil
}

// ProgressMode tells the UI whether a percentage can be shown
type ProgressMode string

const (
	ProgressDeterminate   ProgressMode = "determinate"
	ProgressIndeterminate ProgressMode = "indeterminate"
)

// Display defaults
const (
	PlaceholderTitle = "Loading..."
	UnknownTitle     = "Unknown"
	MaxTitleLength   = 80
	UnknownErrorText = "Unknown error"
)

// VideoItem represents one entry in the download queue
type VideoItem struct {
	ID           string
	URL          string
	Quality      Quality
	Platform     string
	Status       ItemStatus
	Title        string
	Duration     int // seconds
	Uploader     string
	Analyzed     bool    // metadata fetched at least once
	Progress     float64 // 0 to 100
	Speed        float64 // bytes per second
	ETASec       int     // -1 if unknown
	ProgressMode ProgressMode
	ErrorMessage string
	ErrorKind    string
	Filename     string
	Attempt      int // bumped on every analysis or download run
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVideoItem creates a pending item with placeholder metadata
func NewVideoItem(id, url string, quality Quality, platform string) *VideoItem {
	now := time.Now()
	return &VideoItem{
		ID:           id,
		URL:          url,
		Quality:      quality,
		Platform:     platform,
		Status:       StatusPending,
		Title:        PlaceholderTitle,
		ETASec:       -1,
		ProgressMode: ProgressDeterminate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Transition moves the item to next. Entering error without a message
// records UnknownErrorText; leaving error clears the message.
func (v *VideoItem) Transition(next ItemStatus) error {
	if err := checkTransition(v.Status, next); err != nil {
		return err
	}
	if next == StatusError {
		if v.ErrorMessage == "" {
			v.ErrorMessage = UnknownErrorText
		}
	} else {
		v.ErrorMessage = ""
		v.ErrorKind = ""
	}
	v.Status = next
	v.UpdatedAt = time.Now()
	return nil
}

// Fail moves the item to error with the given message and category
func (v *VideoItem) Fail(kind, message string) error {
	if err := checkTransition(v.Status, StatusError); err != nil {
		return err
	}
	if message == "" {
		message = UnknownErrorText
	}
	v.ErrorMessage = message
	v.ErrorKind = kind
	return v.Transition(StatusError)
}

// SetProgress stores p clamped to [0,100]; NaN is ignored
func (v *VideoItem) SetProgress(p float64) {
	if math.IsNaN(p) {
		return
	}
	v.Progress = ClampPercent(p)
	v.UpdatedAt = time.Now()
}

// ResetProgress clears all per-attempt transfer state
func (v *VideoItem) ResetProgress() {
	v.Progress = 0
	v.Speed = 0
	v.ETASec = -1
	v.ProgressMode = ProgressDeterminate
	v.Filename = ""
	v.UpdatedAt = time.Now()
}

// ApplyMetadata copies analysis results onto the item
func (v *VideoItem) ApplyMetadata(m Metadata) {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = UnknownTitle
	}
	v.Title = truncateRunes(title, MaxTitleLength)
	v.Duration = m.Duration
	v.Uploader = m.Uploader
	v.Analyzed = true
	v.UpdatedAt = time.Now()
}

// ClampPercent limits p to [0,100]
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (v *VideoItem) GetETAString() string {
	if v.ETASec <= 0 {
		return "—"
	}
	return formatClock(v.ETASec)
}

// GetDurationString returns the video duration as mm:ss or hh:mm:ss
func (v *VideoItem) GetDurationString() string {
	if v.Duration <= 0 {
		return "—"
	}
	return formatClock(v.Duration)
}

func formatClock(total int) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetSpeedString returns a human readable transfer speed
func (v *VideoItem) GetSpeedString() string {
	switch {
	case v.Speed <= 0:
		return "—"
	case v.Speed >= 1024*1024:
		return fmt.Sprintf("%.1f MB/s", v.Speed/1024/1024)
	default:
		return fmt.Sprintf("%.1f KB/s", v.Speed/1024)
	}
}

// GetProgressString returns the percentage, or an activity label when the
// total size is unknown
func (v *VideoItem) GetProgressString() string {
	if v.ProgressMode == ProgressIndeterminate && v.Status != StatusCompleted {
		return "…"
	}
	return fmt.Sprintf("%d%%", int(v.Progress))
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (v *VideoItem) GetDisplayTitle() string {
	if v.Title != "" && v.Title != PlaceholderTitle && !strings.HasPrefix(v.Title, "http") {
		return v.Title
	}

	if v.Filename != "" {
		filename := v.Filename
		if idx := strings.LastIndex(filename, "."); idx > 0 {
			filename = filename[:idx]
		}
		return filename
	}

	if v.URL == "" {
		return v.Title
	}
	return v.URL
}
