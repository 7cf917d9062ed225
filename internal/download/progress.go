package download

import (
	"math"
	"path/filepath"
	"time"

	"github.com/czteam/czdownloader/internal/model"
)

// ProgressUpdate is a normalized progress event ready to be applied to an item
type ProgressUpdate struct {
	Status     model.ProgressStatus
	Mode       model.ProgressMode
	Percent    float64
	HasPercent bool
	Speed      float64
	ETASec     int
	Filename   string // basename, finished events only
	Err        string
}

// TranslateProgress converts a raw extractor event. A percentage is computed
// only when a positive total (exact or estimated) is known; otherwise the
// update is indeterminate.
func TranslateProgress(ev model.ProgressEvent) ProgressUpdate {
	u := ProgressUpdate{
		Status: ev.Status,
		Speed:  ev.Speed,
		ETASec: ev.ETASec,
		Err:    ev.Err,
	}

	switch ev.Status {
	case model.ProgressStatusFinished:
		u.Mode = model.ProgressDeterminate
		u.Percent = 100
		u.HasPercent = true
		if ev.Filename != "" {
			u.Filename = filepath.Base(ev.Filename)
		}
	case model.ProgressStatusError:
	default:
		u.Status = model.ProgressStatusDownloading
		u.Mode = model.ProgressIndeterminate

		total := ev.TotalBytes
		if total <= 0 {
			total = ev.TotalBytesEstimate
		}
		if total > 0 {
			pct := float64(ev.DownloadedBytes) / float64(total) * 100
			if !math.IsNaN(pct) && !math.IsInf(pct, 0) {
				u.Mode = model.ProgressDeterminate
				u.Percent = model.ClampPercent(pct)
				u.HasPercent = true
			}
		}
	}

	return u
}

// applyProgress merges a downloading update into item. Within one attempt the
// percentage never moves backwards.
func applyProgress(item *model.VideoItem, u ProgressUpdate) {
	item.ProgressMode = u.Mode
	if u.HasPercent && u.Percent > item.Progress {
		item.SetProgress(u.Percent)
	}

	if !math.IsNaN(u.Speed) && !math.IsInf(u.Speed, 0) && u.Speed >= 0 {
		item.Speed = u.Speed
	}

	if u.ETASec > 0 {
		item.ETASec = u.ETASec
	} else {
		item.ETASec = -1
	}
	item.UpdatedAt = time.Now()
}
