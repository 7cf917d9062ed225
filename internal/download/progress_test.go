package download

import (
	"math"
	"testing"

	"github.com/czteam/czdownloader/internal/model"
)

func TestTranslateProgress(t *testing.T) {
	tests := []struct {
		name        string
		ev          model.ProgressEvent
		wantMode    model.ProgressMode
		wantPercent float64
		wantHas     bool
	}{
		{
			name:        "exact total",
			ev:          model.ProgressEvent{Status: model.ProgressStatusDownloading, DownloadedBytes: 25, TotalBytes: 100},
			wantMode:    model.ProgressDeterminate,
			wantPercent: 25,
			wantHas:     true,
		},
		{
			name:        "estimated total",
			ev:          model.ProgressEvent{Status: model.ProgressStatusDownloading, DownloadedBytes: 50, TotalBytesEstimate: 200},
			wantMode:    model.ProgressDeterminate,
			wantPercent: 25,
			wantHas:     true,
		},
		{
			name:     "no total",
			ev:       model.ProgressEvent{Status: model.ProgressStatusDownloading, DownloadedBytes: 5000},
			wantMode: model.ProgressIndeterminate,
		},
		{
			name:        "overshoot clamps",
			ev:          model.ProgressEvent{Status: model.ProgressStatusDownloading, DownloadedBytes: 150, TotalBytes: 100},
			wantMode:    model.ProgressDeterminate,
			wantPercent: 100,
			wantHas:     true,
		},
		{
			name:        "finished",
			ev:          model.ProgressEvent{Status: model.ProgressStatusFinished, Filename: "/downloads/My Video.mp4"},
			wantMode:    model.ProgressDeterminate,
			wantPercent: 100,
			wantHas:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := TranslateProgress(tt.ev)
			if u.Mode != tt.wantMode {
				t.Errorf("mode = %s, expected %s", u.Mode, tt.wantMode)
			}
			if u.HasPercent != tt.wantHas || u.Percent != tt.wantPercent {
				t.Errorf("percent = %v (%v), expected %v (%v)", u.Percent, u.HasPercent, tt.wantPercent, tt.wantHas)
			}
		})
	}
}

func TestTranslateProgress_FinishedBasename(t *testing.T) {
	u := TranslateProgress(model.ProgressEvent{Status: model.ProgressStatusFinished, Filename: "/downloads/My Video.mp4"})
	if u.Filename != "My Video.mp4" {
		t.Errorf("expected basename, got %q", u.Filename)
	}
}

func TestTranslateProgress_ErrorPassthrough(t *testing.T) {
	u := TranslateProgress(model.ProgressEvent{Status: model.ProgressStatusError, Err: "boom"})
	if u.Status != model.ProgressStatusError || u.Err != "boom" {
		t.Errorf("unexpected update %+v", u)
	}
}

func TestApplyProgress(t *testing.T) {
	item := model.NewVideoItem("1", "https://youtu.be/a", model.QualityBest, "YouTube")

	applyProgress(item, ProgressUpdate{Mode: model.ProgressDeterminate, Percent: 60, HasPercent: true, Speed: 2048, ETASec: 12})
	if item.Progress != 60 || item.Speed != 2048 || item.ETASec != 12 {
		t.Fatalf("unexpected item after first update: %+v", item)
	}

	applyProgress(item, ProgressUpdate{Mode: model.ProgressDeterminate, Percent: 40, HasPercent: true, Speed: math.NaN(), ETASec: 0})
	if item.Progress != 60 {
		t.Errorf("progress must not decrease, got %v", item.Progress)
	}
	if item.Speed != 2048 {
		t.Errorf("NaN speed must be ignored, got %v", item.Speed)
	}
	if item.ETASec != -1 {
		t.Errorf("zero ETA must be unknown, got %d", item.ETASec)
	}

	applyProgress(item, ProgressUpdate{Mode: model.ProgressIndeterminate, Speed: -5})
	if item.ProgressMode != model.ProgressIndeterminate {
		t.Errorf("expected indeterminate mode, got %s", item.ProgressMode)
	}
	if item.Speed != 2048 {
		t.Errorf("negative speed must be ignored, got %v", item.Speed)
	}
}
