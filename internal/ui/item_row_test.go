package ui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/czteam/czdownloader/internal/model"
)

func itemWith(status model.ItemStatus, mutate func(*model.VideoItem)) model.VideoItem {
	item := model.NewVideoItem("id-1", "https://youtu.be/abc", model.Quality720p, "YouTube")
	item.Status = status
	item.Title = "Sample video"
	if mutate != nil {
		mutate(item)
	}
	return *item
}

func TestViewFor(t *testing.T) {
	tests := []struct {
		name  string
		item  model.VideoItem
		check func(t *testing.T, v rowView)
	}{
		{
			name: "pending",
			item: itemWith(model.StatusPending, nil),
			check: func(t *testing.T, v rowView) {
				if !v.showStart || !v.showCancel || v.showRetry || v.showPause {
					t.Errorf("unexpected buttons %+v", v)
				}
				if !strings.Contains(v.status, "Ready") {
					t.Errorf("unexpected status %q", v.status)
				}
			},
		},
		{
			name: "analyzing",
			item: itemWith(model.StatusAnalyzing, nil),
			check: func(t *testing.T, v rowView) {
				if !v.indeterminate || v.percent != "" {
					t.Errorf("analysis should be indeterminate without percent, got %+v", v)
				}
			},
		},
		{
			name: "downloading determinate",
			item: itemWith(model.StatusDownloading, func(i *model.VideoItem) {
				i.Progress = 40
				i.ProgressMode = model.ProgressDeterminate
			}),
			check: func(t *testing.T, v rowView) {
				if v.indeterminate || v.progress != 0.4 {
					t.Errorf("expected determinate 0.4, got %v %v", v.indeterminate, v.progress)
				}
				if !v.showPause || v.pauseText != "Pause" || !v.showCancel {
					t.Errorf("unexpected buttons %+v", v)
				}
				if !strings.Contains(v.detail, "ETA") {
					t.Errorf("detail should show ETA, got %q", v.detail)
				}
			},
		},
		{
			name: "downloading indeterminate",
			item: itemWith(model.StatusDownloading, func(i *model.VideoItem) {
				i.ProgressMode = model.ProgressIndeterminate
			}),
			check: func(t *testing.T, v rowView) {
				if !v.indeterminate {
					t.Error("expected indeterminate bar")
				}
			},
		},
		{
			name: "paused",
			item: itemWith(model.StatusPaused, nil),
			check: func(t *testing.T, v rowView) {
				if v.pauseText != "Resume" || !v.showRetry {
					t.Errorf("unexpected buttons %+v", v)
				}
			},
		},
		{
			name: "completed",
			item: itemWith(model.StatusCompleted, func(i *model.VideoItem) {
				i.Filename = "Sample video.mp4"
			}),
			check: func(t *testing.T, v rowView) {
				if v.progress != 1 || !v.showOpen || v.showCancel {
					t.Errorf("unexpected view %+v", v)
				}
				if v.detail != "Sample video.mp4" || v.importance != widget.SuccessImportance {
					t.Errorf("unexpected detail %q importance %v", v.detail, v.importance)
				}
			},
		},
		{
			name: "error",
			item: itemWith(model.StatusError, func(i *model.VideoItem) {
				i.ErrorMessage = "Access denied"
			}),
			check: func(t *testing.T, v rowView) {
				if !v.showRetry || !v.showDetails || v.showStart {
					t.Errorf("unexpected buttons %+v", v)
				}
				if v.detail != "Access denied" || v.importance != widget.DangerImportance {
					t.Errorf("unexpected detail %q importance %v", v.detail, v.importance)
				}
			},
		},
		{
			name: "cancelled",
			item: itemWith(model.StatusCancelled, nil),
			check: func(t *testing.T, v rowView) {
				if !v.showRetry || v.showCancel {
					t.Errorf("unexpected buttons %+v", v)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, viewFor(tt.item))
		})
	}
}

func TestMetaLine(t *testing.T) {
	item := itemWith(model.StatusPending, func(i *model.VideoItem) {
		i.Duration = 125
		i.Uploader = "Some\nChannel"
	})

	meta := metaLine(item)
	for _, want := range []string{"YouTube", "720p", "Some Channel"} {
		if !strings.Contains(meta, want) {
			t.Errorf("meta %q is missing %q", meta, want)
		}
	}
}

func TestItemRow_SetItem(t *testing.T) {
	test.NewApp()

	var retried string
	var details model.VideoItem
	row := NewItemRow(RowActions{
		OnRetry:   func(id string) { retried = id },
		OnDetails: func(item model.VideoItem) { details = item },
	})

	failed := itemWith(model.StatusError, func(i *model.VideoItem) {
		i.ErrorMessage = "Video not found"
	})
	row.SetItem(failed)

	if !row.retryBtn.Visible() || !row.detailsBtn.Visible() {
		t.Error("retry and details should be visible for failed items")
	}
	if row.startBtn.Visible() || row.pauseBtn.Visible() {
		t.Error("start and pause should be hidden for failed items")
	}
	if row.Item().ID != failed.ID {
		t.Errorf("Item() returned %s", row.Item().ID)
	}

	test.Tap(row.retryBtn)
	if retried != failed.ID {
		t.Errorf("retry handler got %q", retried)
	}
	test.Tap(row.detailsBtn)
	if details.ErrorMessage != "Video not found" {
		t.Errorf("details handler got %+v", details)
	}

	row.SetItem(itemWith(model.StatusAnalyzing, nil))
	if !row.infiniteBar.Visible() || row.bar.Visible() {
		t.Error("analysis should show the infinite bar")
	}

	row.SetItem(itemWith(model.StatusCompleted, nil))
	if row.infiniteBar.Visible() || !row.bar.Visible() {
		t.Error("completed items should show the regular bar")
	}
	if row.bar.Value != 1 {
		t.Errorf("expected full bar, got %v", row.bar.Value)
	}
}

func TestItemRow_MinSize(t *testing.T) {
	test.NewApp()

	row := NewItemRow(RowActions{})
	size := row.MinSize()
	if size.Width < RowMinWidth || size.Height < RowMinHeight {
		t.Errorf("row smaller than minimum: %v", size)
	}
}
