package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/czteam/czdownloader/internal/model"
)

// RowActions are the handlers behind the row buttons
type RowActions struct {
	OnStart       func(id string)
	OnTogglePause func(id string)
	OnCancel      func(id string)
	OnRetry       func(id string)
	OnRemove      func(id string)
	OnDetails     func(item model.VideoItem)
	OnOpenFolder  func(item model.VideoItem)
}

// rowView is everything an ItemRow shows for one snapshot
type rowView struct {
	title         string
	meta          string
	status        string
	importance    widget.Importance
	percent       string
	detail        string
	progress      float64 // 0 to 1
	indeterminate bool

	showStart   bool
	showPause   bool
	pauseText   string
	showCancel  bool
	showRetry   bool
	showDetails bool
	showOpen    bool
}

func viewFor(item model.VideoItem) rowView {
	v := rowView{
		title:      cleanText(item.GetDisplayTitle()),
		meta:       metaLine(item),
		importance: widget.MediumImportance,
		percent:    fmt.Sprintf(ProgressLabelFormat, int(item.Progress)),
		progress:   item.Progress / 100,
	}

	switch item.Status {
	case model.StatusPending:
		v.status = IconWaiting + " Ready"
		v.showStart = true
		v.showCancel = true
	case model.StatusAnalyzing:
		v.status = IconSearch + " Analyzing"
		v.indeterminate = true
		v.percent = ""
		v.showCancel = true
	case model.StatusDownloading:
		v.status = IconPlay + " Downloading"
		v.importance = widget.HighImportance
		v.indeterminate = item.ProgressMode == model.ProgressIndeterminate
		v.percent = item.GetProgressString()
		v.detail = item.GetSpeedString() + MiddleDotSeparator + "ETA " + item.GetETAString()
		v.showPause = true
		v.pauseText = "Pause"
		v.showCancel = true
	case model.StatusPaused:
		v.status = IconPause + " Paused"
		v.percent = item.GetProgressString()
		v.showPause = true
		v.pauseText = "Resume"
		v.showCancel = true
		v.showRetry = true
	case model.StatusCompleted:
		v.status = IconDone + " Completed"
		v.importance = widget.SuccessImportance
		v.progress = 1
		v.percent = fmt.Sprintf(ProgressLabelFormat, 100)
		v.detail = item.Filename
		v.showOpen = true
	case model.StatusError:
		v.status = IconError + " Error"
		v.importance = widget.DangerImportance
		v.detail = item.ErrorMessage
		v.showRetry = true
		v.showDetails = true
	case model.StatusCancelled:
		v.status = IconCancel + " Cancelled"
		v.importance = widget.WarningImportance
		v.showRetry = true
	default:
		v.status = item.Status.String()
	}

	return v
}

// metaLine joins platform, quality, duration and uploader
func metaLine(item model.VideoItem) string {
	parts := make([]string, 0, 4)
	if item.Platform != "" {
		parts = append(parts, item.Platform)
	}
	parts = append(parts, string(item.Quality))
	if item.Duration > 0 {
		parts = append(parts, item.GetDurationString())
	}
	if item.Uploader != "" {
		parts = append(parts, cleanText(item.Uploader))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

func cleanText(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(s)
}

// ItemRow renders one queue item with its progress and actions
type ItemRow struct {
	widget.BaseWidget

	item    model.VideoItem
	actions RowActions

	titleLabel   *widget.Label
	metaLabel    *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	detailLabel  *widget.Label
	bar          *widget.ProgressBar
	infiniteBar  *widget.ProgressBarInfinite

	startBtn   *widget.Button
	pauseBtn   *widget.Button
	cancelBtn  *widget.Button
	retryBtn   *widget.Button
	detailsBtn *widget.Button
	openBtn    *widget.Button
	removeBtn  *widget.Button

	content *fyne.Container
}

// NewItemRow creates an empty row
func NewItemRow(actions RowActions) *ItemRow {
	r := &ItemRow{actions: actions}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

func (r *ItemRow) createUI() {
	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.metaLabel = widget.NewLabel("")
	r.metaLabel.Truncation = fyne.TextTruncateEllipsis

	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Alignment = fyne.TextAlignTrailing
	r.percentLabel = widget.NewLabel("")
	r.percentLabel.Alignment = fyne.TextAlignTrailing
	r.detailLabel = widget.NewLabel("")
	r.detailLabel.Truncation = fyne.TextTruncateEllipsis
	r.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}

	r.bar = widget.NewProgressBar()
	r.bar.TextFormatter = func() string { return "" }
	r.infiniteBar = widget.NewProgressBarInfinite()
	r.infiniteBar.Stop()
	r.infiniteBar.Hide()

	byID := func(fn *func(string)) func() {
		return func() {
			if *fn != nil {
				(*fn)(r.item.ID)
			}
		}
	}
	byItem := func(fn *func(model.VideoItem)) func() {
		return func() {
			if *fn != nil {
				(*fn)(r.item)
			}
		}
	}

	r.startBtn = widget.NewButton(IconPlay, byID(&r.actions.OnStart))
	r.pauseBtn = widget.NewButton("Pause", byID(&r.actions.OnTogglePause))
	r.cancelBtn = widget.NewButton(IconCancel, byID(&r.actions.OnCancel))
	r.retryBtn = widget.NewButton(IconRetry, byID(&r.actions.OnRetry))
	r.detailsBtn = widget.NewButton(IconInfo, byItem(&r.actions.OnDetails))
	r.openBtn = widget.NewButton(IconFolder, byItem(&r.actions.OnOpenFolder))
	r.removeBtn = widget.NewButton(IconRemove, byID(&r.actions.OnRemove))
	r.removeBtn.Importance = widget.LowImportance
	r.startBtn.Importance = widget.HighImportance

	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	actionRow := container.NewHBox(
		r.startBtn, r.pauseBtn, r.cancelBtn, r.retryBtn,
		r.detailsBtn, r.openBtn, r.removeBtn,
	)
	info := container.NewVBox(
		fixedWidth(StatusLabelWidth, r.statusLabel),
		fixedWidth(PercentLabelWidth, r.percentLabel),
	)
	text := container.NewVBox(r.titleLabel, r.metaLabel)
	header := container.NewBorder(nil, nil, nil, container.NewHBox(info, actionRow), text)
	bars := container.NewStack(r.bar, r.infiniteBar)
	footer := container.NewBorder(nil, nil, nil, nil, container.NewVBox(bars, fixedWidth(SpeedLabelWidth, r.detailLabel)))

	r.content = container.NewVBox(header, footer, widget.NewSeparator())
}

// SetItem renders item
func (r *ItemRow) SetItem(item model.VideoItem) {
	r.item = item
	v := viewFor(item)

	r.titleLabel.SetText(v.title)
	r.metaLabel.SetText(v.meta)
	r.statusLabel.Importance = v.importance
	r.statusLabel.SetText(v.status)
	r.percentLabel.SetText(v.percent)
	r.detailLabel.SetText(v.detail)

	if v.indeterminate {
		r.bar.Hide()
		r.infiniteBar.Show()
		if !r.infiniteBar.Running() {
			r.infiniteBar.Start()
		}
	} else {
		r.infiniteBar.Stop()
		r.infiniteBar.Hide()
		r.bar.SetValue(v.progress)
		r.bar.Show()
	}

	setVisible(r.startBtn, v.showStart)
	setVisible(r.pauseBtn, v.showPause)
	if v.showPause {
		r.pauseBtn.SetText(v.pauseText)
	}
	setVisible(r.cancelBtn, v.showCancel)
	setVisible(r.retryBtn, v.showRetry)
	setVisible(r.detailsBtn, v.showDetails)
	setVisible(r.openBtn, v.showOpen)

	r.Refresh()
}

// Item returns the rendered snapshot
func (r *ItemRow) Item() model.VideoItem {
	return r.item
}

// MinSize keeps rows tall enough for two text lines and the bar
func (r *ItemRow) MinSize() fyne.Size {
	size := r.BaseWidget.MinSize()
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	return size
}

// CreateRenderer creates the widget renderer
func (r *ItemRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.content)
}

func setVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}
