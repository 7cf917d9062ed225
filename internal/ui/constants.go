package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconFolder   = "📁"
	IconError    = "❌"
	IconDone     = "✔"
	IconWaiting  = "⏳"
	IconSearch   = "🔍"
	IconCancel   = "✖"
	IconRetry    = "↻"
	IconInfo     = "ℹ"
	IconRemove   = "🗑"
	IconTheme    = "🌙"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (ItemRow / lists)
const (
	StatusLabelWidth  float32 = 110
	SpeedLabelWidth   float32 = 170
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 480
	RowMinHeight float32 = 84
)

// Dialog sizing
const (
	BulkDialogWidth      float32 = 560
	BulkDialogHeight     float32 = 360
	SummaryDialogWidth   float32 = 480
	SummaryDialogHeight  float32 = 360
	HistoryDialogWidth   float32 = 640
	HistoryDialogHeight  float32 = 440
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 420
)

// Behavior
const (
	HistoryLimit     = 100
	HistoryTimeout   = 5 * time.Second
	MaxSummaryErrors = 10
)
