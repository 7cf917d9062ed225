package tui

import "github.com/czteam/czdownloader/internal/model"

// Message types delivered by the download service

type itemUpdateMsg struct {
	item model.VideoItem
}

type batchDoneMsg struct {
	report model.BatchReport
}
