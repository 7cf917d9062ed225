package model

import "time"

// ErrorRecord describes one failed item of a batch
type ErrorRecord struct {
	ItemID  string
	Title   string
	URL     string // truncated for display
	Message string
}

// BatchSummary is the running aggregate of one batch
type BatchSummary struct {
	Total     int
	Completed int
	Failed    int
	Errors    []ErrorRecord
	StartedAt time.Time
}

// BatchReport is a finalized batch summary
type BatchReport struct {
	BatchSummary
	FinishedAt  time.Time
	Duration    time.Duration
	SuccessRate float64 // 0 to 100
}

// Active reports whether the summary belongs to a running batch
func (b BatchSummary) Active() bool {
	return b.Total > 0
}

// SuccessRate returns completed/total as a percentage
func (b BatchSummary) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Completed) / float64(b.Total) * 100
}

// Finalize computes the report for a batch that ended at now
func (b BatchSummary) Finalize(now time.Time) BatchReport {
	errs := make([]ErrorRecord, len(b.Errors))
	copy(errs, b.Errors)
	b.Errors = errs
	return BatchReport{
		BatchSummary: b,
		FinishedAt:   now,
		Duration:     now.Sub(b.StartedAt),
		SuccessRate:  b.SuccessRate(),
	}
}
