package model

import (
	"testing"
	"time"
)

func TestBatchSummary_SuccessRate(t *testing.T) {
	tests := []struct {
		summary  BatchSummary
		expected float64
	}{
		{BatchSummary{}, 0},
		{BatchSummary{Total: 4, Completed: 4}, 100},
		{BatchSummary{Total: 4, Completed: 1, Failed: 3}, 25},
	}

	for _, test := range tests {
		if got := test.summary.SuccessRate(); got != test.expected {
			t.Errorf("SuccessRate() for %+v = %v, expected %v", test.summary, got, test.expected)
		}
	}
}

func TestBatchSummary_Finalize(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	summary := BatchSummary{
		Total:     2,
		Completed: 1,
		Failed:    1,
		Errors:    []ErrorRecord{{Title: "a", Message: "boom"}},
		StartedAt: start,
	}

	report := summary.Finalize(start.Add(90 * time.Second))

	if report.Duration != 90*time.Second {
		t.Errorf("expected 90s duration, got %v", report.Duration)
	}
	if report.SuccessRate != 50 {
		t.Errorf("expected 50%% success rate, got %v", report.SuccessRate)
	}

	summary.Errors[0].Message = "changed"
	if report.Errors[0].Message != "boom" {
		t.Error("report must own a copy of the error records")
	}
}
