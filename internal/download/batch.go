package download

import (
	"time"

	"github.com/czteam/czdownloader/internal/model"
)

type outcome int

const (
	outcomeOutstanding outcome = iota
	outcomeCompleted
	outcomeFailed
	outcomeDropped // cancelled or removed
)

// batchTracker aggregates one batch run. It is guarded by Service.mu.
type batchTracker struct {
	summary model.BatchSummary
	members map[string]outcome
}

func (b *batchTracker) active() bool {
	return b.summary.Total > 0
}

// enroll adds id to the batch, starting a new batch if none is running. An
// item that already failed in this batch is re-enrolled without counting it
// twice.
func (b *batchTracker) enroll(id string, now time.Time) {
	if !b.active() {
		b.summary = model.BatchSummary{StartedAt: now}
		b.members = make(map[string]outcome)
	}

	prev, ok := b.members[id]
	switch {
	case !ok:
		b.summary.Total++
	case prev == outcomeFailed:
		b.summary.Failed--
		b.removeError(id)
	}
	b.members[id] = outcomeOutstanding
}

func (b *batchTracker) outstandingMember(id string) bool {
	o, ok := b.members[id]
	return ok && o == outcomeOutstanding
}

func (b *batchTracker) complete(id string) {
	if !b.outstandingMember(id) {
		return
	}
	b.members[id] = outcomeCompleted
	b.summary.Completed++
}

func (b *batchTracker) fail(id string, rec model.ErrorRecord) {
	if !b.outstandingMember(id) {
		return
	}
	b.members[id] = outcomeFailed
	b.summary.Failed++
	b.summary.Errors = append(b.summary.Errors, rec)
}

func (b *batchTracker) drop(id string) {
	if !b.outstandingMember(id) {
		return
	}
	b.members[id] = outcomeDropped
}

func (b *batchTracker) removeError(id string) {
	errs := b.summary.Errors[:0]
	for _, rec := range b.summary.Errors {
		if rec.ItemID != id {
			errs = append(errs, rec)
		}
	}
	b.summary.Errors = errs
}

func (b *batchTracker) outstanding() int {
	n := 0
	for _, o := range b.members {
		if o == outcomeOutstanding {
			n++
		}
	}
	return n
}

// finish finalizes the batch when nothing is outstanding. It returns false if
// no batch is running or members are still outstanding, so each batch is
// reported once.
func (b *batchTracker) finish(now time.Time) (model.BatchReport, bool) {
	if !b.active() || b.outstanding() > 0 {
		return model.BatchReport{}, false
	}
	report := b.summary.Finalize(now)
	b.reset()
	return report, true
}

func (b *batchTracker) reset() {
	b.summary = model.BatchSummary{}
	b.members = nil
}

// snapshot returns a copy safe to hand out
func (b *batchTracker) snapshot() model.BatchSummary {
	s := b.summary
	s.Errors = make([]model.ErrorRecord, len(b.summary.Errors))
	copy(s.Errors, b.summary.Errors)
	return s
}
