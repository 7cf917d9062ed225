package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/czteam/czdownloader/internal/model"
	"github.com/czteam/czdownloader/internal/platform"
)

// ErrServiceClosed is returned after Shutdown
var ErrServiceClosed = errors.New("download service is shut down")

const recordTimeout = 5 * time.Second

type stage int

const (
	stageAnalysis stage = iota
	stageDownload
)

// job is everything a download worker needs, captured under the lock
type job struct {
	id      string
	attempt int
	dir     string
	req     model.DownloadRequest
}

// Service owns the download queue. All item state lives behind mu; callers
// only ever see value snapshots.
type Service struct {
	mu               sync.Mutex
	items            map[string]*model.VideoItem
	order            []string
	queued           map[string]bool // waiting for a worker slot
	running          int
	maxConcurrent    int
	downloadDir      string
	filenameTemplate string
	batch            batchTracker
	closed           bool

	extractor Extractor
	recorder  Recorder
	errLog    *ErrorLog
	onUpdate  func(model.VideoItem)
	onBatch   func(model.BatchReport)

	events     *eventQueue
	analyzeSem chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

var _ Downloader = (*Service)(nil)

// NewService creates a new download service
func NewService(extractor Extractor, downloadDir string, maxConcurrent int) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		items:            make(map[string]*model.VideoItem),
		queued:           make(map[string]bool),
		maxConcurrent:    ClampConcurrent(maxConcurrent),
		downloadDir:      downloadDir,
		filenameTemplate: platform.DefaultFilenameTemplate,
		extractor:        extractor,
		errLog:           NewErrorLog(downloadDir),
		events:           newEventQueue(),
		analyzeSem:       make(chan struct{}, MaxConcurrent),
		ctx:              ctx,
		cancel:           cancel,
	}
}

// ClampConcurrent limits n to [MinConcurrent, MaxConcurrent]
func ClampConcurrent(n int) int {
	if n < MinConcurrent {
		return MinConcurrent
	}
	if n > MaxConcurrent {
		return MaxConcurrent
	}
	return n
}

// SetUpdateCallback sets the callback function for item updates. It runs on
// a dedicated goroutine, in the order the changes happened.
func (s *Service) SetUpdateCallback(callback func(model.VideoItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// SetBatchCallback sets the callback fired once per finished batch
func (s *Service) SetBatchCallback(callback func(model.BatchReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onBatch = callback
}

// SetRecorder sets where completed and failed items are persisted
func (s *Service) SetRecorder(recorder Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = recorder
}

// Enqueue validates rawURL and adds a new item. Metadata analysis starts in
// the background; the call returns at once.
func (s *Service) Enqueue(rawURL string, quality model.Quality) (string, error) {
	url := strings.TrimSpace(rawURL)
	if !quality.IsValid() {
		return "", &ValidationError{URL: url, Reason: fmt.Sprintf("unknown quality %q", quality)}
	}
	if err := platform.ValidateURL(url); err != nil {
		return "", &ValidationError{URL: url, Reason: err.Error(), Err: err}
	}

	item := model.NewVideoItem(uuid.NewString(), url, quality, string(platform.DetectPlatform(url)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrServiceClosed
	}

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	s.startAnalysisLocked(item)

	return item.ID, nil
}

// EnqueueMany adds one URL per line of text. Blank lines are skipped; it
// returns the ids of accepted items and the number of rejected lines.
func (s *Service) EnqueueMany(text string, quality model.Quality) ([]string, int) {
	var ids []string
	rejected := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		id, err := s.Enqueue(line, quality)
		if err != nil {
			log.Printf("Skipping %s: %v", platform.TruncateURL(line), err)
			rejected++
			continue
		}
		ids = append(ids, id)
	}

	return ids, rejected
}

// StartBatch enrolls every pending item and starts up to maxConcurrent
// workers. Freed slots are refilled from the enrolled items in insertion
// order.
func (s *Service) StartBatch(maxConcurrent int) (int, error) {
	if maxConcurrent < MinConcurrent || maxConcurrent > MaxConcurrent {
		return 0, ErrInvalidConcurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrServiceClosed
	}

	s.maxConcurrent = maxConcurrent
	now := time.Now()
	enrolled := 0
	for _, id := range s.order {
		if s.items[id].Status != model.StatusPending {
			continue
		}
		s.queued[id] = true
		s.batch.enroll(id, now)
		enrolled++
	}

	if enrolled == 0 {
		return 0, ErrNothingToDownload
	}

	log.Printf("Starting batch of %d items with %d workers", enrolled, maxConcurrent)
	s.scheduleLocked()
	return enrolled, nil
}

// StartItem queues a single pending item. It joins the running batch if
// there is one.
func (s *Service) StartItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if item.Status != model.StatusPending {
		return fmt.Errorf("cannot start item in status %s: %w", item.Status, model.ErrInvalidTransition)
	}

	s.queued[id] = true
	if s.batch.active() {
		s.batch.enroll(id, time.Now())
	}
	s.scheduleLocked()
	return nil
}

// Cancel marks the item cancelled. An in-flight library call is not
// interrupted; its result is discarded. Cancelling twice is a no-op.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if item.Status == model.StatusCancelled {
		return nil
	}

	if err := item.Transition(model.StatusCancelled); err != nil {
		return err
	}
	item.Speed = 0
	item.ETASec = -1
	delete(s.queued, id)

	s.publishLocked(item)
	s.batch.drop(id)
	s.finishBatchLocked()
	return nil
}

// Retry re-enrolls a failed, cancelled or paused item with cleared progress.
// Items that were never analyzed are analyzed again first.
func (s *Service) Retry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !item.Status.CanRetry() {
		return fmt.Errorf("cannot retry item in status %s: %w", item.Status, model.ErrInvalidTransition)
	}

	item.ResetProgress()
	s.queued[id] = true
	if s.batch.active() {
		s.batch.enroll(id, time.Now())
	}

	if !item.Analyzed {
		s.startAnalysisLocked(item)
		return nil
	}

	if err := item.Transition(model.StatusPending); err != nil {
		delete(s.queued, id)
		return err
	}
	// invalidate a transfer that is still running behind a paused label
	item.Attempt++
	s.publishLocked(item)
	s.scheduleLocked()
	return nil
}

// TogglePause switches a downloading item to paused and back. The transfer
// itself keeps running.
func (s *Service) TogglePause(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	var err error
	switch item.Status {
	case model.StatusDownloading:
		err = item.Transition(model.StatusPaused)
	case model.StatusPaused:
		err = item.Transition(model.StatusDownloading)
	default:
		err = fmt.Errorf("cannot pause item in status %s: %w", item.Status, model.ErrInvalidTransition)
	}
	if err != nil {
		return err
	}

	s.publishLocked(item)
	return nil
}

// Remove deletes one item from the queue
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	delete(s.items, id)
	delete(s.queued, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.batch.drop(id)
	s.finishBatchLocked()
	return nil
}

// ClearAll removes every item and abandons the running batch. Workers still
// in flight finish in the background and their results are dropped.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*model.VideoItem)
	s.queued = make(map[string]bool)
	s.order = nil
	s.batch.reset()
}

// Item returns a snapshot of one item
func (s *Service) Item(id string) (model.VideoItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return model.VideoItem{}, false
	}
	return *item, true
}

// Items returns snapshots of all items in insertion order
func (s *Service) Items() []model.VideoItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.VideoItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, *s.items[id])
	}
	return items
}

// ActiveCount returns the number of pending, analyzing and downloading items
func (s *Service) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		if item.Status.IsActive() {
			n++
		}
	}
	return n
}

// Summary returns the running batch aggregate; Total is 0 when no batch runs
func (s *Service) Summary() model.BatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch.snapshot()
}

// MaxConcurrent returns the worker cap
func (s *Service) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxConcurrent
}

// SetMaxConcurrent changes the worker cap; a higher cap starts queued items
// immediately
func (s *Service) SetMaxConcurrent(n int) error {
	if n < MinConcurrent || n > MaxConcurrent {
		return ErrInvalidConcurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxConcurrent = n
	s.scheduleLocked()
	return nil
}

// SetDownloadDirectory sets the download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadDir = dir
	s.errLog.SetDirectory(dir)
}

// DownloadDirectory returns the download directory
func (s *Service) DownloadDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloadDir
}

// SetFilenameTemplate sets the output template; empty restores the default
func (s *Service) SetFilenameTemplate(template string) {
	template = strings.TrimSpace(template)
	if template == "" {
		template = platform.DefaultFilenameTemplate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filenameTemplate = template
}

// Shutdown stops scheduling, cancels in-flight library calls and waits for
// workers and pending callbacks
func (s *Service) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.events.close()
}

// startAnalysisLocked moves item to analyzing and fetches metadata
func (s *Service) startAnalysisLocked(item *model.VideoItem) {
	if err := item.Transition(model.StatusAnalyzing); err != nil {
		log.Printf("Cannot analyze item %s: %v", item.ID, err)
		return
	}
	item.Attempt++
	s.publishLocked(item)

	s.wg.Add(1)
	go s.analyze(item.ID, item.Attempt, item.URL)
}

func (s *Service) analyze(id string, attempt int, url string) {
	defer s.wg.Done()

	select {
	case s.analyzeSem <- struct{}{}:
	case <-s.ctx.Done():
		return
	}
	meta, err := s.callAnalyze(url)
	<-s.analyzeSem

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	item := s.currentLocked(id, attempt, model.StatusAnalyzing)
	if item == nil {
		return
	}

	if err != nil {
		log.Printf("Analysis failed for item %s: %v", id, err)
		s.failLocked(item, newFailure(stageAnalysis, url, err))
		s.finishBatchLocked()
		return
	}

	item.ApplyMetadata(*meta)
	if err := item.Transition(model.StatusPending); err != nil {
		log.Printf("Cannot mark item %s pending: %v", id, err)
		return
	}
	s.publishLocked(item)
	s.scheduleLocked()
}

func (s *Service) callAnalyze(url string) (meta *model.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Err: fmt.Errorf("panic during analysis: %v", r)}
		}
	}()

	meta, err = s.extractor.Analyze(s.ctx, url)
	if err == nil && meta == nil {
		err = errors.New("extractor returned no metadata")
	}
	return meta, err
}

// scheduleLocked starts queued pending items until the worker cap is reached
func (s *Service) scheduleLocked() {
	if s.closed {
		return
	}

	for s.running < s.maxConcurrent {
		item := s.nextQueuedLocked()
		if item == nil {
			return
		}
		delete(s.queued, item.ID)

		if err := item.Transition(model.StatusDownloading); err != nil {
			log.Printf("Cannot start item %s: %v", item.ID, err)
			continue
		}
		item.ResetProgress()
		item.Attempt++
		s.running++
		s.publishLocked(item)

		j := s.jobLocked(item)
		s.wg.Add(1)
		go s.download(j)
	}
}

// nextQueuedLocked returns the oldest queued item that is ready to download
func (s *Service) nextQueuedLocked() *model.VideoItem {
	for _, id := range s.order {
		if !s.queued[id] {
			continue
		}
		if item := s.items[id]; item.Status == model.StatusPending {
			return item
		}
	}
	return nil
}

func (s *Service) jobLocked(item *model.VideoItem) job {
	p := platform.Platform(item.Platform)
	return job{
		id:      item.ID,
		attempt: item.Attempt,
		dir:     s.downloadDir,
		req: model.DownloadRequest{
			URL:            item.URL,
			Quality:        item.Quality,
			Format:         platform.FormatSelector(item.Quality, p),
			OutputTemplate: filepath.Join(s.downloadDir, s.filenameTemplate),
			Headers:        platform.HeadersFor(p),
			Retries:        platform.DefaultRetries,
		},
	}
}

func (s *Service) download(j job) {
	defer s.wg.Done()

	err := s.callDownload(j)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.running--
	if s.closed {
		return
	}

	if item := s.currentLocked(j.id, j.attempt, model.StatusDownloading, model.StatusPaused); item != nil {
		if err != nil {
			log.Printf("Download attempt %d failed for item %s: %v", j.attempt, j.id, err)
			s.failLocked(item, newFailure(stageDownload, item.URL, err))
		} else {
			s.completeLocked(item, "")
		}
	}

	s.scheduleLocked()
	s.finishBatchLocked()
}

func (s *Service) callDownload(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Err: fmt.Errorf("panic during download: %v", r)}
		}
	}()

	if err := platform.CreateDirectoryIfNotExists(j.dir); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	return s.extractor.Download(s.ctx, j.req, func(ev model.ProgressEvent) {
		s.handleProgress(j, TranslateProgress(ev))
	})
}

// handleProgress applies one translated event from the worker of j
func (s *Service) handleProgress(j job, u ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.currentLocked(j.id, j.attempt, model.StatusDownloading, model.StatusPaused)
	if item == nil {
		return
	}

	switch u.Status {
	case model.ProgressStatusFinished:
		s.completeLocked(item, u.Filename)
		s.finishBatchLocked()
	case model.ProgressStatusError:
		raw := u.Err
		if raw == "" {
			raw = model.UnknownErrorText
		}
		s.failLocked(item, newFailure(stageDownload, item.URL, errors.New(raw)))
		s.finishBatchLocked()
	default:
		applyProgress(item, u)
		s.publishLocked(item)
	}
}

// currentLocked returns the item only if it still belongs to attempt and is
// in one of statuses. Anything else is a stale result.
func (s *Service) currentLocked(id string, attempt int, statuses ...model.ItemStatus) *model.VideoItem {
	item, ok := s.items[id]
	if !ok || item.Attempt != attempt {
		return nil
	}
	for _, status := range statuses {
		if item.Status == status {
			return item
		}
	}
	return nil
}

func (s *Service) completeLocked(item *model.VideoItem, filename string) {
	if err := item.Transition(model.StatusCompleted); err != nil {
		log.Printf("Cannot complete item %s: %v", item.ID, err)
		return
	}
	item.SetProgress(100)
	item.ProgressMode = model.ProgressDeterminate
	item.Speed = 0
	item.ETASec = -1
	if filename != "" {
		item.Filename = filename
	}

	s.publishLocked(item)
	s.batch.complete(item.ID)
	s.recordLocked(item)
}

func (s *Service) failLocked(item *model.VideoItem, err error) {
	kind, message := failureDetails(err)
	if ferr := item.Fail(string(kind), message); ferr != nil {
		log.Printf("Cannot fail item %s: %v", item.ID, ferr)
		return
	}
	item.Speed = 0
	item.ETASec = -1

	s.publishLocked(item)
	s.batch.fail(item.ID, model.ErrorRecord{
		ItemID:  item.ID,
		Title:   item.GetDisplayTitle(),
		URL:     platform.TruncateURL(item.URL),
		Message: message,
	})

	raw := err.Error()
	if inner := errors.Unwrap(err); inner != nil {
		raw = inner.Error()
	}
	snap := *item
	errLog := s.errLog
	s.events.push(func() {
		if err := errLog.LogFailure(snap, raw); err != nil {
			log.Printf("Failed to write error log: %v", err)
		}
	})
	s.recordLocked(item)
}

// finishBatchLocked finalizes the batch once nothing is outstanding
func (s *Service) finishBatchLocked() {
	report, ok := s.batch.finish(time.Now())
	if !ok {
		return
	}

	log.Printf("Batch finished: %d/%d completed, %d failed", report.Completed, report.Total, report.Failed)
	errLog, onBatch := s.errLog, s.onBatch
	s.events.push(func() {
		if err := errLog.LogBatch(report); err != nil {
			log.Printf("Failed to write error log: %v", err)
		}
		if onBatch != nil {
			onBatch(report)
		}
	})
}

func (s *Service) publishLocked(item *model.VideoItem) {
	if s.onUpdate == nil {
		return
	}
	snap := *item
	onUpdate := s.onUpdate
	s.events.push(func() { onUpdate(snap) })
}

func (s *Service) recordLocked(item *model.VideoItem) {
	if s.recorder == nil {
		return
	}
	snap := *item
	recorder := s.recorder
	s.events.push(func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := recorder.RecordOutcome(ctx, snap); err != nil {
			log.Printf("Failed to record outcome for item %s: %v", snap.ID, err)
		}
	})
}

// newFailure wraps a raw extractor error into the typed error for its stage
func newFailure(st stage, url string, err error) error {
	var unexpected *UnexpectedError
	if errors.As(err, &unexpected) {
		return unexpected
	}

	class := Classify(err.Error(), url)
	if st == stageAnalysis {
		return &AnalysisError{URL: url, Class: class, Err: err}
	}
	return &DownloadError{URL: url, Class: class, Err: err}
}

// failureDetails returns the category and user-facing message of err
func failureDetails(err error) (ErrorKind, string) {
	var (
		analysisErr   *AnalysisError
		downloadErr   *DownloadError
		unexpectedErr *UnexpectedError
	)

	switch {
	case errors.As(err, &analysisErr):
		return analysisErr.Class.Kind, analysisErr.Class.Message
	case errors.As(err, &downloadErr):
		return downloadErr.Class.Kind, downloadErr.Class.Message
	case errors.As(err, &unexpectedErr):
		return KindUnexpected, unexpectedErr.DisplayMessage()
	}

	class := Classify(err.Error(), "")
	return class.Kind, class.Message
}
