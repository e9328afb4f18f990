package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clickscribe/internal/align"
	"clickscribe/internal/config"
	"clickscribe/internal/logging"
	"clickscribe/internal/services"
	"clickscribe/internal/store"
	"clickscribe/internal/textutil"
)

const stageAlign = "align"

// Processor aligns stored tutorials.
type Processor struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// StepResult is the persisted alignment of one step.
type StepResult struct {
	StepID         string `json:"stepId"`
	Sequence       int    `json:"sequence"`
	TimestampStart int64  `json:"timestampStart"`
	TextContent    string `json:"textContent"`
	TimestampEnd   *int64 `json:"timestampEnd"`
	Fallback       bool   `json:"fallback"`
}

// Result summarizes a processing run.
type Result struct {
	TutorialID    string        `json:"tutorialId"`
	RequestID     string        `json:"requestId"`
	Steps         []StepResult  `json:"steps"`
	SegmentCount  int           `json:"segmentCount"`
	Unsorted      bool          `json:"unsorted"`
	Reordered     bool          `json:"reordered"`
	FallbackCount int           `json:"fallbackCount"`
	Duration      time.Duration `json:"duration"`
}

// New constructs a Processor.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "processor"),
	}
}

// Process aligns one tutorial and persists the result. Concurrent runs for the
// same tutorial fail fast with services.ErrConflict.
func (p *Processor) Process(ctx context.Context, tutorialID string) (*Result, error) {
	requestID := uuid.NewString()
	ctx = services.WithTutorialID(ctx, tutorialID)
	ctx = services.WithStage(ctx, stageAlign)
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, p.logger)

	unlock, err := p.acquire(tutorialID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tutorial, err := p.store.GetTutorial(ctx, tutorialID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageAlign, "load tutorial", tutorialID, err)
	}
	if tutorial == nil {
		return nil, services.Wrap(services.ErrNotFound, stageAlign, "load tutorial",
			fmt.Sprintf("tutorial %s does not exist", tutorialID), nil)
	}

	start := time.Now()
	logger.Info(
		"alignment started",
		logging.String(logging.FieldEventType, "align_start"),
		logging.String("title", tutorial.Title),
		logging.String("previous_status", string(tutorial.Status)),
	)

	result, err := p.align(ctx, logger, tutorial)
	if err != nil {
		p.recordFailure(ctx, logger, tutorial, err)
		return nil, err
	}
	result.RequestID = requestID
	result.Duration = time.Since(start)

	logger.Info(
		"alignment completed",
		logging.String(logging.FieldEventType, "align_complete"),
		logging.Int("steps", len(result.Steps)),
		logging.Int("segments", result.SegmentCount),
		logging.Int("fallback_steps", result.FallbackCount),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (p *Processor) align(ctx context.Context, logger *slog.Logger, tutorial *store.Tutorial) (*Result, error) {
	steps, err := p.store.ListSteps(ctx, tutorial.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageAlign, "load steps", "", err)
	}
	if len(steps) == 0 {
		return nil, services.Wrap(services.ErrValidation, stageAlign, "load steps",
			"tutorial has no captured steps", nil)
	}
	segments, err := p.store.ListSegments(ctx, tutorial.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageAlign, "load segments", "", err)
	}
	if len(segments) == 0 {
		logging.WarnWithContext(logger, "tutorial has no transcript segments", "align_no_transcript",
			logging.String(logging.FieldErrorHint, "import a transcript with 'clickscribe transcript import'"),
			logging.String(logging.FieldImpact, "steps will be stored without narration"),
		)
	}

	result := &Result{TutorialID: tutorial.ID, SegmentCount: len(segments)}
	steps, result.Unsorted, result.Reordered = p.order(logger, steps)

	markers := make([]align.Step, len(steps))
	for i, step := range steps {
		markers[i] = step.Marker()
	}
	updates := store.UpdatesFromAligned(align.Align(markers, segments))

	if p.cfg.Alignment.ClosestFallback {
		result.FallbackCount = p.fillFromClosest(logger, steps, segments, updates)
	}

	if err := p.store.ApplyAlignment(ctx, tutorial.ID, updates); err != nil {
		marker := services.ErrTransient
		if store.IsNotFound(err) {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, stageAlign, "persist alignment", "", err)
	}

	result.Steps = make([]StepResult, len(steps))
	for i, step := range steps {
		result.Steps[i] = StepResult{
			StepID:         step.ID,
			Sequence:       step.Sequence,
			TimestampStart: step.TimestampStart,
			TextContent:    updates[i].TextContent,
			TimestampEnd:   updates[i].TimestampEnd,
			Fallback:       updates[i].Fallback,
		}
	}
	return result, nil
}

// order applies the configured policy for steps whose stored sequence is not
// chronological. It returns the steps to align, whether they were unsorted,
// and whether they were reordered.
func (p *Processor) order(logger *slog.Logger, steps []store.Step) ([]store.Step, bool, bool) {
	markers := make([]align.Step, len(steps))
	for i, step := range steps {
		markers[i] = step.Marker()
	}
	if align.Sorted(markers) {
		return steps, false, false
	}

	if p.cfg.Alignment.SortSteps {
		sorted := make([]store.Step, len(steps))
		copy(sorted, steps)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TimestampStart < sorted[j].TimestampStart
		})
		logger.Info("steps reordered by timestamp",
			logging.Args(logging.DecisionAttrs("step_order", "sorted", "alignment.sort_steps enabled")...)...)
		return sorted, true, true
	}

	if p.cfg.Alignment.WarnUnsorted {
		logging.WarnWithContext(logger, "steps are not in timestamp order", "align_unsorted_steps",
			logging.Alert("unsorted_steps"),
			logging.String(logging.FieldErrorHint, "enable alignment.sort_steps or fix the capture manifest"),
			logging.String(logging.FieldImpact, "windows follow stored order and may attribute speech to the wrong step"),
		)
	}
	return steps, true, false
}

// fillFromClosest gives steps without overlapping speech the nearest segment's
// text. End timestamps are left as the aligner produced them.
func (p *Processor) fillFromClosest(logger *slog.Logger, steps []store.Step, segments []align.Segment, updates []store.StepUpdate) int {
	maxDistance := p.cfg.Alignment.FallbackMaxDistanceSeconds
	filled := 0
	for i := range updates {
		if updates[i].TextContent != "" {
			continue
		}
		at := align.MillisToSeconds(steps[i].TimestampStart)
		seg, ok := align.FindClosestSegment(at, segments)
		if !ok {
			return filled
		}
		distance := align.Distance(at, seg)
		if maxDistance > 0 && distance > maxDistance {
			logger.Debug("closest segment beyond fallback distance",
				logging.String("step_id", steps[i].ID),
				logging.Int64("timestamp_start_ms", steps[i].TimestampStart),
				logging.Float64("distance_seconds", distance),
			)
			continue
		}
		updates[i].TextContent = seg.Transcript
		updates[i].Fallback = true
		filled++
	}
	return filled
}

func (p *Processor) recordFailure(ctx context.Context, logger *slog.Logger, tutorial *store.Tutorial, err error) {
	status := services.FailureStatus(err)
	logger.Error("alignment failed",
		logging.String(logging.FieldEventType, "align_failed"),
		logging.String("status", string(status)),
		logging.Error(err),
	)
	tutorial.Status = status
	tutorial.ErrorMessage = err.Error()
	if updateErr := p.store.UpdateTutorial(context.WithoutCancel(ctx), tutorial); updateErr != nil {
		logger.Error("failed to persist alignment failure", logging.Error(updateErr))
	}
}

// acquire takes the tutorial's run lock without blocking.
func (p *Processor) acquire(tutorialID string) (func(), error) {
	lockDir := p.cfg.LockDir()
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageAlign, "create lock dir", lockDir, err)
	}
	lock := flock.New(filepath.Join(lockDir, textutil.SanitizeToken(tutorialID)+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageAlign, "acquire lock", lock.Path(), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, stageAlign, "acquire lock",
			fmt.Sprintf("tutorial %s is already being aligned", tutorialID), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release tutorial lock", logging.Error(err))
		}
	}, nil
}

// ProcessStatus aligns every tutorial currently in one of statuses, returning
// the successful results and the joined errors of the rest.
func (p *Processor) ProcessStatus(ctx context.Context, statuses ...store.Status) ([]*Result, error) {
	tutorials, err := p.store.ListTutorials(ctx, statuses...)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageAlign, "list tutorials", "", err)
	}
	var (
		results []*Result
		errs    []error
	)
	for _, tutorial := range tutorials {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := p.Process(ctx, tutorial.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tutorial.ID, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
