package scan

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Updater is the slice of the vault the orchestrator reports verdicts to.
type Updater interface {
	ApplyScanVerdict(ctx context.Context, objectID string, v *models.ScanVerdict) error
}

// Orchestrator runs one classification per file as an independent
// background task. A slow or hung classifier call never blocks vault
// operations or other scans.
//
// Failure policy is fail-open: any classifier error, including a panic,
// yields a CLEAN verdict with a fixed analysis note. This is a deliberate
// availability-over-paranoia choice; do not silently flip it to
// fail-closed.
type Orchestrator struct {
	classifier Classifier
	updater    Updater
	logger     logging.Logger

	// base context for scans; they outlive the request that created the
	// object and stop only on server shutdown
	baseCtx context.Context

	wg sync.WaitGroup
}

// NewOrchestrator wires the classifier to the vault updater. baseCtx bounds
// the lifetime of all in-flight scans.
func NewOrchestrator(baseCtx context.Context, classifier Classifier, updater Updater, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		updater:    updater,
		logger:     logger.With("module", "scan_orchestrator"),
		baseCtx:    baseCtx,
	}
}

// Enqueue schedules exactly one classification attempt for the object and
// returns immediately. There are no retries.
func (o *Orchestrator) Enqueue(objectID string, md Metadata) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(objectID, md)
	}()
}

// Wait blocks until all in-flight scans have completed. Used on shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) run(objectID string, md Metadata) {
	ctx := o.baseCtx

	verdict := o.classify(ctx, md)

	err := o.updater.ApplyScanVerdict(ctx, objectID, verdict)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotFound):
		// object deleted while the scan was in flight; nothing to record
		o.logger.Warn(ctx, "scan finished for deleted object", "object_id", objectID)
	case errors.Is(err, common.ErrInvalidTransition):
		// must never happen: the orchestrator is the only status writer
		o.logger.Error(ctx, "scan verdict rejected, caller bug", "object_id", objectID, "error", err.Error())
	default:
		o.logger.Error(ctx, "scan verdict not applied", "object_id", objectID, "error", err.Error())
	}
}

// classify wraps the collaborator call and converts every failure mode,
// error or panic, into the fail-open CLEAN verdict.
func (o *Orchestrator) classify(ctx context.Context, md Metadata) (verdict *models.ScanVerdict) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error(ctx, "classifier panicked, failing open", "name", md.Name, "panic", r)
			verdict = failOpenVerdict()
		}
	}()

	v, err := o.classifier.Classify(ctx, md)
	if err != nil {
		o.logger.Warn(ctx, "classifier failed, failing open", "name", md.Name, "error", err.Error())
		return failOpenVerdict()
	}
	return v
}

func failOpenVerdict() *models.ScanVerdict {
	return &models.ScanVerdict{
		Status:   models.StatusClean,
		Score:    0,
		Analysis: common.FailOpenAnalysisNote,
	}
}
