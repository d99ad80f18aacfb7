package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/repository"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

type statusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
}

type transitionAuditor interface {
	Create(ctx context.Context, entry *models.TransitionAudit) error
}

type transitionNotifier interface {
	Notify(ctx context.Context, event models.TransitionEvent) error
}

var transitionTable = map[models.Status]map[models.Action]models.Status{
	models.StatusPending: {
		models.ActionApprove: models.StatusApproved,
		models.ActionDelete:  models.StatusDeleted,
	},
	models.StatusApproved: {
		models.ActionSend:   models.StatusSent,
		models.ActionDelete: models.StatusDeleted,
	},
	models.StatusSent: {
		models.ActionDelete: models.StatusDeleted,
	},
}

var actionOrder = []models.Action{models.ActionApprove, models.ActionSend, models.ActionDelete}

// TransitionRequest is one submission and the status it is currently known to have.
type TransitionRequest struct {
	ID   int64
	From models.Status
}

// BulkTransitionError reports a batch where at least one update failed.
type BulkTransitionError struct {
	Target    models.Status
	Failed    []int64
	Succeeded []int64
	Err       error
}

func (e *BulkTransitionError) Error() string {
	return fmt.Sprintf("set status to %q failed for %d of %d submissions %v: %v",
		e.Target, len(e.Failed), len(e.Failed)+len(e.Succeeded), e.Failed, e.Err)
}

func (e *BulkTransitionError) Unwrap() error {
	return e.Err
}

// StatusWorkflow guards submission status changes and pushes them to the backend.
type StatusWorkflow struct {
	backend  statusUpdater
	auditor  transitionAuditor
	notifier transitionNotifier
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// StatusWorkflowOption configures the workflow.
type StatusWorkflowOption func(*StatusWorkflow)

// WithTransitionAuditor records every attempt.
func WithTransitionAuditor(auditor transitionAuditor) StatusWorkflowOption {
	return func(w *StatusWorkflow) {
		w.auditor = auditor
	}
}

// WithTransitionNotifier publishes committed transitions.
func WithTransitionNotifier(notifier transitionNotifier) StatusWorkflowOption {
	return func(w *StatusWorkflow) {
		w.notifier = notifier
	}
}

// WithWorkflowMetrics attaches transition metrics.
func WithWorkflowMetrics(metrics *MetricsService) StatusWorkflowOption {
	return func(w *StatusWorkflow) {
		w.metrics = metrics
	}
}

// NewStatusWorkflow constructs the workflow.
func NewStatusWorkflow(backend statusUpdater, logger *zap.Logger, opts ...StatusWorkflowOption) *StatusWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &StatusWorkflow{backend: backend, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Can reports whether action is permitted from status.
func (w *StatusWorkflow) Can(status models.Status, action models.Action) bool {
	_, ok := w.Next(status, action)
	return ok
}

// Next returns the status action leads to from status.
func (w *StatusWorkflow) Next(status models.Status, action models.Action) (models.Status, bool) {
	next, ok := transitionTable[status][action]
	return next, ok
}

// AllowedActions lists the actions available from status in display order.
func (w *StatusWorkflow) AllowedActions(status models.Status) []models.Action {
	actions := make([]models.Action, 0, len(actionOrder))
	for _, action := range actionOrder {
		if w.Can(status, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// ActionFor finds the action that moves from to target.
func (w *StatusWorkflow) ActionFor(from, target models.Status) (models.Action, bool) {
	for action, next := range transitionTable[from] {
		if next == target {
			return action, true
		}
	}
	return "", false
}

// TargetOf is the status every permitted use of action leads to.
func TargetOf(action models.Action) (models.Status, bool) {
	switch action {
	case models.ActionApprove:
		return models.StatusApproved, true
	case models.ActionSend:
		return models.StatusSent, true
	case models.ActionDelete:
		return models.StatusDeleted, true
	}
	return "", false
}

// Bulk moves every item to target. All items are checked against the state
// machine before any request is sent. Requests then run concurrently and Bulk
// waits for all of them; a single failure fails the whole batch so the caller
// can keep its previous state.
func (w *StatusWorkflow) Bulk(ctx context.Context, viewer string, items []TransitionRequest, target models.Status) error {
	if len(items) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no submissions selected")
	}

	var rejected []string
	for _, item := range items {
		if _, ok := w.ActionFor(item.From, target); !ok {
			rejected = append(rejected, fmt.Sprintf("%d (%s)", item.ID, item.From))
		}
	}
	if len(rejected) > 0 {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move to %s: %s", target, strings.Join(rejected, ", ")))
	}

	var (
		g         errgroup.Group
		mu        sync.Mutex
		failed    []int64
		succeeded []int64
	)
	for _, item := range items {
		item := item
		g.Go(func() error {
			err := w.push(ctx, viewer, item, target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, item.ID)
			} else {
				succeeded = append(succeeded, item.ID)
			}
			return err
		})
	}
	err := g.Wait()
	w.metrics.ObserveBulkSize(len(items))
	if err == nil {
		return nil
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	sort.Slice(succeeded, func(i, j int) bool { return succeeded[i] < succeeded[j] })
	bulkErr := &BulkTransitionError{Target: target, Failed: failed, Succeeded: succeeded, Err: err}
	w.logger.Warn("bulk status update failed",
		zap.String("target", string(target)),
		zap.Int64s("failed", failed),
		zap.Int64s("succeeded", succeeded),
		zap.Error(err))
	return appErrors.Wrap(bulkErr, appErrors.ErrStatusUpdateFailed.Code, appErrors.ErrStatusUpdateFailed.Status,
		StatusUpdateMessage(err, target))
}

// Single moves one submission from its known status to target.
func (w *StatusWorkflow) Single(ctx context.Context, viewer string, id int64, from, target models.Status) error {
	if _, ok := w.ActionFor(from, target); !ok {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move submission %d from %s to %s", id, from, target))
	}
	if err := w.push(ctx, viewer, TransitionRequest{ID: id, From: from}, target); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStatusUpdateFailed.Code, appErrors.ErrStatusUpdateFailed.Status,
			StatusUpdateMessage(err, target))
	}
	return nil
}

// StatusUpdateMessage picks the text shown for a failed update: the backend's
// own message, then the transport error, then a generic line naming target.
func StatusUpdateMessage(err error, target models.Status) string {
	var backendErr *repository.BackendError
	if errors.As(err, &backendErr) && backendErr.ServerMessage != "" {
		return backendErr.ServerMessage
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fmt.Sprintf("Failed to set status to %q.", string(target))
}

func (w *StatusWorkflow) push(ctx context.Context, viewer string, item TransitionRequest, target models.Status) error {
	start := time.Now()
	err := w.backend.UpdateStatus(ctx, item.ID, target)
	w.metrics.ObserveUpstream("update_status", err, time.Since(start))
	w.metrics.RecordTransition(string(target), err)

	w.emitAudit(ctx, viewer, item, target, err)
	if err == nil {
		w.emitEvent(ctx, viewer, item, target)
	}
	return err
}

func (w *StatusWorkflow) emitAudit(ctx context.Context, viewer string, item TransitionRequest, target models.Status, cause error) {
	if w.auditor == nil {
		return
	}
	entry := &models.TransitionAudit{
		SubmissionID: item.ID,
		FromStatus:   item.From,
		ToStatus:     target,
		Viewer:       viewer,
		Outcome:      models.TransitionCommitted,
		CreatedAt:    w.now().UTC(),
	}
	if cause != nil {
		msg := cause.Error()
		entry.Outcome = models.TransitionFailed
		entry.Error = &msg
	}
	if err := w.auditor.Create(ctx, entry); err != nil {
		w.logger.Warn("failed to record transition audit", zap.Int64("submission_id", item.ID), zap.Error(err))
	}
}

func (w *StatusWorkflow) emitEvent(ctx context.Context, viewer string, item TransitionRequest, target models.Status) {
	if w.notifier == nil {
		return
	}
	event := models.TransitionEvent{
		Type:         models.EventStatusChanged,
		SubmissionID: item.ID,
		FromStatus:   item.From,
		ToStatus:     target,
		Viewer:       viewer,
		OccurredAt:   w.now().UTC(),
	}
	if err := w.notifier.Notify(ctx, event); err != nil {
		w.logger.Warn("failed to publish transition", zap.Int64("submission_id", item.ID), zap.Error(err))
	}
}
