package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/schedule"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

const detailLoadFailedMessage = "Failed to load work log details."

type workLogState struct {
	id         int64
	loaded     bool
	loadErr    string
	detail     models.SubmissionDetail
	status     models.Status
	region     models.Region
	summary    schedule.Summary
	previewURL string
	previewErr string
	actionErr  string
}

// WorkLogSession is one reviewer's detail view of a single submission.
type WorkLogSession struct {
	viewer      string
	backend     detailFetcher
	tagger      *RegionTagger
	workflow    *StatusWorkflow
	documents   *DocumentService
	prefs       *PreferencesService
	onCommitted func(id int64, status models.Status)
	logger      *zap.Logger

	state      atomic.Pointer[workLogState]
	mu         sync.Mutex
	generation atomic.Uint64
	closed     atomic.Bool
	updating   atomic.Bool
	lastUsed   atomic.Int64
}

// NewWorkLogSession constructs an empty session. documents may be nil when
// the backend always supplies preview URLs.
func NewWorkLogSession(viewer string, backend detailFetcher, tagger *RegionTagger, workflow *StatusWorkflow, documents *DocumentService, prefs *PreferencesService, logger *zap.Logger) *WorkLogSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WorkLogSession{
		viewer:    viewer,
		backend:   backend,
		tagger:    tagger,
		workflow:  workflow,
		documents: documents,
		prefs:     prefs,
		logger:    logger.With(zap.String("viewer", viewer)),
	}
	s.state.Store(&workLogState{})
	s.touch()
	return s
}

// OnCommitted registers a hook run after a status change is accepted by the backend.
func (s *WorkLogSession) OnCommitted(fn func(id int64, status models.Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommitted = fn
}

// Load fetches submission id. An id of 0 reopens the last viewed submission.
func (s *WorkLogSession) Load(ctx context.Context, id int64) error {
	s.touch()
	if id <= 0 {
		id = s.prefs.LastSubmission(ctx, s.viewer)
	}
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no submission selected")
	}

	gen := s.generation.Add(1)
	detail, err := s.backend.Detail(ctx, id, true)
	if err != nil {
		s.logger.Warn("failed to load work log", zap.Int64("submission_id", id), zap.Error(err))
		s.commit(gen, func(st *workLogState) {
			*st = workLogState{id: id, loadErr: detailLoadFailedMessage}
		})
		return err
	}

	region := s.tagger.Classify(detail.Schedule)
	s.tagger.Remember(ctx, id, detail.Schedule)

	previewURL, previewErr := detail.PreviewURL, ""
	if previewURL == "" && detail.Submission.PDFFilename != "" && s.documents != nil {
		link, err := s.documents.Resolve(ctx, detail.Submission.PDFFilename)
		if err != nil {
			previewErr = appErrors.FromError(err).Message
		} else {
			previewURL = link.URL
		}
	}

	summary := schedule.Aggregate(detail.Schedule, detail.Submission.ServiceWeekStart.Time, detail.Submission.TotalHours)

	committed := s.commit(gen, func(st *workLogState) {
		*st = workLogState{
			id:         id,
			loaded:     true,
			detail:     *detail,
			status:     detail.Submission.Status,
			region:     region,
			summary:    summary,
			previewURL: previewURL,
			previewErr: previewErr,
		}
	})
	if !committed {
		s.logger.Debug("discarded superseded work log load", zap.Int64("submission_id", id))
		return nil
	}
	s.prefs.RememberWorkLog(ctx, s.viewer, id, region)
	return nil
}

// UpdateStatus moves the loaded submission to target. The new status is shown
// immediately and reverted if the backend rejects it; a successful change is
// followed by a reload.
func (s *WorkLogSession) UpdateStatus(ctx context.Context, target models.Status) error {
	s.touch()
	if !s.updating.CompareAndSwap(false, true) {
		return appErrors.Clone(appErrors.ErrConflict, "a status update is already in progress")
	}
	defer s.updating.Store(false)

	st := s.state.Load()
	if !st.loaded {
		return appErrors.Clone(appErrors.ErrValidation, "no work log loaded")
	}
	id, previous := st.id, st.status
	if _, ok := s.workflow.ActionFor(previous, target); !ok {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move submission %d from %s to %s", id, previous, target))
	}

	s.update(id, func(next *workLogState) {
		next.status = target
		next.actionErr = ""
	})

	if err := s.workflow.Single(ctx, s.viewer, id, previous, target); err != nil {
		msg := appErrors.FromError(err).Message
		s.update(id, func(next *workLogState) {
			next.status = previous
			next.actionErr = msg
		})
		return err
	}

	s.mu.Lock()
	hook := s.onCommitted
	s.mu.Unlock()
	if hook != nil {
		hook(id, target)
	}

	if err := s.Load(ctx, id); err != nil {
		s.logger.Warn("reload after status update failed", zap.Int64("submission_id", id), zap.Error(err))
	}
	if target == models.StatusDeleted {
		s.tagger.Forget(ctx, id)
	}
	return nil
}

// View renders the current snapshot.
func (s *WorkLogSession) View() dto.WorkLogView {
	st := s.state.Load()
	view := dto.WorkLogView{
		ID:           st.id,
		Loaded:       st.loaded,
		Error:        st.loadErr,
		PreviewURL:   st.previewURL,
		PreviewError: st.previewErr,
		ActionError:  st.actionErr,
		Updating:     s.updating.Load(),
		Rows:         []schedule.Row{},
		Series:       []schedule.Point{},
		Actions:      []models.Action{},
	}
	if !st.loaded {
		return view
	}

	sub := st.detail.Submission
	view.EmployeeName = sub.EmployeeName
	view.RequestorName = sub.RequestorName
	view.RequestDate = sub.RequestDate.String()
	view.ServiceWeekStart = sub.ServiceWeekStart.String()
	view.ServiceWeekEnd = sub.WeekEnd().String()
	view.Status = st.status
	view.StatusName = st.status.DisplayName()
	view.Region = st.region
	view.Rows = st.summary.Rows
	view.TotalHours = st.summary.TotalHours
	view.TotalHoursText = models.Hours(st.summary.TotalHours).Format()
	view.MissedDays = st.summary.MissedDays
	view.Series = st.summary.Series
	view.Actions = s.workflow.AllowedActions(st.status)
	return view
}

// Close stops in-flight loads and updates from publishing into the session.
func (s *WorkLogSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed.Store(true)
}

// IdleSince reports when the session was last used.
func (s *WorkLogSession) IdleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// update mutates a copy of the snapshot if it still shows submission id.
func (s *WorkLogSession) update(id int64, fn func(*workLogState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.state.Load()
	if s.closed.Load() || current.id != id {
		return false
	}
	next := *current
	fn(&next)
	s.state.Store(&next)
	return true
}

func (s *WorkLogSession) commit(gen uint64, fn func(*workLogState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() || s.generation.Load() != gen {
		return false
	}
	next := *s.state.Load()
	fn(&next)
	s.state.Store(&next)
	return true
}

func (s *WorkLogSession) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}
