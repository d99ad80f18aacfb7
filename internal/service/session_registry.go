package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

// SubmissionBackend is the read side of the submissions API.
type SubmissionBackend interface {
	List(ctx context.Context) ([]models.Submission, error)
	Detail(ctx context.Context, id int64, includeURL bool) (*models.SubmissionDetail, error)
}

// SessionDeps are shared by every viewer's sessions.
type SessionDeps struct {
	Backend     SubmissionBackend
	Tagger      *RegionTagger
	Workflow    *StatusWorkflow
	Documents   *DocumentService
	Preferences *PreferencesService
	Dashboard   DashboardConfig
}

type viewerSessions struct {
	dashboard *DashboardSession
	worklog   *WorkLogSession
}

// SessionRegistry hands out one dashboard and one work-log session per viewer.
type SessionRegistry struct {
	deps      SessionDeps
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*viewerSessions
}

// NewSessionRegistry constructs the registry.
func NewSessionRegistry(deps SessionDeps, validate *validator.Validate, logger *zap.Logger) *SessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	r := &SessionRegistry{
		deps:      deps,
		validator: validate,
		logger:    logger,
		sessions:  make(map[string]*viewerSessions),
	}
	r.validator.RegisterValidation("review_status", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
		case "approved", "sent", "confirmed", "deleted":
			return true
		}
		return false
	})
	r.validator.RegisterValidation("review_action", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseAction(fl.Field().String())
		return ok
	})
	return r
}

// Validate checks a request payload.
func (r *SessionRegistry) Validate(v interface{}) error {
	if err := r.validator.Struct(v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return nil
}

// Dashboard returns the viewer's dashboard session, creating it on first use.
func (r *SessionRegistry) Dashboard(viewer string) *DashboardSession {
	return r.get(viewer).dashboard
}

// WorkLog returns the viewer's work-log session, creating it on first use.
func (r *SessionRegistry) WorkLog(viewer string) *WorkLogSession {
	return r.get(viewer).worklog
}

// Forget closes and drops the viewer's sessions.
func (r *SessionRegistry) Forget(viewer string) {
	r.mu.Lock()
	vs, ok := r.sessions[viewer]
	delete(r.sessions, viewer)
	r.mu.Unlock()
	if ok {
		vs.close()
	}
}

// Sweep drops sessions untouched for longer than maxIdle and returns how many viewers were evicted.
func (r *SessionRegistry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var evicted []*viewerSessions
	for viewer, vs := range r.sessions {
		if vs.dashboard.IdleSince().Before(cutoff) && vs.worklog.IdleSince().Before(cutoff) {
			evicted = append(evicted, vs)
			delete(r.sessions, viewer)
		}
	}
	r.mu.Unlock()

	for _, vs := range evicted {
		vs.close()
	}
	if len(evicted) > 0 {
		r.logger.Debug("evicted idle review sessions", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// Close closes every session.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*viewerSessions)
	r.mu.Unlock()
	for _, vs := range sessions {
		vs.close()
	}
}

func (r *SessionRegistry) get(viewer string) *viewerSessions {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vs, ok := r.sessions[viewer]; ok {
		return vs
	}

	d := r.deps
	dashboard := NewDashboardSession(viewer, d.Backend, d.Tagger, d.Workflow, d.Dashboard, r.logger)
	worklog := NewWorkLogSession(viewer, d.Backend, d.Tagger, d.Workflow, d.Documents, d.Preferences, r.logger)
	worklog.OnCommitted(dashboard.Reconcile)

	vs := &viewerSessions{dashboard: dashboard, worklog: worklog}
	r.sessions[viewer] = vs
	return vs
}

func (vs *viewerSessions) close() {
	vs.dashboard.Close()
	vs.worklog.Close()
}
