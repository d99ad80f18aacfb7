package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	"github.com/hkwon327/timesheet-dashboard/internal/models"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

const loadFailedMessage = "Failed to load submissions"

type submissionLister interface {
	List(ctx context.Context) ([]models.Submission, error)
}

var tabActions = map[models.Tab][]models.Action{
	models.TabPending:  {models.ActionApprove, models.ActionDelete},
	models.TabApproved: {models.ActionSend, models.ActionDelete},
	models.TabSent:     {models.ActionDelete},
}

// DashboardConfig tunes dashboard listing.
type DashboardConfig struct {
	PageSize         int
	ShowDeletedInAll bool
	DefaultRegion    models.Region
}

type dashboardState struct {
	items    []models.Submission
	loaded   bool
	loadErr  string
	loadedAt time.Time
	region   models.Region
	tab      models.Tab
	page     int
	selected map[int64]struct{}
}

func (st *dashboardState) clone() *dashboardState {
	next := *st
	next.selected = make(map[int64]struct{}, len(st.selected))
	for id := range st.selected {
		next.selected[id] = struct{}{}
	}
	return &next
}

// DashboardSession is one reviewer's dashboard. Every change publishes a new
// immutable snapshot, so View never sees a half-applied update.
type DashboardSession struct {
	viewer   string
	backend  submissionLister
	tagger   *RegionTagger
	workflow *StatusWorkflow
	cfg      DashboardConfig
	logger   *zap.Logger
	now      func() time.Time

	state      atomic.Pointer[dashboardState]
	mu         sync.Mutex
	generation atomic.Uint64
	closed     atomic.Bool
	applying   atomic.Bool
	lastUsed   atomic.Int64
}

// NewDashboardSession constructs a session showing the default region's pending tab.
func NewDashboardSession(viewer string, backend submissionLister, tagger *RegionTagger, workflow *StatusWorkflow, cfg DashboardConfig, logger *zap.Logger) *DashboardSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = models.RegionKentucky
	}
	s := &DashboardSession{
		viewer:   viewer,
		backend:  backend,
		tagger:   tagger,
		workflow: workflow,
		cfg:      cfg,
		logger:   logger.With(zap.String("viewer", viewer)),
		now:      time.Now,
	}
	s.state.Store(&dashboardState{
		region:   cfg.DefaultRegion,
		tab:      models.TabPending,
		page:     1,
		selected: map[int64]struct{}{},
	})
	s.touch()
	return s
}

// Load fetches and region-tags the working set. A load that has been
// superseded by a newer one, or finishes after Close, is discarded.
func (s *DashboardSession) Load(ctx context.Context) error {
	s.touch()
	gen := s.generation.Add(1)

	items, err := s.backend.List(ctx)
	if err != nil {
		s.logger.Warn("failed to load submissions", zap.Error(err))
		s.commit(gen, func(st *dashboardState) {
			st.items = nil
			st.loaded = false
			st.loadErr = loadFailedMessage
		})
		return err
	}

	tagged := s.tagger.Tag(ctx, items)
	if !s.commit(gen, func(st *dashboardState) {
		st.items = tagged
		st.loaded = true
		st.loadErr = ""
		st.loadedAt = s.now().UTC()
		present := make(map[int64]struct{}, len(tagged))
		for _, item := range tagged {
			present[item.ID] = struct{}{}
		}
		for id := range st.selected {
			if _, ok := present[id]; !ok {
				delete(st.selected, id)
			}
		}
	}) {
		s.logger.Debug("discarded superseded dashboard load")
	}
	return nil
}

// SetView switches region and tab. A change clears the selection and returns to page 1.
func (s *DashboardSession) SetView(region models.Region, tab models.Tab) {
	s.touch()
	s.update(func(st *dashboardState) {
		if st.region == region && st.tab == tab {
			return
		}
		st.region = region
		st.tab = tab
		st.page = 1
		st.selected = map[int64]struct{}{}
	})
}

// SetPage moves to page; View clamps it to the available pages.
func (s *DashboardSession) SetPage(page int) {
	s.touch()
	s.update(func(st *dashboardState) {
		if page < 1 {
			page = 1
		}
		st.page = page
	})
}

// Toggle flips the selection of submissions in the current tab.
func (s *DashboardSession) Toggle(ids ...int64) error {
	return s.changeSelection(ids, func(selected map[int64]struct{}, id int64) {
		if _, ok := selected[id]; ok {
			delete(selected, id)
			return
		}
		selected[id] = struct{}{}
	})
}

// Select sets the selection of submissions in the current tab to checked.
func (s *DashboardSession) Select(ids []int64, checked bool) error {
	return s.changeSelection(ids, func(selected map[int64]struct{}, id int64) {
		if checked {
			selected[id] = struct{}{}
			return
		}
		delete(selected, id)
	})
}

// ToggleAll selects or unselects every submission in the current tab.
func (s *DashboardSession) ToggleAll(checked bool) {
	s.touch()
	s.update(func(st *dashboardState) {
		for _, item := range s.filtered(st) {
			if checked {
				st.selected[item.ID] = struct{}{}
			} else {
				delete(st.selected, item.ID)
			}
		}
	})
}

// ClearSelection empties the selection.
func (s *DashboardSession) ClearSelection() {
	s.touch()
	s.update(func(st *dashboardState) {
		st.selected = map[int64]struct{}{}
	})
}

// Apply runs action on the selected submissions of the current tab. Local
// state only changes once every backend update has succeeded.
func (s *DashboardSession) Apply(ctx context.Context, action models.Action) (*dto.BulkActionResult, error) {
	s.touch()
	if !s.applying.CompareAndSwap(false, true) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a bulk action is already in progress")
	}
	defer s.applying.Store(false)

	st := s.state.Load()
	if !st.loaded {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submissions are not loaded")
	}
	target, ok := TargetOf(action)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown action %q", action))
	}
	if st.tab != models.TabAll && !containsAction(tabActions[st.tab], action) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("%s is not available on the %s tab", action, st.tab))
	}

	selected := s.selectedInTab(st)
	if len(selected) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no submissions selected")
	}

	requests := make([]TransitionRequest, len(selected))
	ids := make([]int64, len(selected))
	for i, item := range selected {
		requests[i] = TransitionRequest{ID: item.ID, From: item.Status}
		ids[i] = item.ID
	}

	if err := s.workflow.Bulk(ctx, s.viewer, requests, target); err != nil {
		return nil, err
	}
	if target == models.StatusDeleted {
		s.tagger.Forget(ctx, ids...)
	}

	affected := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		affected[id] = struct{}{}
	}
	s.update(func(next *dashboardState) {
		items := make([]models.Submission, 0, len(next.items))
		for _, item := range next.items {
			if _, ok := affected[item.ID]; ok {
				if target == models.StatusDeleted {
					continue
				}
				item.Status = target
			}
			items = append(items, item)
		}
		next.items = items
		for id := range affected {
			delete(next.selected, id)
		}
	})

	return &dto.BulkActionResult{Action: action, Target: target, IDs: ids}, nil
}

// Reconcile reflects a transition committed outside the dashboard.
func (s *DashboardSession) Reconcile(id int64, status models.Status) {
	s.update(func(st *dashboardState) {
		items := make([]models.Submission, 0, len(st.items))
		for _, item := range st.items {
			if item.ID == id {
				if status == models.StatusDeleted {
					delete(st.selected, id)
					continue
				}
				item.Status = status
			}
			items = append(items, item)
		}
		st.items = items
	})
}

// View renders the current snapshot.
func (s *DashboardSession) View() dto.DashboardView {
	st := s.state.Load()

	view := dto.DashboardView{
		Loaded:       st.loaded,
		Error:        st.loadErr,
		Region:       st.region,
		RegionName:   st.region.DisplayName(),
		Status:       st.tab,
		Title:        st.tab.Title(),
		RegionCounts: map[models.Region]int{},
		StatusCounts: map[models.Tab]int{},
		Rows:         []dto.DashboardRow{},
		SelectedIDs:  []int64{},
	}
	if !st.loadedAt.IsZero() {
		loadedAt := st.loadedAt
		view.LoadedAt = &loadedAt
	}
	for _, region := range models.Regions {
		view.RegionCounts[region] = 0
	}
	for _, tab := range models.Tabs {
		view.StatusCounts[tab] = 0
	}

	for _, item := range st.items {
		view.RegionCounts[item.Region]++
		if item.Region != st.region {
			continue
		}
		for _, tab := range models.Tabs {
			if tab.Includes(item.Status, s.cfg.ShowDeletedInAll) {
				view.StatusCounts[tab]++
			}
		}
	}

	filtered := s.filtered(st)
	pagination, start, end := models.Paginate(st.page, s.cfg.PageSize, len(filtered))
	view.Pagination = pagination

	for _, item := range filtered[start:end] {
		_, selected := st.selected[item.ID]
		view.Rows = append(view.Rows, s.row(item, selected))
	}

	selected := s.selectedInTab(st)
	for _, item := range selected {
		view.SelectedIDs = append(view.SelectedIDs, item.ID)
	}
	sort.Slice(view.SelectedIDs, func(i, j int) bool { return view.SelectedIDs[i] < view.SelectedIDs[j] })
	view.SelectedInTab = len(selected)
	view.AllSelected = len(filtered) > 0 && len(selected) == len(filtered)
	view.Actions = s.viewActions(st.tab, selected)

	return view
}

// Close stops any in-flight load from publishing its result.
func (s *DashboardSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed.Store(true)
}

// IdleSince reports when the session was last used.
func (s *DashboardSession) IdleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *DashboardSession) row(item models.Submission, selected bool) dto.DashboardRow {
	week := ""
	if !item.ServiceWeekStart.IsZero() {
		week = item.ServiceWeekStart.MonthDay() + " - " + item.WeekEnd().MonthDay()
	}
	return dto.DashboardRow{
		ID:            item.ID,
		EmployeeName:  item.EmployeeName,
		RequestorName: item.RequestorName,
		RequestDate:   item.RequestDate.MonthDay(),
		ServiceWeek:   week,
		Status:        item.Status,
		StatusName:    item.Status.DisplayName(),
		Region:        item.Region,
		Hours:         item.TotalHours.Format(),
		Selected:      selected,
		Actions:       s.workflow.AllowedActions(item.Status),
	}
}

func (s *DashboardSession) viewActions(tab models.Tab, selected []models.Submission) []models.Action {
	if tab != models.TabAll {
		return append([]models.Action(nil), tabActions[tab]...)
	}
	allowed := map[models.Action]bool{}
	for _, item := range selected {
		for _, action := range s.workflow.AllowedActions(item.Status) {
			allowed[action] = true
		}
	}
	actions := []models.Action{}
	for _, action := range actionOrder {
		if allowed[action] {
			actions = append(actions, action)
		}
	}
	return actions
}

func (s *DashboardSession) filtered(st *dashboardState) []models.Submission {
	out := make([]models.Submission, 0, len(st.items))
	for _, item := range st.items {
		if item.Region == st.region && st.tab.Includes(item.Status, s.cfg.ShowDeletedInAll) {
			out = append(out, item)
		}
	}
	return out
}

func (s *DashboardSession) selectedInTab(st *dashboardState) []models.Submission {
	var out []models.Submission
	for _, item := range s.filtered(st) {
		if _, ok := st.selected[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}

func (s *DashboardSession) changeSelection(ids []int64, apply func(map[int64]struct{}, int64)) error {
	s.touch()
	var err error
	s.update(func(st *dashboardState) {
		inTab := make(map[int64]struct{})
		for _, item := range s.filtered(st) {
			inTab[item.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := inTab[id]; !ok {
				err = appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("submission %d is not in the %s %s tab", id, st.region, st.tab))
				return
			}
		}
		for _, id := range ids {
			apply(st.selected, id)
		}
	})
	return err
}

// update applies fn to a copy of the current snapshot and publishes it.
func (s *DashboardSession) update(fn func(*dashboardState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	next := s.state.Load().clone()
	fn(next)
	s.state.Store(next)
	return true
}

// commit is update gated on gen still being the latest load.
func (s *DashboardSession) commit(gen uint64, fn func(*dashboardState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() || s.generation.Load() != gen {
		return false
	}
	next := s.state.Load().clone()
	fn(next)
	s.state.Store(next)
	return true
}

func (s *DashboardSession) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

func containsAction(actions []models.Action, action models.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
