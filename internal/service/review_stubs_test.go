package service

import (
	"context"
	"sort"
	"sync"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

type backendStub struct {
	mu          sync.Mutex
	items       []models.Submission
	listErr     error
	details     map[int64]*models.SubmissionDetail
	detailErr   map[int64]error
	updateErr   map[int64]error
	updated     map[int64]models.Status
	detailCalls int
	listGate    chan struct{}
	listEntered chan struct{}
}

func newBackendStub(items ...models.Submission) *backendStub {
	return &backendStub{
		items:     items,
		details:   map[int64]*models.SubmissionDetail{},
		detailErr: map[int64]error{},
		updateErr: map[int64]error{},
		updated:   map[int64]models.Status{},
	}
}

func (b *backendStub) List(ctx context.Context) ([]models.Submission, error) {
	b.mu.Lock()
	gate, entered := b.listGate, b.listEntered
	err := b.listErr
	out := make([]models.Submission, len(b.items))
	copy(out, b.items)
	b.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *backendStub) setList(items []models.Submission, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = items
	b.listErr = err
}

func (b *backendStub) setGate(gate, entered chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listGate = gate
	b.listEntered = entered
}

func (b *backendStub) Detail(_ context.Context, id int64, _ bool) (*models.SubmissionDetail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detailCalls++
	if err := b.detailErr[id]; err != nil {
		return nil, err
	}
	detail, ok := b.details[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	cp := *detail
	if status, ok := b.updated[id]; ok {
		cp.Submission.Status = status
	}
	return &cp, nil
}

func (b *backendStub) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.updateErr[id]; err != nil {
		return err
	}
	b.updated[id] = status
	return nil
}

func (b *backendStub) updatedIDs() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.updated))
	for id := range b.updated {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type auditorStub struct {
	mu      sync.Mutex
	entries []models.TransitionAudit
}

func (a *auditorStub) Create(_ context.Context, entry *models.TransitionAudit) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *entry)
	return nil
}

type notifierStub struct {
	mu     sync.Mutex
	events []models.TransitionEvent
}

func (n *notifierStub) Notify(_ context.Context, event models.TransitionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type lookupStub struct {
	mu     sync.Mutex
	found  map[string]string
	errs   map[string]error
	probed []string
}

func (l *lookupStub) Lookup(_ context.Context, key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.probed = append(l.probed, key)
	if err := l.errs[key]; err != nil {
		return "", err
	}
	if url, ok := l.found[key]; ok {
		return url, nil
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, "no such key")
}

func submission(id int64, status models.Status) models.Submission {
	return models.Submission{
		ID:               id,
		EmployeeName:     "Employee",
		RequestorName:    "Requestor",
		RequestDate:      models.NewDate(2024, 3, 1),
		ServiceWeekStart: models.NewDate(2024, 3, 4),
		Status:           status,
		TotalHours:       models.Hours(40),
	}
}

func kentuckySchedule() []models.ScheduleEntry {
	return []models.ScheduleEntry{{Day: "Mon", Time: "8:00 AM - 4:00 PM", Location: "KY SK Trailer"}}
}

func tennesseeSchedule() []models.ScheduleEntry {
	return []models.ScheduleEntry{{Day: "Mon", Time: "8:00 AM - 4:00 PM", Location: "Nashville Office"}}
}
