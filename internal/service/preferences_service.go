package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

// ViewPreferencesStore persists per-viewer view preferences.
type ViewPreferencesStore interface {
	Get(ctx context.Context, viewer string) (models.ViewPreferences, error)
	Set(ctx context.Context, viewer string, prefs models.ViewPreferences) error
	Clear(ctx context.Context, viewer string) error
}

// ResolveView decides which dashboard view to show.
//
// Region: URL, then stored, then detected, then fallback.
// Status: URL; otherwise pending when the detected region differs from the
// one the dashboard last acted on; otherwise stored; otherwise pending.
// Redirect is set when either URL value was missing or unrecognised.
func ResolveView(urlRegion, urlStatus string, stored models.ViewPreferences, detected, fallback models.Region) models.ViewDecision {
	var decision models.ViewDecision

	region, regionOK := models.ParseRegion(urlRegion)
	switch {
	case regionOK:
		decision.Region = region
	case stored.Region != "":
		decision.Region = stored.Region
	case detected != "":
		decision.Region = detected
	case fallback != "":
		decision.Region = fallback
	default:
		decision.Region = models.RegionKentucky
	}

	status, statusOK := models.ParseTab(urlStatus)
	switch {
	case statusOK:
		decision.Status = status
	case detected != "" && stored.LastDetectedRegion != "" && detected != stored.LastDetectedRegion:
		decision.Status = models.TabPending
	case stored.Status != "":
		decision.Status = stored.Status
	default:
		decision.Status = models.TabPending
	}

	decision.Redirect = !regionOK || !statusOK
	return decision
}

// PreferencesService wraps the store with the view resolution rules.
type PreferencesService struct {
	store         ViewPreferencesStore
	defaultRegion models.Region
	logger        *zap.Logger
}

// NewPreferencesService constructs the service.
func NewPreferencesService(store ViewPreferencesStore, defaultRegion models.Region, logger *zap.Logger) *PreferencesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, ok := models.ParseRegion(string(defaultRegion)); !ok {
		defaultRegion = models.RegionKentucky
	}
	return &PreferencesService{store: store, defaultRegion: defaultRegion, logger: logger}
}

// Get returns the viewer's stored preferences. Store failures yield the zero value.
func (s *PreferencesService) Get(ctx context.Context, viewer string) models.ViewPreferences {
	prefs, err := s.store.Get(ctx, viewer)
	if err != nil {
		s.logger.Warn("failed to read view preferences", zap.String("viewer", viewer), zap.Error(err))
		return models.ViewPreferences{}
	}
	return prefs
}

// Resolve picks the dashboard view for the request and remembers it.
func (s *PreferencesService) Resolve(ctx context.Context, viewer, urlRegion, urlStatus string) models.ViewDecision {
	prefs := s.Get(ctx, viewer)
	decision := ResolveView(urlRegion, urlStatus, prefs, prefs.DetectedRegion, s.defaultRegion)

	prefs.Region = decision.Region
	prefs.Status = decision.Status
	if prefs.DetectedRegion != "" {
		prefs.LastDetectedRegion = prefs.DetectedRegion
	}
	s.save(ctx, viewer, prefs)
	return decision
}

// RememberWorkLog records the last opened submission and its detected region.
func (s *PreferencesService) RememberWorkLog(ctx context.Context, viewer string, id int64, region models.Region) {
	prefs := s.Get(ctx, viewer)
	prefs.LastSubmissionID = id
	if region != "" {
		prefs.DetectedRegion = region
	}
	s.save(ctx, viewer, prefs)
}

// LastSubmission returns the last opened submission, or 0.
func (s *PreferencesService) LastSubmission(ctx context.Context, viewer string) int64 {
	return s.Get(ctx, viewer).LastSubmissionID
}

// Clear forgets the viewer's preferences.
func (s *PreferencesService) Clear(ctx context.Context, viewer string) error {
	return s.store.Clear(ctx, viewer)
}

func (s *PreferencesService) save(ctx context.Context, viewer string, prefs models.ViewPreferences) {
	if err := s.store.Set(ctx, viewer, prefs); err != nil {
		s.logger.Warn("failed to save view preferences", zap.String("viewer", viewer), zap.Error(err))
	}
}
