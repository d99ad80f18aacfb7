package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
)

const (
	prefsKeyPrefix = "review:prefs:"
	prefsTTL       = 90 * 24 * time.Hour

	fieldRegion         = "app_region"
	fieldStatus         = "app_status"
	fieldLastSubmission = "last_form_id"
	fieldDetectedRegion = "detected_region"
	fieldLastDetected   = "last_detected_region"
)

// PreferencesRepository keeps each viewer's last dashboard view in a Redis hash.
type PreferencesRepository struct {
	client *redis.Client
}

// NewPreferencesRepository constructs the repository.
func NewPreferencesRepository(client *redis.Client) *PreferencesRepository {
	return &PreferencesRepository{client: client}
}

// Get loads the stored preferences; an unknown viewer yields the zero value.
func (r *PreferencesRepository) Get(ctx context.Context, viewer string) (models.ViewPreferences, error) {
	values, err := r.client.HGetAll(ctx, prefsKeyPrefix+viewer).Result()
	if err != nil {
		return models.ViewPreferences{}, fmt.Errorf("redis hgetall prefs %s: %w", viewer, err)
	}
	return decodePreferences(values), nil
}

// Set overwrites the stored preferences. Empty fields are removed.
func (r *PreferencesRepository) Set(ctx context.Context, viewer string, prefs models.ViewPreferences) error {
	key := prefsKeyPrefix + viewer
	fields, empty := encodePreferences(prefs)

	pipe := r.client.TxPipeline()
	if len(empty) > 0 {
		pipe.HDel(ctx, key, empty...)
	}
	if len(fields) > 0 {
		pipe.HSet(ctx, key, fields)
	}
	pipe.Expire(ctx, key, prefsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save prefs %s: %w", viewer, err)
	}
	return nil
}

// Clear forgets everything stored for the viewer.
func (r *PreferencesRepository) Clear(ctx context.Context, viewer string) error {
	if err := r.client.Del(ctx, prefsKeyPrefix+viewer).Err(); err != nil {
		return fmt.Errorf("redis clear prefs %s: %w", viewer, err)
	}
	return nil
}

func encodePreferences(prefs models.ViewPreferences) (map[string]interface{}, []string) {
	fields := map[string]interface{}{}
	var empty []string

	set := func(name, value string) {
		if value == "" {
			empty = append(empty, name)
			return
		}
		fields[name] = value
	}

	set(fieldRegion, string(prefs.Region))
	set(fieldStatus, string(prefs.Status))
	set(fieldDetectedRegion, string(prefs.DetectedRegion))
	set(fieldLastDetected, string(prefs.LastDetectedRegion))
	if prefs.LastSubmissionID > 0 {
		fields[fieldLastSubmission] = strconv.FormatInt(prefs.LastSubmissionID, 10)
	} else {
		empty = append(empty, fieldLastSubmission)
	}
	return fields, empty
}

func decodePreferences(values map[string]string) models.ViewPreferences {
	var prefs models.ViewPreferences
	if region, ok := models.ParseRegion(values[fieldRegion]); ok {
		prefs.Region = region
	}
	if tab, ok := models.ParseTab(values[fieldStatus]); ok {
		prefs.Status = tab
	}
	if region, ok := models.ParseRegion(values[fieldDetectedRegion]); ok {
		prefs.DetectedRegion = region
	}
	if region, ok := models.ParseRegion(values[fieldLastDetected]); ok {
		prefs.LastDetectedRegion = region
	}
	if id, err := strconv.ParseInt(values[fieldLastSubmission], 10, 64); err == nil && id > 0 {
		prefs.LastSubmissionID = id
	}
	return prefs
}

// MemoryPreferencesStore keeps preferences in process memory.
type MemoryPreferencesStore struct {
	mu    sync.RWMutex
	prefs map[string]models.ViewPreferences
}

// NewMemoryPreferencesStore constructs an empty store.
func NewMemoryPreferencesStore() *MemoryPreferencesStore {
	return &MemoryPreferencesStore{prefs: make(map[string]models.ViewPreferences)}
}

func (s *MemoryPreferencesStore) Get(_ context.Context, viewer string) (models.ViewPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs[viewer], nil
}

func (s *MemoryPreferencesStore) Set(_ context.Context, viewer string, prefs models.ViewPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[viewer] = prefs
	return nil
}

func (s *MemoryPreferencesStore) Clear(_ context.Context, viewer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, viewer)
	return nil
}
