package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hkwon327/timesheet-dashboard/internal/models"
	"github.com/hkwon327/timesheet-dashboard/internal/schedule"
)

const defaultTagConcurrency = 8

type detailFetcher interface {
	Detail(ctx context.Context, id int64, includeURL bool) (*models.SubmissionDetail, error)
}

// RegionTagger attributes submissions to a region from their schedules.
type RegionTagger struct {
	backend     detailFetcher
	cache       *CacheService
	metrics     *MetricsService
	marker      string
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
}

// RegionTaggerOption configures the tagger.
type RegionTaggerOption func(*RegionTagger)

// WithScheduleCache caches fetched schedules; submitted schedules never change.
func WithScheduleCache(cache *CacheService, ttl time.Duration) RegionTaggerOption {
	return func(t *RegionTagger) {
		t.cache = cache
		t.ttl = ttl
	}
}

// WithTaggerMetrics counts fallbacks.
func WithTaggerMetrics(metrics *MetricsService) RegionTaggerOption {
	return func(t *RegionTagger) {
		t.metrics = metrics
	}
}

// WithTagConcurrency caps the number of detail fetches in flight.
func WithTagConcurrency(n int) RegionTaggerOption {
	return func(t *RegionTagger) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// NewRegionTagger constructs the tagger for the given location marker.
func NewRegionTagger(backend detailFetcher, marker string, logger *zap.Logger, opts ...RegionTaggerOption) *RegionTagger {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &RegionTagger{backend: backend, marker: marker, concurrency: defaultTagConcurrency, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Classify applies the region rule to a schedule.
func (t *RegionTagger) Classify(entries []models.ScheduleEntry) models.Region {
	return schedule.ClassifyRegion(entries, t.marker)
}

// Tag returns a copy of items with Region set. Schedules are fetched
// concurrently; a row whose fetch fails is tagged Tennessee and the rest
// are unaffected.
func (t *RegionTagger) Tag(ctx context.Context, items []models.Submission) []models.Submission {
	tagged := make([]models.Submission, len(items))
	copy(tagged, items)

	var g errgroup.Group
	g.SetLimit(t.concurrency)
	for i := range tagged {
		i := i
		g.Go(func() error {
			entries, err := t.Schedule(ctx, tagged[i].ID)
			if err != nil {
				t.metrics.RecordRegionFallback()
				t.logger.Warn("region tagging fell back to default",
					zap.Int64("submission_id", tagged[i].ID), zap.Error(err))
				tagged[i].Region = models.RegionTennessee
				return nil
			}
			tagged[i].Region = t.Classify(entries)
			return nil
		})
	}
	_ = g.Wait()

	return tagged
}

// Schedule returns a submission's schedule, from cache when possible.
func (t *RegionTagger) Schedule(ctx context.Context, id int64) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	if hit, _ := t.cache.Get(ctx, scheduleCacheKey(id), &entries); hit {
		return entries, nil
	}

	start := time.Now()
	detail, err := t.backend.Detail(ctx, id, false)
	t.metrics.ObserveUpstream("detail", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	t.Remember(ctx, id, detail.Schedule)
	return detail.Schedule, nil
}

// Remember stores a schedule fetched elsewhere so the next tagging pass can reuse it.
func (t *RegionTagger) Remember(ctx context.Context, id int64, entries []models.ScheduleEntry) {
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	_ = t.cache.Set(ctx, scheduleCacheKey(id), entries, t.ttl)
}

// Forget drops cached schedules, used once submissions are deleted.
func (t *RegionTagger) Forget(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = scheduleCacheKey(id)
	}
	_ = t.cache.Invalidate(ctx, keys...)
}

func scheduleCacheKey(id int64) string {
	return fmt.Sprintf("review:schedule:%d", id)
}
