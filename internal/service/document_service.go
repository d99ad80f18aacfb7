package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hkwon327/timesheet-dashboard/internal/dto"
	appErrors "github.com/hkwon327/timesheet-dashboard/pkg/errors"
)

// DocumentLookup resolves one storage key to a URL. A missing key must be
// reported with an error matching appErrors.ErrNotFound.
type DocumentLookup interface {
	Lookup(ctx context.Context, key string) (string, error)
}

type probeResult int

const (
	probeHit probeResult = iota
	probeMiss
	probeFatal
)

func (r probeResult) String() string {
	switch r {
	case probeHit:
		return "hit"
	case probeMiss:
		return "miss"
	}
	return "error"
}

func classifyProbe(err error) probeResult {
	switch {
	case err == nil:
		return probeHit
	case errors.Is(err, appErrors.ErrNotFound):
		return probeMiss
	}
	return probeFatal
}

// DocumentService finds stored PDFs whose names drifted between spaces and underscores.
type DocumentService struct {
	lookup  DocumentLookup
	prefix  string
	metrics *MetricsService
	logger  *zap.Logger
}

// NewDocumentService constructs the service. prefix is the storage folder tried after bare names.
func NewDocumentService(lookup DocumentLookup, prefix string, metrics *MetricsService, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{lookup: lookup, prefix: prefix, metrics: metrics, logger: logger}
}

// Candidates lists the keys to probe for name, first to last: the name as
// stored, with underscores as spaces, with spaces as underscores, then the
// same three under the prefix. Duplicates are dropped.
func (s *DocumentService) Candidates(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	variants := []string{
		name,
		strings.ReplaceAll(name, "_", " "),
		strings.ReplaceAll(name, " ", "_"),
	}

	out := make([]string, 0, len(variants)*2)
	seen := make(map[string]struct{}, len(variants)*2)
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	for _, v := range variants {
		add(v)
	}
	if s.prefix != "" {
		for _, v := range variants {
			if strings.HasPrefix(v, s.prefix) {
				add(v)
				continue
			}
			add(s.prefix + v)
		}
	}
	return out
}

// Resolve probes the candidates in order and returns the first that resolves.
// A missing candidate moves on to the next one; any other failure stops the
// search.
func (s *DocumentService) Resolve(ctx context.Context, name string) (*dto.DocumentLink, error) {
	candidates := s.Candidates(name)
	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document name is required")
	}

	probes := 0
	defer func() { s.metrics.ObserveDocumentResolve(probes) }()

	for _, key := range candidates {
		probes++
		url, err := s.lookup.Lookup(ctx, key)
		result := classifyProbe(err)
		s.metrics.RecordDocumentProbe(result.String())

		switch result {
		case probeHit:
			return &dto.DocumentLink{Filename: name, Key: key, URL: url, Probes: probes}, nil
		case probeMiss:
			continue
		default:
			s.logger.Warn("document lookup failed", zap.String("key", key), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrDocumentLookupFailed.Code, appErrors.ErrDocumentLookupFailed.Status,
				fmt.Sprintf("document lookup failed for %q", key))
		}
	}

	return nil, appErrors.Clone(appErrors.ErrDocumentNotFound, fmt.Sprintf("document %q not found", name))
}
