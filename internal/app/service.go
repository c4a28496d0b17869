// Package service provides the catalog service that implements
// the dependencies required by the HTTP adapters.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/okian/catbreeds/pkg/logger"
	"github.com/okian/catbreeds/pkg/metrics"
)

// Lookup kinds used for stats and metrics.
const (
	KindList  = "list"
	KindBreed = "breed"
)

const defaultPageSize = 20

// CatSource is the upstream the catalog reads from (catapi.Client).
type CatSource interface {
	FetchCatsByBreed(ctx context.Context, breed string, offset int) ([]cat.Cat, error)
	FetchCatsListByBreed(ctx context.Context, offset int) ([]cat.Cat, error)
}

// Service serves catalog lookups for the site and the JSON API.
type Service struct {
	mu sync.RWMutex

	source   CatSource
	pageSize int

	// upstreamPage is the longest list page the upstream has returned.
	upstreamPage atomic.Int64

	started bool
	logger  logger.Logger

	lookups  [2]atomic.Int64 // indexed by kindIndex
	empty    [2]atomic.Int64
	failures [2]atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPageSize sets the pager step used until the upstream's own page
// length has been seen.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New constructs a Service reading from source.
func New(source CatSource, opts ...Option) *Service {
	s := &Service{
		source:   source,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger, _ = logger.New(io.Discard, logger.FormatText)
	}
	return s
}

// Start marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}
	s.started = true
	s.logger.Info(ctx, "catalog service started", logger.Int("pageSize", s.pageSize))
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

// PageSize returns the list pager step: the upstream's page length once a
// list page has been fetched, the configured size before that.
func (s *Service) PageSize() int {
	if n := s.upstreamPage.Load(); n > 0 {
		return int(n)
	}
	return s.pageSize
}

func (s *Service) observePage(n int) {
	for {
		cur := s.upstreamPage.Load()
		if int64(n) <= cur || s.upstreamPage.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// ListCats returns the list page starting at offset.
func (s *Service) ListCats(ctx context.Context, offset int) (cat.Page, error) {
	if offset < 0 {
		return cat.Page{}, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	cats, err := s.source.FetchCatsListByBreed(ctx, offset)
	s.record(ctx, KindList, len(cats), err)
	if err != nil {
		return cat.Page{}, err
	}

	s.observePage(len(cats))
	step := s.PageSize()
	p := cat.Page{
		Cats:       cats,
		Offset:     offset,
		PageSize:   step,
		PrevOffset: max(offset-step, 0),
		NextOffset: offset + len(cats),
		HasPrev:    offset > 0,
		HasNext:    len(cats) > 0 && len(cats) >= step,
	}
	return p, nil
}

// CatsByBreed returns every record matching name. An empty result is ErrNotFound.
func (s *Service) CatsByBreed(ctx context.Context, name string, offset int) ([]cat.Cat, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	cats, err := s.source.FetchCatsByBreed(ctx, name, offset)
	s.record(ctx, KindBreed, len(cats), err)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return cats, nil
}

func (s *Service) record(ctx context.Context, kind string, n int, err error) {
	i := kindIndex(kind)
	s.lookups[i].Add(1)
	if err != nil {
		s.failures[i].Add(1)
		s.logger.Warn(ctx, "catalog lookup failed", logger.String("kind", kind), logger.Error(err))
		return
	}
	if n == 0 {
		s.empty[i].Add(1)
	}
	metrics.RecordLookup(kind, n == 0)
}

func kindIndex(kind string) int {
	if kind == KindBreed {
		return 1
	}
	return 0
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  started,
		"pageSize": s.PageSize(),
	}
	for _, kind := range []string{KindList, KindBreed} {
		i := kindIndex(kind)
		stats[kind] = map[string]int64{
			"lookups":  s.lookups[i].Load(),
			"empty":    s.empty[i].Load(),
			"failures": s.failures[i].Load(),
		}
	}
	if n, err := metrics.Gather(); err == nil {
		stats["metricFamilies"] = n
	}
	return stats
}
