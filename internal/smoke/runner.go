package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/catbreeds/pkg/logger"
)

// Checks returns the route set for one round: the three views, the JSON
// list, and both detail routes for every breed.
func Checks(breeds []string) []Check {
	ps := []Check{
		{Path: "/", Accept: viewStatuses},
		{Path: "/cats", Accept: viewStatuses},
		{Path: "/api/cats", Accept: viewStatuses},
	}
	for _, b := range breeds {
		esc := url.PathEscape(b)
		ps = append(ps,
			Check{Path: "/cats/" + esc, Accept: lookupStatuses},
			Check{Path: "/api/cats/" + esc, Accept: lookupStatuses},
		)
	}
	return ps
}

// Run checks /healthz and then sends every check Rounds times using Workers
// goroutines. It fails when any check got an unexpected status.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	client := &http.Client{Timeout: cfg.Timeout}
	base := strings.TrimRight(cfg.BaseURL, "/")

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", base),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers))

	if err := checkServiceHealth(ctx, client, base); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	breeds := cfg.Breeds
	if len(breeds) == 0 {
		breeds = DefaultBreeds
	}
	checks := Checks(breeds)
	workers := max(cfg.Workers, 1)
	jobs := make(chan Check, workers*WorkerChannelMultiplier)

	var (
		wg       sync.WaitGroup
		maxNanos atomic.Int64
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				status, took, err := get(ctx, client, base+p.Path)
				atomic.AddInt64(&stats.Requests, 1)
				for {
					cur := maxNanos.Load()
					if int64(took) <= cur || maxNanos.CompareAndSwap(cur, int64(took)) {
						break
					}
				}
				switch {
				case err != nil:
					atomic.AddInt64(&stats.Failed, 1)
					log.Warn(ctx, "check failed", logger.String("path", p.Path), logger.Error(err))
				case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
					atomic.AddInt64(&stats.Upstream, 1)
					atomic.AddInt64(&stats.Failed, 1)
					log.Warn(ctx, "upstream error", logger.String("path", p.Path), logger.Int("status", status))
				case !slices.Contains(p.Accept, status):
					atomic.AddInt64(&stats.Failed, 1)
					log.Warn(ctx, "unexpected status", logger.String("path", p.Path), logger.Int("status", status))
				case status == http.StatusNotFound:
					atomic.AddInt64(&stats.NotFound, 1)
				default:
					atomic.AddInt64(&stats.OK, 1)
				}
				if cfg.Verbose {
					log.Debug(ctx, "check", logger.String("path", p.Path),
						logger.Int("status", status), logger.Duration("took", took))
				}
			}
		}()
	}

feed:
	for range max(cfg.Rounds, 1) {
		for _, p := range checks {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- p:
			}
		}
	}
	close(jobs)
	wg.Wait()

	stats.MaxLatency = time.Duration(maxNanos.Load())
	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "smoke run finished",
		logger.Any("requests", stats.Requests),
		logger.Any("ok", stats.OK),
		logger.Any("notFound", stats.NotFound),
		logger.Any("upstream", stats.Upstream),
		logger.Any("failed", stats.Failed),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Duration("duration", stats.Duration))

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d checks", ErrCheckFailed, stats.Failed, stats.Requests)
	}
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *http.Client, base string) error {
	status, _, err := get(ctx, client, base+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

func get(ctx context.Context, client *http.Client, target string) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, time.Since(start), err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, time.Since(start), nil
}
