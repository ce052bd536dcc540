package loadtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/mcr/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	// Largest page GET /shares serves.
	shareListMax = 20
)

// Run executes the complete load test against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("configurations", cfg.Configurations),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return stats, err
	}

	catalog, err := c.parameters(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetch parameters: %w", err)
	}
	cases, err := generateCases(ctx, catalog, cfg, stats)
	if err != nil {
		return stats, err
	}

	exerciseCases(ctx, c, cfg, cases, stats)

	if stats.Shared > 0 {
		listed, err := c.listShares(ctx, shareListMax)
		if err != nil {
			return stats, fmt.Errorf("list shares: %w", err)
		}
		if len(listed) == 0 {
			return stats, fmt.Errorf("%w: %d shares created, none listed", ErrInconsistent, stats.Shared)
		}
	}

	if cfg.OutputFile != "" {
		if err := saveCases(cfg.OutputFile, cases); err != nil {
			log.Warn(ctx, "failed to save configurations", logger.Error(err))
		} else {
			log.Info(ctx, "configurations saved", logger.String("file", cfg.OutputFile))
		}
	}

	if cfg.Cleanup {
		cleanup(ctx, c, cases, stats)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d configurations failed", ErrInconsistent, stats.Failed, stats.Generated)
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// exerciseCases runs every case through encode, decode, rank and share
// creation with at most cfg.Workers requests in flight. Failures are
// counted, not fatal.
func exerciseCases(ctx context.Context, c *client, cfg *Config, cases []Case, stats *Stats) {
	var encoded, ranked, shared, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := range cases {
		tc := &cases[i]
		g.Go(func() error {
			if err := exercise(gctx, c, cfg.TopN, tc, &encoded, &ranked, &shared); err != nil {
				failed.Add(1)
				logger.Get().Warn(gctx, "configuration failed",
					logger.String("name", tc.Name),
					logger.String("params", tc.Params),
					logger.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Encoded = int(encoded.Load())
	stats.Ranked = int(ranked.Load())
	stats.Shared = int(shared.Load())
	stats.Failed = int(failed.Load())
}

func exercise(ctx context.Context, c *client, topN int, tc *Case, encoded, ranked, shared *atomic.Int64) error {
	hash, err := c.encode(ctx, tc.Parameters)
	if err != nil {
		return err
	}
	tc.Params = hash
	encoded.Add(1)

	decoded, err := c.decode(ctx, hash)
	if err != nil {
		return err
	}
	if err := verifyRoundTrip(tc.Parameters, decoded); err != nil {
		return err
	}

	entries, err := c.rank(ctx, hash, topN)
	if err != nil {
		return err
	}
	if err := verifyEntries(entries, topN); err != nil {
		return err
	}
	ranked.Add(1)

	sh, err := c.createShare(ctx, tc.Name, hash)
	if err != nil {
		return err
	}
	if sh.Params != hash {
		return fmt.Errorf("%w: share stored %q, sent %q", ErrInconsistent, sh.Params, hash)
	}
	tc.ShareID = sh.ID
	shared.Add(1)
	return nil
}

func cleanup(ctx context.Context, c *client, cases []Case, stats *Stats) {
	for _, tc := range cases {
		if tc.ShareID == "" {
			continue
		}
		if err := c.deleteShare(ctx, tc.ShareID); err != nil {
			logger.Get().Warn(ctx, "failed to delete share", logger.String("id", tc.ShareID), logger.Error(err))
			continue
		}
		stats.Deleted++
	}
}

func saveCases(filename string, cases []Case) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal configurations: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Generated) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("encoded", stats.Encoded),
		logger.Int("ranked", stats.Ranked),
		logger.Int("shared", stats.Shared),
		logger.Int("deleted", stats.Deleted),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("configurationsPerSecond", perSecond))
}
