// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mcr/internal/adapters/repository"
	"github.com/okian/mcr/internal/domain/codec"
	"github.com/okian/mcr/internal/domain/dedupe"
	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/internal/domain/ranking"
	"github.com/okian/mcr/internal/domain/school"
	"github.com/okian/mcr/internal/domain/types"
	"github.com/okian/mcr/pkg/logger"
	"github.com/okian/mcr/pkg/metrics"
)

// Lifecycle errors. A Service is started and stopped once.
var (
	ErrNotStarted = errors.New("service not started")
	ErrStopped    = errors.New("service stopped")
)

// Service implements the API dependencies for the ranking system.
type Service struct {
	mu sync.RWMutex

	// Core components, built by Start.
	dataset *school.Dataset
	catalog *params.Catalog
	codec   *codec.Codec
	ranker  ranking.Ranker
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	datasetPath string
	shareDriver string
	shareDSN    string
	dedupeSize  int
	maxParamLen int

	// State
	started   bool
	stopped   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataset uses an already loaded dataset instead of reading DatasetPath.
func WithDataset(ds *school.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// WithDatasetPath sets the dataset bundle read on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithShareStore uses store for shares. The service closes it on Stop.
func WithShareStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithShareDriver selects the share store opened on Start when no store
// was given: "memory", "sqlite" or "postgres".
func WithShareDriver(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.shareDriver = driver
		}
		s.shareDSN = dsn
	}
}

// WithDedupeSize bounds how many distinct malformed share strings are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxParamsLength bounds the length of share strings accepted by the codec.
func WithMaxParamsLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParamLen = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath: "data.json",
		shareDriver: string(repository.DriverMemory),
		dedupeSize:  1024,
		maxParamLen: 4096,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and builds every component.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting ranking service...")

	if s.dataset == nil {
		ds, err := school.Load(ctx, s.datasetPath)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.dataset = ds
	}

	catalog, err := params.NewCatalog(s.dataset)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	catalog.Ranges().Warm()
	s.catalog = catalog

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.codec = codec.New(catalog,
		codec.WithLogger(s.logger.Named("codec")),
		codec.WithDeduper(s.deduper),
		codec.WithMaxLength(s.maxParamLen),
	)
	s.ranker = ranking.NewWeightedRanker(catalog)

	if s.store == nil {
		store, err := openStore(ctx, s.shareDriver, s.shareDSN)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.store = store
	}

	metrics.UpdateDatasetSchools(s.dataset.Len())
	for group, n := range catalog.GroupCounts() {
		metrics.UpdateCatalogParameters(group, n)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "ranking service started",
		logger.Int("schools", s.dataset.Len()),
		logger.Int("parameters", catalog.Len()),
		logger.String("shareDriver", s.shareDriver),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

func openStore(ctx context.Context, driver, dsn string) (repository.Store, error) {
	switch repository.Driver(driver) {
	case repository.DriverMemory:
		return repository.NewMemoryStore(), nil
	case repository.DriverSQLite, repository.DriverPostgres:
		return repository.OpenSQLStore(ctx, repository.Driver(driver), dsn)
	}
	return nil, fmt.Errorf("%w: %q", repository.ErrUnknownDriver, driver)
}

// Stop closes the share store, including one passed with WithShareStore.
// The Service cannot be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping ranking service...")
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing share store failed", logger.Error(err))
		}
	}
	s.started = false
	s.stopped = true
	s.logger.Info(context.Background(), "ranking service stopped")
}

// ready returns the components under the read lock, or ErrNotStarted.
func (s *Service) ready() (*params.Catalog, *codec.Codec, ranking.Ranker, repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, nil, ErrNotStarted
	}
	return s.catalog, s.codec, s.ranker, s.store, nil
}

// Parameters returns the catalog in order, or nil before Start.
func (s *Service) Parameters() []params.Parameter {
	catalog, _, _, _, err := s.ready()
	if err != nil {
		return nil
	}
	return catalog.List()
}

// Encode renders a configuration as a share string.
func (s *Service) Encode(ups []params.UserParameter) (string, error) {
	_, c, _, _, err := s.ready()
	if err != nil {
		return "", err
	}
	return c.Encode(ups)
}

// Decode parses an untrusted share string; failures yield an empty configuration.
func (s *Service) Decode(ctx context.Context, hash string) []params.UserParameter {
	_, c, _, _, err := s.ready()
	if err != nil {
		return []params.UserParameter{}
	}
	return c.Decode(ctx, hash)
}

// Rank orders the dataset for ups and returns the best limit entries.
func (s *Service) Rank(ctx context.Context, ups []params.UserParameter, limit int) ([]types.Entry, error) {
	_, _, r, _, err := s.ready()
	if err != nil {
		return nil, err
	}
	return r.Rank(ctx, ups, limit)
}

// CreateShare publishes a named share string. The string must parse
// strictly; a link that would decode to nothing is refused.
func (s *Service) CreateShare(ctx context.Context, name, hash string) (repository.Share, error) {
	_, c, _, store, err := s.ready()
	if err != nil {
		return repository.Share{}, err
	}
	if _, err := c.Parse(hash); err != nil {
		return repository.Share{}, fmt.Errorf("%w: %w", repository.ErrInvalidShare, err)
	}
	sh, err := store.Create(ctx, name, hash)
	if err != nil {
		if !errors.Is(err, repository.ErrInvalidShare) {
			metrics.RecordShareError("create")
			s.logger.Error(ctx, "create share failed", logger.Error(err))
		}
		return repository.Share{}, err
	}
	metrics.RecordShareCreated()
	s.logger.Debug(ctx, "share created", logger.String("share.id", sh.ID))
	return sh, nil
}

// ListShares returns up to limit shares, newest first.
func (s *Service) ListShares(ctx context.Context, limit int) ([]repository.Share, error) {
	_, _, _, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	shares, err := store.List(ctx, limit)
	if err != nil {
		metrics.RecordShareError("list")
		s.logger.Error(ctx, "list shares failed", logger.Error(err))
		return nil, err
	}
	return shares, nil
}

// DeleteShare removes a share. Unknown ids yield repository.ErrNotFound.
func (s *Service) DeleteShare(ctx context.Context, id string) error {
	_, _, _, store, err := s.ready()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordShareError("delete")
			s.logger.Error(ctx, "delete share failed", logger.String("share.id", id), logger.Error(err))
		}
		return err
	}
	metrics.RecordShareDeleted()
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"shareDriver": s.shareDriver,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	stats["schools"] = s.dataset.Len()
	stats["parameters"] = s.catalog.Len()
	stats["cachedRanges"] = s.catalog.Ranges().Len()
	stats["malformedSeen"] = s.deduper.Size()
	if n, err := s.store.Count(context.Background()); err == nil {
		stats["shares"] = n
	}
	return stats
}
