// Package ranking combines per-parameter scores into one overall score per
// school and orders the dataset by it.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/internal/domain/school"
	"github.com/okian/mcr/internal/domain/types"
	"github.com/okian/mcr/pkg/metrics"
)

// How many schools are scored between context checks.
const cancelCheckEvery = 256

// Ranker orders schools for a user configuration.
type Ranker interface {
	// Score returns the overall score of one school and each parameter's part.
	Score(s *school.School, ups []params.UserParameter) (float64, []types.Contribution, error)

	// Rank scores every school and returns the best limit entries, or all of
	// them when limit <= 0. ctx is honored between batches of schools.
	Rank(ctx context.Context, ups []params.UserParameter, limit int) ([]types.Entry, error)
}

// Option configures a WeightedRanker.
type Option func(*WeightedRanker)

// WithBreakdown controls whether entries carry per-parameter contributions.
func WithBreakdown(enabled bool) Option {
	return func(r *WeightedRanker) {
		r.breakdown = enabled
	}
}

// WeightedRanker scores a school as the importance-weighted mean of its
// parameter scores: sum(importance*score) / sum(importance). A configuration
// whose importances sum to zero scores every school 0.
type WeightedRanker struct {
	catalog   *params.Catalog
	breakdown bool
}

// NewWeightedRanker creates a ranker over catalog and its dataset.
func NewWeightedRanker(catalog *params.Catalog, opts ...Option) *WeightedRanker {
	r := &WeightedRanker{
		catalog:   catalog,
		breakdown: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type weighted struct {
	param  *params.Parameter
	args   params.Args
	weight float64
}

// resolve looks every id up once and turns importances into weights.
func (r *WeightedRanker) resolve(ups []params.UserParameter) ([]weighted, error) {
	ws := make([]weighted, 0, len(ups))
	total := 0
	for _, up := range ups {
		p, ok := r.catalog.ByID(up.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, up.ID)
		}
		if up.Importance < 0 {
			return nil, fmt.Errorf("%w: %q has %d", ErrInvalidImportance, up.ID, up.Importance)
		}
		total += up.Importance
		ws = append(ws, weighted{param: p, args: up.Args, weight: float64(up.Importance)})
	}
	for i := range ws {
		if total == 0 {
			ws[i].weight = 0
			continue
		}
		ws[i].weight /= float64(total)
	}
	return ws, nil
}

func (r *WeightedRanker) score(s *school.School, ws []weighted, withParts bool) (float64, []types.Contribution) {
	var (
		overall float64
		parts   []types.Contribution
	)
	if withParts {
		parts = make([]types.Contribution, 0, len(ws))
	}
	for _, w := range ws {
		v := w.param.Score(s, w.args)
		overall += w.weight * v
		if withParts {
			parts = append(parts, types.Contribution{ID: w.param.ID, Score: v, Weight: w.weight})
		}
	}
	// Rounding can push a sum of weights that should be 1 slightly past it.
	if overall > 1 {
		overall = 1
	}
	return overall, parts
}

// Score implements Ranker.
func (r *WeightedRanker) Score(s *school.School, ups []params.UserParameter) (float64, []types.Contribution, error) {
	ws, err := r.resolve(ups)
	if err != nil {
		return 0, nil, err
	}
	overall, parts := r.score(s, ws, true)
	return overall, parts, nil
}

// Rank implements Ranker.
func (r *WeightedRanker) Rank(ctx context.Context, ups []params.UserParameter, limit int) ([]types.Entry, error) {
	start := time.Now()
	ws, err := r.resolve(ups)
	if err != nil {
		return nil, err
	}

	ds := r.catalog.Dataset()
	if ds == nil {
		return []types.Entry{}, nil
	}

	entries := make([]types.Entry, 0, ds.Len())
	for i := range ds.Schools {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("ranking cancelled: %w", err)
			}
		}
		s := &ds.Schools[i]
		overall, parts := r.score(s, ws, r.breakdown)
		entries = append(entries, types.Entry{
			Slug:      s.Slug,
			Name:      s.Name,
			Score:     overall,
			Breakdown: parts,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Before(entries[j]) })
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	metrics.RecordSchoolsScored(ds.Len())
	metrics.RecordRankingLatency(float64(time.Since(start).Microseconds()) / 1000)
	return entries, nil
}
