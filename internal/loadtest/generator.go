package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/pkg/logger"
)

const maxImportance = 100

// generateCases builds n random configurations over the shareable
// parameters of catalog. Argument values land on the declared step grid so
// they survive encoding unchanged.
func generateCases(ctx context.Context, catalog []params.Parameter, cfg *Config, stats *Stats) ([]Case, error) {
	shareable := make([]params.Parameter, 0, len(catalog))
	for _, p := range catalog {
		if p.Code != "" {
			shareable = append(shareable, p)
		}
	}
	if len(shareable) == 0 {
		return nil, ErrNoParameters
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	logger.Get().Info(ctx, "generating configurations",
		logger.Int("configurations", cfg.Configurations),
		logger.Any("seed", seed))

	maxParams := min(max(cfg.MaxParameters, 1), len(shareable))
	cases := make([]Case, cfg.Configurations)
	for i := range cases {
		picks := rng.Perm(len(shareable))[:1+rng.IntN(maxParams)]
		ups := make([]params.UserParameter, 0, len(picks))
		for _, j := range picks {
			ups = append(ups, randomParameter(rng, &shareable[j]))
		}
		cases[i] = Case{
			Name:       fmt.Sprintf("load-test %d/%d", i+1, cfg.Configurations),
			Parameters: ups,
		}
	}
	stats.Generated = len(cases)
	return cases, nil
}

func randomParameter(rng *rand.Rand, p *params.Parameter) params.UserParameter {
	up := params.UserParameter{
		ID:         p.ID,
		Importance: rng.IntN(maxImportance + 1),
		Args:       params.Args{},
	}
	for _, arg := range p.Arguments {
		steps := 0
		if arg.Step > 0 {
			steps = int((arg.Max - arg.Min) / arg.Step)
		}
		up.Args[arg.ID] = arg.Min + float64(rng.IntN(steps+1))*arg.Step
	}
	return up
}
