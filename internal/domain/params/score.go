package params

import (
	"github.com/okian/mcr/internal/domain/normalize"
	"github.com/okian/mcr/internal/domain/school"
)

// Ranks past this ordinal are as good as unranked.
const maxRankedOrdinal = 100

// ArgSAT is the argument id of the SAT target score.
const ArgSAT = "sat"

// RankingScore maps an ordinal to 1 - (ordinal-1)/100. Unranked schools and
// ordinals beyond 100 score 0.
func RankingScore(r school.Ranking, ranked bool) float64 {
	if !ranked || r.Ordinal > maxRankedOrdinal {
		return 0
	}
	if r.Ordinal < 1 {
		return 1
	}
	return 1 - float64(r.Ordinal-1)/maxRankedOrdinal
}

// SATScore places target within a school's admitted SAT range. Schools that
// publish no range are not penalized.
func SATScore(satRange *[2]float64, target float64) float64 {
	if satRange == nil {
		return 1
	}
	return normalize.MinMax{Min: satRange[0], Max: satRange[1]}.Scale(target)
}

func rankingFunc(id string) ScoreFunc {
	return func(s *school.School, _ Args) float64 {
		r, ok := s.Rankings[id]
		return RankingScore(r, ok)
	}
}

func majorRankingFunc(id string) ScoreFunc {
	return func(s *school.School, _ Args) float64 {
		r, ok := s.MajorRankings[id]
		return RankingScore(r, ok)
	}
}

func attributeFunc(ranges *normalize.RangeCache, attr school.Attribute) ScoreFunc {
	return func(s *school.School, _ Args) float64 {
		return ranges.Normalize(s.Value(attr), attr)
	}
}

func invertedAttributeFunc(ranges *normalize.RangeCache, attr school.Attribute) ScoreFunc {
	return func(s *school.School, _ Args) float64 {
		return 1 - ranges.Normalize(s.Value(attr), attr)
	}
}

func satRangeFunc(s *school.School, args Args) float64 {
	return SATScore(s.SATRange, args[ArgSAT])
}
