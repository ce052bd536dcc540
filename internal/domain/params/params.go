// Package params defines the catalog of scoring parameters a user can pick
// to build a personal school ranking.
//
// Every Parameter maps a school and its argument values to a score in [0,1],
// where 0 is worst and 1 is best. A user's pick is a UserParameter: the same
// id, an importance weight and the argument values keyed by argument id.
package params

import (
	"math"

	"github.com/okian/mcr/internal/domain/school"
)

// Parameter groups.
const (
	GroupGeneral  = "General"
	GroupRankings = "Rankings"
	GroupMajors   = "Majors"
)

// CodeWidth is the fixed length of a parameter code in share strings.
const CodeWidth = 2

// Args holds argument values keyed by argument id.
type Args map[string]float64

// ScoreFunc scores one school. It must be pure and return a value in [0,1].
type ScoreFunc func(s *school.School, args Args) float64

// Argument describes one tunable input of a Parameter.
type Argument struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Step    float64  `json:"step"`
	Default *float64 `json:"default,omitempty"`
}

// Parameter is one entry of the catalog.
type Parameter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Code identifies the parameter in share strings. Empty means the
	// parameter cannot be shared.
	Code      string     `json:"code,omitempty"`
	Group     string     `json:"group"`
	Arguments []Argument `json:"arguments"`
	Func      ScoreFunc  `json:"-"`
}

// Score runs the scoring function and pins the result to [0,1].
func (p *Parameter) Score(s *school.School, args Args) float64 {
	return clamp01(p.Func(s, args))
}

// UserParameter is a user's choice of a catalog parameter.
type UserParameter struct {
	ID string `json:"id"`
	// Importance is a 0-100 weight. The range is enforced by callers.
	Importance int  `json:"importance"`
	Args       Args `json:"args"`
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func floatPtr(v float64) *float64 { return &v }
