// Package types contains common types used across the application
package types

// Contribution is one parameter's share of an overall score.
type Contribution struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Entry represents a ranked school
type Entry struct {
	Rank      int            `json:"rank"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	Score     float64        `json:"score"`
	Breakdown []Contribution `json:"breakdown,omitempty"`
}

// Before reports whether e ranks ahead of o: higher score first, then slug.
func (e Entry) Before(o Entry) bool {
	if e.Score != o.Score {
		return e.Score > o.Score
	}
	return e.Slug < o.Slug
}
