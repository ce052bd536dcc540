// Package school holds the read-only school dataset the ranking engine scores.
package school

import "fmt"

// Attribute names a numeric school attribute usable for normalization.
type Attribute string

// Numeric attributes. The string values match the dataset bundle keys.
const (
	Latitude                Attribute = "latitude"
	Longitude               Attribute = "longitude"
	FullTimeUndergrads      Attribute = "full_time_undergrads"
	StudentFacultyRatio     Attribute = "student_faculty_ratio"
	AcceptanceRate          Attribute = "acceptance_rate"
	NetPrice                Attribute = "net_price"
	EarningsAfterGraduation Attribute = "earnings_after_graduation"
	EmployedAfterGraduation Attribute = "employed_after_graduation"
)

// Attributes lists every numeric attribute in a stable order.
var Attributes = []Attribute{
	Latitude,
	Longitude,
	FullTimeUndergrads,
	StudentFacultyRatio,
	AcceptanceRate,
	NetPrice,
	EarningsAfterGraduation,
	EmployedAfterGraduation,
}

// Ranking is a school's position in one published ranking.
type Ranking struct {
	Ordinal int `json:"ordinal"`
	Total   int `json:"total"`
}

// School is one dataset record. Records are never mutated after load.
type School struct {
	Slug string `json:"slug"`
	Name string `json:"name"`

	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	FullTimeUndergrads      float64 `json:"full_time_undergrads"`
	StudentFacultyRatio     float64 `json:"student_faculty_ratio"`
	AcceptanceRate          float64 `json:"acceptance_rate"`
	NetPrice                float64 `json:"net_price"`
	EarningsAfterGraduation float64 `json:"earnings_after_graduation"`
	EmployedAfterGraduation float64 `json:"employed_after_graduation"`

	// SATRange is the admitted-student [min, max] SAT range, nil when unpublished.
	SATRange *[2]float64 `json:"sat_range"`

	Rankings      map[string]Ranking `json:"rankings"`
	MajorRankings map[string]Ranking `json:"major_rankings"`
}

// Value returns the attribute value. An unknown attribute is a programming
// error and panics.
func (s *School) Value(attr Attribute) float64 {
	switch attr {
	case Latitude:
		return s.Latitude
	case Longitude:
		return s.Longitude
	case FullTimeUndergrads:
		return s.FullTimeUndergrads
	case StudentFacultyRatio:
		return s.StudentFacultyRatio
	case AcceptanceRate:
		return s.AcceptanceRate
	case NetPrice:
		return s.NetPrice
	case EarningsAfterGraduation:
		return s.EarningsAfterGraduation
	case EmployedAfterGraduation:
		return s.EmployedAfterGraduation
	}
	panic(fmt.Sprintf("school: unknown attribute %q", attr))
}

// Meta describes a ranking in the catalog of published rankings.
type Meta struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Dataset is the immutable collection of schools plus ranking metadata.
type Dataset struct {
	Schools       []School        `json:"schools"`
	Majors        []string        `json:"majors"`
	Rankings      map[string]Meta `json:"rankings"`
	MajorRankings map[string]Meta `json:"major_rankings"`

	bySlug map[string]int
}

// NewDataset builds a Dataset from records already in memory.
func NewDataset(schools []School, rankings, majorRankings map[string]Meta) *Dataset {
	ds := &Dataset{
		Schools:       schools,
		Rankings:      rankings,
		MajorRankings: majorRankings,
	}
	ds.index()
	return ds
}

func (d *Dataset) index() {
	if d.Rankings == nil {
		d.Rankings = map[string]Meta{}
	}
	if d.MajorRankings == nil {
		d.MajorRankings = map[string]Meta{}
	}
	d.bySlug = make(map[string]int, len(d.Schools))
	for i := range d.Schools {
		d.bySlug[d.Schools[i].Slug] = i
	}
}

// Len returns the number of schools.
func (d *Dataset) Len() int { return len(d.Schools) }

// BySlug returns the school with the given slug.
func (d *Dataset) BySlug(slug string) (*School, bool) {
	i, ok := d.bySlug[slug]
	if !ok {
		return nil, false
	}
	return &d.Schools[i], true
}

// RankingName returns the display name of a general ranking.
func (d *Dataset) RankingName(id string) (string, bool) {
	m, ok := d.Rankings[id]
	return m.Name, ok
}

// MajorRankingName returns the display name of a major ranking.
func (d *Dataset) MajorRankingName(id string) (string, bool) {
	m, ok := d.MajorRankings[id]
	return m.Name, ok
}
