package params

import "github.com/okian/mcr/internal/domain/school"

// Kind selects the scoring strategy of a Definition.
type Kind int

// Scoring strategies.
const (
	KindRanking Kind = iota + 1
	KindMajorRanking
	KindAttribute
	KindInvertedAttribute
	KindSATRange
)

// Definition is the static description a Parameter is built from.
// Name may be empty for ranking kinds; it is then taken from the dataset
// ranking metadata.
type Definition struct {
	ID        string
	Code      string
	Name      string
	Group     string
	Kind      Kind
	Attribute school.Attribute
	Arguments []Argument
}

func ranking(id, name, code string) Definition {
	return Definition{ID: id, Code: code, Name: name, Group: GroupRankings, Kind: KindRanking}
}

func majorRanking(id, code string) Definition {
	return Definition{ID: id, Code: code, Group: GroupMajors, Kind: KindMajorRanking}
}

func attribute(id, name, code string, attr school.Attribute, inverted bool) Definition {
	kind := KindAttribute
	if inverted {
		kind = KindInvertedAttribute
	}
	return Definition{ID: id, Code: code, Name: name, Group: GroupGeneral, Kind: kind, Attribute: attr}
}

// Builtin returns the default catalog definitions. Order and codes are part
// of the share string format: reordering arguments or reusing a code breaks
// links that were already handed out.
func Builtin() []Definition {
	overall := ranking("best-colleges", "Niche Overall Rank", "ov")
	overall.Group = GroupGeneral

	return []Definition{
		overall,
		attribute("northern", "Northern schools", "no", school.Latitude, false),
		attribute("southern", "Southern schools", "so", school.Latitude, true),
		attribute("eastern", "Eastern schools", "ea", school.Longitude, false),
		attribute("western", "Western schools", "we", school.Longitude, true),
		{
			ID:    "sat-range",
			Code:  "st",
			Name:  "SAT score",
			Group: GroupGeneral,
			Kind:  KindSATRange,
			Arguments: []Argument{
				{ID: ArgSAT, Name: "SAT Score", Min: 400, Max: 1600, Step: 10, Default: floatPtr(1000)},
			},
		},
		attribute("net-price", "Low net price", "np", school.NetPrice, true),
		attribute("large", "Large schools", "la", school.FullTimeUndergrads, false),
		attribute("small", "Small schools", "sm", school.FullTimeUndergrads, true),
		attribute("student-faculty-ratio", "Low student-faculty ratio", "sf", school.StudentFacultyRatio, true),
		attribute("high-acceptance-rate", "High acceptance rate", "hc", school.AcceptanceRate, false),
		attribute("low-acceptance-rate", "Low acceptance rate", "lc", school.AcceptanceRate, true),
		attribute("earnings", "High earnings after school", "en", school.EarningsAfterGraduation, false),
		attribute("employment", "High employment after school", "em", school.EmployedAfterGraduation, false),

		ranking("best-college-academics", "Best Academics", "ac"),
		ranking("best-college-athletics", "Best Athletics", "at"),
		ranking("best-college-campuses", "Best Campuses", "ca"),
		ranking("best-college-dorms", "Best Dorms", "do"),
		ranking("best-college-food", "Best Food", "fo"),
		ranking("best-greek-life-colleges", "Best Greek Life", "gl"),
		ranking("best-college-professors", "Best Professors", "pr"),
		ranking("best-student-life", "Best Student Life", "sl"),
		ranking("most-conservative-colleges", "Most Conservative", "co"),
		ranking("most-liberal-colleges", "Most Liberal", "li"),
		ranking("top-party-schools", "Top Party Schools", "pa"),

		majorRanking("best-colleges-for-accounting", "ao"),
		majorRanking("best-colleges-for-agricultural-sciences", "ag"),
		majorRanking("best-colleges-for-anthropology", "an"),
		majorRanking("best-colleges-for-architecture", "ah"),
		majorRanking("best-colleges-for-art", "ar"),
		majorRanking("best-colleges-for-biology", "bi"),
		majorRanking("best-colleges-for-business", "bu"),
		majorRanking("best-colleges-for-chemistry", "cm"),
		majorRanking("best-colleges-for-communications", "cu"),
		majorRanking("best-colleges-for-computer-science", "cs"),
		majorRanking("best-colleges-for-criminal-justice", "cr"),
		majorRanking("best-colleges-for-culinary-arts", "cl"),
		majorRanking("best-colleges-for-design", "de"),
		majorRanking("best-colleges-for-economics", "ec"),
		majorRanking("best-colleges-for-education", "ed"),
		majorRanking("best-colleges-for-engineering", "ei"),
		majorRanking("best-colleges-for-english", "eg"),
		majorRanking("best-colleges-for-environmental-science", "es"),
		majorRanking("best-colleges-for-film", "fi"),
		majorRanking("best-colleges-for-global-studies", "gs"),
		majorRanking("best-colleges-for-history", "hi"),
		majorRanking("best-colleges-for-information-technology", "it"),
		majorRanking("best-colleges-for-international-relations", "in"),
		majorRanking("best-colleges-for-physical-therapy", "ki"),
		majorRanking("best-colleges-for-math", "ma"),
		majorRanking("best-colleges-for-music", "mu"),
		majorRanking("best-colleges-for-nursing", "nu"),
		majorRanking("best-colleges-for-theater", "pe"),
		majorRanking("best-colleges-for-philosophy", "ph"),
		majorRanking("best-colleges-for-physics", "py"),
		majorRanking("best-colleges-for-political-science", "po"),
		majorRanking("best-colleges-for-psychology", "ps"),
		majorRanking("best-colleges-for-public-health", "pu"),
		majorRanking("best-colleges-for-public-policy", "pp"),
		majorRanking("best-colleges-for-religious-studies", "re"),
		majorRanking("best-colleges-for-sports-management", "sp"),
	}
}
