package params

import (
	"fmt"
	"strings"

	"github.com/okian/mcr/internal/domain/normalize"
	"github.com/okian/mcr/internal/domain/school"
)

// Option configures NewCatalog.
type Option func(*catalogOptions)

type catalogOptions struct {
	defs []Definition
}

// WithDefinitions replaces the builtin definitions.
func WithDefinitions(defs ...Definition) Option {
	return func(o *catalogOptions) {
		o.defs = defs
	}
}

// Catalog is the immutable, ordered set of parameters built for one dataset.
// It owns the range cache used by attribute parameters.
type Catalog struct {
	ds     *school.Dataset
	ranges *normalize.RangeCache

	params []Parameter
	byID   map[string]int
	byCode map[string]int
}

// NewCatalog builds the catalog for ds. It fails when ids repeat, codes repeat,
// or a non-empty code is not CodeWidth characters long.
func NewCatalog(ds *school.Dataset, opts ...Option) (*Catalog, error) {
	o := catalogOptions{defs: Builtin()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		ds:     ds,
		ranges: normalize.NewRangeCache(ds),
		params: make([]Parameter, 0, len(o.defs)),
		byID:   make(map[string]int, len(o.defs)),
		byCode: make(map[string]int, len(o.defs)),
	}
	for _, def := range o.defs {
		p, err := c.build(def)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		if p.Code != "" {
			if len(p.Code) != CodeWidth || strings.ContainsAny(p.Code, ",;") {
				return nil, fmt.Errorf("%w: %q for %q", ErrInvalidCode, p.Code, p.ID)
			}
			if other, dup := c.byCode[p.Code]; dup {
				return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateCode, p.Code, c.params[other].ID, p.ID)
			}
			c.byCode[p.Code] = len(c.params)
		}
		c.byID[p.ID] = len(c.params)
		c.params = append(c.params, p)
	}
	return c, nil
}

func (c *Catalog) build(def Definition) (Parameter, error) {
	p := Parameter{
		ID:        def.ID,
		Name:      def.Name,
		Code:      def.Code,
		Group:     def.Group,
		Arguments: def.Arguments,
	}
	if p.Arguments == nil {
		p.Arguments = []Argument{}
	}
	switch def.Kind {
	case KindRanking:
		if p.Name == "" {
			p.Name = c.rankingName(def.ID, c.ds.RankingName)
		}
		p.Func = rankingFunc(def.ID)
	case KindMajorRanking:
		if p.Name == "" {
			p.Name = c.rankingName(def.ID, c.ds.MajorRankingName)
		}
		p.Func = majorRankingFunc(def.ID)
	case KindAttribute:
		p.Func = attributeFunc(c.ranges, def.Attribute)
	case KindInvertedAttribute:
		p.Func = invertedAttributeFunc(c.ranges, def.Attribute)
	case KindSATRange:
		p.Func = satRangeFunc
	default:
		return Parameter{}, fmt.Errorf("%w: kind %d for %q", ErrInvalidDefinition, def.Kind, def.ID)
	}
	if p.ID == "" {
		return Parameter{}, fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	return p, nil
}

// rankingName prefers the dataset metadata and falls back to a title built
// from the ranking id, e.g. best-colleges-for-computer-science -> Computer Science.
func (c *Catalog) rankingName(id string, lookup func(string) (string, bool)) string {
	if c.ds != nil {
		if name, ok := lookup(id); ok && name != "" {
			return name
		}
	}
	words := strings.Split(strings.TrimPrefix(id, "best-colleges-for-"), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Dataset returns the dataset the catalog was built for.
func (c *Catalog) Dataset() *school.Dataset { return c.ds }

// Ranges returns the range cache shared by attribute parameters.
func (c *Catalog) Ranges() *normalize.RangeCache { return c.ranges }

// Len returns the number of parameters.
func (c *Catalog) Len() int { return len(c.params) }

// List returns the parameters in catalog order. The slice must not be modified.
func (c *Catalog) List() []Parameter { return c.params }

// ByID looks up a parameter by id.
func (c *Catalog) ByID(id string) (*Parameter, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.params[i], true
}

// ByCode looks up a parameter by share code.
func (c *Catalog) ByCode(code string) (*Parameter, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return nil, false
	}
	return &c.params[i], true
}

// GroupCounts returns the number of parameters in each group.
func (c *Catalog) GroupCounts() map[string]int {
	counts := make(map[string]int, 3)
	for i := range c.params {
		counts[c.params[i].Group]++
	}
	return counts
}
