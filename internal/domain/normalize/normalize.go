// Package normalize maps raw school attributes onto [0,1] using ranges
// observed over the whole dataset.
package normalize

import (
	"math"
	"sync"

	"github.com/okian/mcr/internal/domain/school"
	"github.com/okian/mcr/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// MinMax is the observed range of one attribute.
type MinMax struct {
	Min float64
	Max float64
}

// IsSingleValue reports a degenerate range where every school has the same value.
func (m MinMax) IsSingleValue() bool {
	return m.Max == m.Min
}

// Scale maps value onto [0,1] with clamped min-max scaling. A degenerate
// range yields 1 for value >= Min and 0 otherwise.
func (m MinMax) Scale(value float64) float64 {
	switch {
	case math.IsNaN(value):
		return 0
	case value > m.Max:
		return 1
	case value < m.Min:
		return 0
	case m.IsSingleValue():
		return 1
	}
	return (value - m.Min) / (m.Max - m.Min)
}

// RangeCache memoizes per-attribute ranges over an immutable dataset.
// Ranges are computed on first use and never change afterwards.
type RangeCache struct {
	ds *school.Dataset

	mu     sync.RWMutex
	ranges map[school.Attribute]MinMax
	group  singleflight.Group
}

// NewRangeCache returns an empty cache over ds.
func NewRangeCache(ds *school.Dataset) *RangeCache {
	return &RangeCache{
		ds:     ds,
		ranges: make(map[school.Attribute]MinMax, len(school.Attributes)),
	}
}

// Range returns the (min, max) of attr over every school.
func (c *RangeCache) Range(attr school.Attribute) MinMax {
	c.mu.RLock()
	r, ok := c.ranges[attr]
	c.mu.RUnlock()
	if ok {
		metrics.RecordRangeCacheHit(string(attr))
		return r
	}

	// Concurrent first lookups of the same attribute share one scan.
	v, _, _ := c.group.Do(string(attr), func() (any, error) {
		c.mu.RLock()
		r, ok := c.ranges[attr]
		c.mu.RUnlock()
		if ok {
			return r, nil
		}
		metrics.RecordRangeCacheMiss(string(attr))
		r = scan(c.ds, attr)
		c.mu.Lock()
		c.ranges[attr] = r
		c.mu.Unlock()
		return r, nil
	})
	return v.(MinMax)
}

// Normalize scales value using the dataset range of attr.
func (c *RangeCache) Normalize(value float64, attr school.Attribute) float64 {
	return c.Range(attr).Scale(value)
}

// Warm computes the ranges of every known attribute up front.
func (c *RangeCache) Warm() {
	for _, attr := range school.Attributes {
		c.Range(attr)
	}
}

// Len returns how many ranges are cached.
func (c *RangeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ranges)
}

func scan(ds *school.Dataset, attr school.Attribute) MinMax {
	if ds == nil || ds.Len() == 0 {
		return MinMax{}
	}
	r := MinMax{Min: math.Inf(1), Max: math.Inf(-1)}
	for i := range ds.Schools {
		v := ds.Schools[i].Value(attr)
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}
