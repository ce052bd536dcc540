package loadtest

import (
	"fmt"

	"github.com/okian/mcr/internal/domain/params"
)

// verifyRoundTrip checks that decoding an encoded configuration gives the
// input back.
func verifyRoundTrip(in, out []params.UserParameter) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: decoded %d parameters, sent %d", ErrInconsistent, len(out), len(in))
	}
	for i := range in {
		if in[i].ID != out[i].ID || in[i].Importance != out[i].Importance {
			return fmt.Errorf("%w: parameter %d: got %s/%d, sent %s/%d",
				ErrInconsistent, i, out[i].ID, out[i].Importance, in[i].ID, in[i].Importance)
		}
		for k, v := range in[i].Args {
			if got, ok := out[i].Args[k]; !ok || got != v {
				return fmt.Errorf("%w: parameter %d argument %s: got %v, sent %v", ErrInconsistent, i, k, got, v)
			}
		}
	}
	return nil
}

// verifyEntries checks ranks are 1..n, scores are in [0,1] and never
// increase, and at most limit rows came back.
func verifyEntries(entries []Entry, limit int) error {
	if len(entries) > limit {
		return fmt.Errorf("%w: %d entries for limit %d", ErrInconsistent, len(entries), limit)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrInconsistent, i, e.Rank)
		}
		if e.Score < 0 || e.Score > 1 {
			return fmt.Errorf("%w: %s scored %v", ErrInconsistent, e.Slug, e.Score)
		}
		if i > 0 && e.Score > entries[i-1].Score {
			return fmt.Errorf("%w: %s (%v) ranked below %s (%v)",
				ErrInconsistent, e.Slug, e.Score, entries[i-1].Slug, entries[i-1].Score)
		}
	}
	return nil
}
