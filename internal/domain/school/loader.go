package school

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// Sentinel errors for dataset loading.
var (
	ErrLoadDataset  = errors.New("load dataset failed")
	ErrEmptyDataset = errors.New("dataset has no schools")
)

// Load reads a dataset bundle from path.
func Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(ctx, f)
}

// Decode parses a dataset bundle of the form
// {"schools": [...], "majors": [...], "rankings": {...}, "major_rankings": {...}}.
func Decode(ctx context.Context, r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).DecodeContext(ctx, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	if len(ds.Schools) == 0 {
		return nil, ErrEmptyDataset
	}
	ds.index()
	return &ds, nil
}
