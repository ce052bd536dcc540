// Command mcr-hash converts between configuration JSON and share strings.
//
//	mcr-hash -decode 'ov2s;st1e,rs'
//	mcr-hash -encode '[{"id":"best-colleges","importance":100}]'
//
// Parameter codes do not depend on the dataset; -data only adds school and
// ranking names to the catalog used for lookups.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/okian/mcr/internal/domain/codec"
	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/internal/domain/school"
)

var errUsage = errors.New("exactly one of -decode or -encode is required")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "mcr-hash:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mcr-hash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	data := fs.String("data", "", "optional dataset bundle (JSON)")
	decode := fs.String("decode", "", "share string to decode")
	encode := fs.String("encode", "", "configuration JSON to encode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*decode == "") == (*encode == "") {
		return errUsage
	}

	ds := school.NewDataset(nil, nil, nil)
	if *data != "" {
		loaded, err := school.Load(ctx, *data)
		if err != nil {
			return err
		}
		ds = loaded
	}
	catalog, err := params.NewCatalog(ds)
	if err != nil {
		return err
	}
	c := codec.New(catalog)

	if *decode != "" {
		ups, err := c.Parse(*decode)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(ups, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	var ups []params.UserParameter
	if err := json.Unmarshal([]byte(*encode), &ups); err != nil {
		return fmt.Errorf("parse configuration: %w", err)
	}
	hash, err := c.Encode(ups)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
