// Package codec turns an ordered list of user parameters into the compact
// string used in share links, and back.
//
// Grammar:
//
//	config := record (";" record)*
//	record := code importance ("," arg)*
//
// code is exactly params.CodeWidth characters. importance and every arg are
// non-negative integers in base 36. Arguments are positional and follow the
// declaration order of the parameter, so that order is part of the format.
// Tokens past the last declared argument are accepted and dropped.
package codec

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/mcr/internal/domain/dedupe"
	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/pkg/logger"
	"github.com/okian/mcr/pkg/metrics"
)

const (
	recordSep = ";"
	argSep    = ","
	base      = 36

	// Largest integer a float64 argument holds exactly.
	maxArgBits = 53
	// Importance must fit an int on every platform.
	maxImportanceBits = 31

	defaultMaxLength = 4096

	// Longer bad inputs are remembered by digest and logged by prefix.
	maxDiagnosticKey = 128
	maxLoggedPrefix  = 64
)

// Codec encodes and decodes configurations against one catalog.
type Codec struct {
	catalog   *params.Catalog
	log       logger.Logger
	seen      dedupe.Deduper
	maxLength int
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Codec) {
		c.log = l
	}
}

// WithDeduper sets the seen-set that limits decode diagnostics to one per
// distinct input.
func WithDeduper(d dedupe.Deduper) Option {
	return func(c *Codec) {
		c.seen = d
	}
}

// WithMaxLength rejects longer inputs in Parse. Values <= 0 remove the limit.
func WithMaxLength(n int) Option {
	return func(c *Codec) {
		c.maxLength = n
	}
}

// New returns a Codec for catalog.
func New(catalog *params.Catalog, opts ...Option) *Codec {
	c := &Codec{
		catalog:   catalog,
		maxLength: defaultMaxLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New(io.Discard, false)
	}
	if c.seen == nil {
		c.seen = dedupe.NewInMemoryDeduper()
	}
	return c
}

// Encode renders ups in order. Every id must exist in the catalog with a
// code, and every declared argument must be a non-negative integer.
func (c *Codec) Encode(ups []params.UserParameter) (string, error) {
	var b strings.Builder
	for i, up := range ups {
		p, ok := c.catalog.ByID(up.ID)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownParameter, up.ID)
		}
		if p.Code == "" {
			return "", fmt.Errorf("%w: %q", ErrNoCode, up.ID)
		}
		if up.Importance < 0 || up.Importance > 1<<maxImportanceBits-1 {
			return "", fmt.Errorf("%w: importance %d of %q", ErrInvalidValue, up.Importance, up.ID)
		}

		if i > 0 {
			b.WriteString(recordSep)
		}
		b.WriteString(p.Code)
		b.WriteString(strconv.FormatUint(uint64(up.Importance), base))

		for _, arg := range p.Arguments {
			v, ok := up.Args[arg.ID]
			if !ok {
				return "", fmt.Errorf("%w: %q of %q", ErrMissingArgument, arg.ID, up.ID)
			}
			n, err := integral(v)
			if err != nil {
				return "", fmt.Errorf("%w: %q of %q", err, arg.ID, up.ID)
			}
			b.WriteString(argSep)
			b.WriteString(strconv.FormatUint(n, base))
		}
	}
	metrics.RecordConfigurationEncoded()
	return b.String(), nil
}

// Parse is the strict decoder. It returns either the whole configuration or
// an error wrapping ErrMalformed, never a partial result. The empty string
// is the empty configuration.
func (c *Codec) Parse(hash string) ([]params.UserParameter, error) {
	if hash == "" {
		return []params.UserParameter{}, nil
	}
	if c.maxLength > 0 && len(hash) > c.maxLength {
		return []params.UserParameter{}, fmt.Errorf("%w: length %d exceeds %d", ErrMalformed, len(hash), c.maxLength)
	}

	records := strings.Split(hash, recordSep)
	ups := make([]params.UserParameter, 0, len(records))
	for i, rec := range records {
		up, err := c.parseRecord(rec)
		if err != nil {
			return []params.UserParameter{}, fmt.Errorf("%w: record %d: %w", ErrMalformed, i, err)
		}
		ups = append(ups, up)
	}
	return ups, nil
}

func (c *Codec) parseRecord(rec string) (params.UserParameter, error) {
	tokens := strings.Split(rec, argSep)
	head := tokens[0]
	if len(head) < params.CodeWidth {
		return params.UserParameter{}, fmt.Errorf("%q is shorter than a code", rec)
	}

	code := head[:params.CodeWidth]
	p, ok := c.catalog.ByCode(code)
	if !ok {
		return params.UserParameter{}, fmt.Errorf("%w: code %q", ErrUnknownParameter, code)
	}

	importance, err := parseToken(head[params.CodeWidth:], maxImportanceBits)
	if err != nil {
		return params.UserParameter{}, fmt.Errorf("importance of %q: %w", p.ID, err)
	}

	// Tokens beyond the declared arguments are ignored.
	values := tokens[1:]
	if len(values) < len(p.Arguments) {
		return params.UserParameter{}, fmt.Errorf("%w: %q of %q", ErrMissingArgument, p.Arguments[len(values)].ID, p.ID)
	}

	args := make(params.Args, len(p.Arguments))
	for i, arg := range p.Arguments {
		v, err := parseToken(values[i], maxArgBits)
		if err != nil {
			return params.UserParameter{}, fmt.Errorf("argument %q of %q: %w", arg.ID, p.ID, err)
		}
		args[arg.ID] = float64(v)
	}

	return params.UserParameter{ID: p.ID, Importance: int(importance), Args: args}, nil
}

// Decode is Parse for untrusted input. Any failure yields an empty
// configuration; the first sighting of each bad string is logged.
func (c *Codec) Decode(ctx context.Context, hash string) []params.UserParameter {
	ups, err := c.Parse(hash)
	if err != nil {
		metrics.RecordConfigurationDecodeFailure(failureReason(err))
		if !c.seen.SeenAndRecord(ctx, diagnosticKey(hash)) {
			c.log.Warn(ctx, "discarding malformed configuration",
				logger.String("params", truncate(hash, maxLoggedPrefix)),
				logger.Int("length", len(hash)),
				logger.Error(err),
			)
		}
		return []params.UserParameter{}
	}
	metrics.RecordConfigurationDecoded()
	return ups
}

// diagnosticKey bounds what the seen-set retains per input.
func diagnosticKey(hash string) string {
	if len(hash) <= maxDiagnosticKey {
		return hash
	}
	return "xxh64:" + strconv.FormatUint(xxhash.Sum64String(hash), 16)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func parseToken(tok string, bits int) (uint64, error) {
	if tok == "" {
		return 0, fmt.Errorf("%w: empty token", ErrInvalidValue)
	}
	n, err := strconv.ParseUint(tok, base, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, tok)
	}
	return n, nil
}

func integral(v float64) (uint64, error) {
	if math.IsNaN(v) || v < 0 || v != math.Trunc(v) || v >= 1<<maxArgBits {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, v)
	}
	return uint64(v), nil
}
