package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/mcr/internal/domain/codec"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given the hash tool", t, func() {
		var out bytes.Buffer

		Convey("When encoding a configuration", func() {
			err := run(ctx, []string{"-encode", `[{"id":"sat-range","importance":50,"args":{"sat":1000}}]`}, &out)

			Convey("Then the share string is printed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual, "st1e,rs\n")
			})
		})

		Convey("When decoding a share string", func() {
			err := run(ctx, []string{"-decode", "st1e,rs"}, &out)

			Convey("Then the configuration is printed as JSON", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, `"id": "sat-range"`)
				So(out.String(), ShouldContainSubstring, `"importance": 50`)
			})
		})

		Convey("When decoding a malformed string", func() {
			err := run(ctx, []string{"-decode", "zz1"}, &out)
			So(errors.Is(err, codec.ErrUnknownParameter), ShouldBeTrue)
			So(out.String(), ShouldBeEmpty)
		})

		Convey("When neither or both modes are given", func() {
			So(errors.Is(run(ctx, nil, &out), errUsage), ShouldBeTrue)
			So(errors.Is(run(ctx, []string{"-decode", "ov1", "-encode", "[]"}, &out), errUsage), ShouldBeTrue)
		})

		Convey("When the dataset cannot be read", func() {
			err := run(ctx, []string{"-data", "/nonexistent/data.json", "-decode", "ov1"}, &out)
			So(err, ShouldNotBeNil)
		})
	})
}
