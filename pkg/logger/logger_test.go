package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { _ = Sync() }()

		Convey("Then Get and Named return usable loggers", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("codec"), ShouldNotBeNil)
			So(func() { Get().Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		l := Get()

		Convey("When logging with fields", func() {
			l.Warn(context.Background(), "malformed configuration",
				String("params", "zz1"), Int("len", 3), Bool("logged", true))

			Convey("Then the message, fields and source are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "malformed configuration")
				So(out, ShouldContainSubstring, "params=zz1")
				So(out, ShouldContainSubstring, "len=3")
				So(out, ShouldContainSubstring, "source=")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised above the message level", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			l.Info(context.Background(), "dropped")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a named logger is used", func() {
			l.Named("share").Info(context.Background(), "created", String("id", "abc"))

			Convey("Then fields are grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, "share.id=abc")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true)), ShouldBeNil)
		Get().Error(context.Background(), "boom", Error(errString("bad")))

		Convey("Then output is a JSON object", func() {
			out := strings.TrimSpace(buf.String())
			So(out, ShouldStartWith, "{")
			So(out, ShouldContainSubstring, `"msg":"boom"`)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}

type errString string

func (e errString) Error() string { return string(e) }
