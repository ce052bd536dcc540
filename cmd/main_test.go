package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/mcr/internal/config"
	"github.com/okian/mcr/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const bundle = `{
  "schools": [
    {"slug": "north-state", "name": "North State", "latitude": 50,
     "rankings": {"best-colleges": {"ordinal": 1, "total": 2}}},
    {"slug": "south-tech", "name": "South Tech", "latitude": 10,
     "rankings": {"best-colleges": {"ordinal": 2, "total": 2}}}
  ],
  "majors": [],
  "rankings": {},
  "major_rankings": {}
}`

func TestConfigFromEnvironment(t *testing.T) {
	convey.Convey("Given MCR_ environment variables", t, func() {
		t.Setenv("MCR_ADDR", ":8080")
		t.Setenv("MCR_SHARE_DRIVER", "sqlite")
		t.Setenv("MCR_MAX_RANK_LIMIT", "100")
		t.Setenv("MCR_MAX_PARAMS_LENGTH", "512")

		convey.Convey("Then they override the defaults", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.ShareDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.MaxRankLimit, convey.ShouldEqual, 100)
			convey.So(cfg.RankDefaultLimit, convey.ShouldEqual, 50)
			convey.So(cfg.MaxParamsLength, convey.ShouldEqual, 512)
		})
	})

	convey.Convey("Given an empty listen address", t, func() {
		t.Setenv("MCR_ADDR", "")

		convey.Convey("Then loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestApplicationWiring(t *testing.T) {
	convey.Convey("Given a service built from configuration", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "data.json")
		convey.So(os.WriteFile(path, []byte(bundle), 0o600), convey.ShouldBeNil)

		cfg := config.New(ctx)
		cfg.DatasetPath = path
		svc := newService(cfg, logger.New(&strings.Builder{}, false))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		convey.Reset(svc.Stop)

		srv := httptest.NewServer(newMux(ctx, cfg, svc))
		convey.Reset(srv.Close)

		convey.Convey("Then every surface answers", func() {
			for _, path := range []string{"/", "/healthz", "/stats", "/parameters", "/rank?params=ov1", "/shares", "/api-docs", "/openapi.yaml"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And rank limits come from configuration", func() {
			resp, err := http.Get(srv.URL + "/rank?params=ov1&limit=501")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a short-lived context", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater returns once it is done", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx, 10*time.Millisecond) }, convey.ShouldNotPanic)
			convey.So(ctx.Err(), convey.ShouldNotBeNil)
		})
	})
}
