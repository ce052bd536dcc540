package loadtest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/mcr/internal/adapters/http/api"
	service "github.com/okian/mcr/internal/app"
	"github.com/okian/mcr/internal/domain/school"
	"github.com/okian/mcr/internal/loadtest"
	"github.com/okian/mcr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(ctx context.Context) (*httptest.Server, func()) {
	svc := service.New(service.WithDataset(school.NewDataset([]school.School{
		{Slug: "north-state", Name: "North State", Latitude: 50, NetPrice: 10000, SATRange: &[2]float64{1000, 1200}},
		{Slug: "mid-college", Name: "Mid College", Latitude: 40, NetPrice: 30000},
		{Slug: "south-tech", Name: "South Tech", Latitude: 10, NetPrice: 50000, SATRange: &[2]float64{1400, 1550}},
	}, nil, nil)))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.Limits{ShareDefault: 10, ShareMax: 20, RankDefault: 10, RankMax: 50}).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running ranking service", t, func() {
		srv, stop := newServer(ctx)
		Reset(stop)

		cfg := &loadtest.Config{
			BaseURL:        srv.URL,
			Configurations: 25,
			MaxParameters:  4,
			TopN:           3,
			Workers:        4,
			Timeout:        5 * time.Second,
			Seed:           7,
		}

		Convey("When the load test runs with cleanup", func() {
			cfg.Cleanup = true
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "cases.json")
			stats, err := loadtest.Run(ctx, cfg)

			Convey("Then every configuration round-trips, ranks and is shared", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 25)
				So(stats.Encoded, ShouldEqual, 25)
				So(stats.Ranked, ShouldEqual, 25)
				So(stats.Shared, ShouldEqual, 25)
				So(stats.Failed, ShouldEqual, 0)
			})

			Convey("And the created shares are removed", func() {
				So(stats.Deleted, ShouldEqual, 25)
				resp, err := http.Get(srv.URL + "/shares")
				So(err, ShouldBeNil)
				body, _ := io.ReadAll(resp.Body)
				_ = resp.Body.Close()
				So(string(body), ShouldContainSubstring, `"data":[]`)
			})

			Convey("And the generated configurations are written out", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"params"`)
			})
		})
	})

	Convey("Given a service that is not there", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := loadtest.Run(ctx, &loadtest.Config{BaseURL: srv.URL, Configurations: 1, Timeout: time.Second})
		So(errors.Is(err, loadtest.ErrUnhealthy), ShouldBeTrue)
	})

	Convey("Given a service that rejects everything", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				return
			}
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		Reset(srv.Close)

		_, err := loadtest.Run(ctx, &loadtest.Config{BaseURL: srv.URL, Configurations: 1, Timeout: time.Second})
		So(errors.Is(err, loadtest.ErrUnexpected), ShouldBeTrue)
	})
}
