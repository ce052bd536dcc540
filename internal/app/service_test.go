package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mcr/internal/adapters/repository"
	service "github.com/okian/mcr/internal/app"
	"github.com/okian/mcr/internal/domain/params"
	"github.com/okian/mcr/internal/domain/school"
	"github.com/okian/mcr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const bundle = `{
  "schools": [
    {"slug": "north-state", "name": "North State", "latitude": 50, "acceptance_rate": 0.8,
     "rankings": {"best-colleges": {"ordinal": 1, "total": 2}}},
    {"slug": "south-tech", "name": "South Tech", "latitude": 10, "acceptance_rate": 0.1,
     "sat_range": [1400, 1500], "rankings": {"best-colleges": {"ordinal": 2, "total": 2}}}
  ],
  "majors": [],
  "rankings": {"best-colleges": {"name": "Best Colleges", "total": 2}},
  "major_rankings": {}
}`

func dataset() *school.Dataset {
	return school.NewDataset([]school.School{
		{Slug: "north-state", Name: "North State", Latitude: 50, AcceptanceRate: 0.8},
		{Slug: "mid-college", Name: "Mid College", Latitude: 40, AcceptanceRate: 0.3},
		{Slug: "south-tech", Name: "South Tech", Latitude: 10, AcceptanceRate: 0.05},
	}, nil, nil)
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithDataset(dataset())}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithDataset(dataset()))

		Convey("When it is used before Start", func() {
			_, err := svc.Rank(context.Background(), nil, 1)

			Convey("Then operations report it is not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.Parameters(), ShouldBeNil)
				So(svc.Decode(context.Background(), "ov1"), ShouldBeEmpty)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When started", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			Reset(svc.Stop)

			Convey("Then stats describe the loaded data", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["schools"], ShouldEqual, 3)
				So(stats["parameters"], ShouldEqual, 61)
				So(stats["shares"], ShouldEqual, 0)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And Stop marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And it cannot be started again after Stop", func() {
				svc.Stop()
				So(errors.Is(svc.Start(context.Background()), service.ErrStopped), ShouldBeTrue)
				_, err := svc.Rank(context.Background(), nil, 1)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a dataset path that does not exist", t, func() {
		svc := service.New(service.WithDatasetPath(filepath.Join(t.TempDir(), "missing.json")))
		err := svc.Start(context.Background())
		So(errors.Is(err, school.ErrLoadDataset), ShouldBeTrue)
	})

	Convey("Given an unknown share driver", t, func() {
		svc := service.New(service.WithDataset(dataset()), service.WithShareDriver("mysql", ""))
		err := svc.Start(context.Background())
		So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
	})
}

func TestServiceConfigurations(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := started()
		Reset(svc.Stop)

		Convey("When a configuration is encoded and decoded", func() {
			in := []params.UserParameter{
				{ID: "northern", Importance: 80, Args: params.Args{}},
				{ID: "sat-range", Importance: 50, Args: params.Args{params.ArgSAT: 1000}},
			}
			hash, err := svc.Encode(in)
			So(err, ShouldBeNil)
			out := svc.Decode(ctx, hash)

			Convey("Then it round-trips", func() {
				So(hash, ShouldEqual, "no28;st1e,rs")
				So(out, ShouldHaveLength, 2)
				So(out[0].ID, ShouldEqual, "northern")
				So(out[0].Importance, ShouldEqual, 80)
				So(out[1].Args[params.ArgSAT], ShouldEqual, 1000)
			})

			Convey("And ranking with it orders the dataset", func() {
				entries, err := svc.Rank(ctx, out, 2)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When a malformed string is decoded", func() {
			So(svc.Decode(ctx, "zz9"), ShouldBeEmpty)
			So(svc.Decode(ctx, "zz9"), ShouldBeEmpty)

			Convey("Then it is remembered once", func() {
				So(svc.GetStats()["malformedSeen"], ShouldEqual, int64(1))
			})
		})

		Convey("Then the catalog is exposed in order", func() {
			ps := svc.Parameters()
			So(ps, ShouldHaveLength, 61)
			So(ps[0].ID, ShouldEqual, "best-colleges")
		})
	})
}

func TestServiceShares(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with the memory store", t, func() {
		svc := started()
		Reset(svc.Stop)

		Convey("When a valid share is created", func() {
			sh, err := svc.CreateShare(ctx, "north", "no2s")
			So(err, ShouldBeNil)

			Convey("Then it is listed and can be deleted", func() {
				list, err := svc.ListShares(ctx, 10)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
				So(list[0].ID, ShouldEqual, sh.ID)

				So(svc.DeleteShare(ctx, sh.ID), ShouldBeNil)
				So(errors.Is(svc.DeleteShare(ctx, sh.ID), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the share string does not parse", func() {
			_, err := svc.CreateShare(ctx, "broken", "zz1")
			So(errors.Is(err, repository.ErrInvalidShare), ShouldBeTrue)
		})

		Convey("When the name is blank", func() {
			_, err := svc.CreateShare(ctx, " ", "no1")
			So(errors.Is(err, repository.ErrInvalidShare), ShouldBeTrue)
		})
	})

	Convey("Given a service with a caller-provided store", t, func() {
		store := repository.NewMemoryStore()
		_, err := store.Create(ctx, "seeded", "ov1")
		So(err, ShouldBeNil)
		svc := started(service.WithShareStore(store))
		Reset(svc.Stop)

		Convey("Then the service reads and writes that store", func() {
			list, err := svc.ListShares(ctx, 10)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].Name, ShouldEqual, "seeded")

			_, err = svc.CreateShare(ctx, "second", "no1")
			So(err, ShouldBeNil)
			n, err := store.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})

	Convey("Given a service with a short share string limit", t, func() {
		svc := started(service.WithMaxParamsLength(8))
		Reset(svc.Stop)

		Convey("Then longer share strings are refused", func() {
			_, err := svc.CreateShare(ctx, "long", "ov1;no2;so3")
			So(errors.Is(err, repository.ErrInvalidShare), ShouldBeTrue)
			So(svc.Decode(ctx, "ov1;no2;so3"), ShouldBeEmpty)
		})

		Convey("And shorter ones are accepted", func() {
			_, err := svc.CreateShare(ctx, "short", "ov1;no2")
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a service loading its dataset from disk with a sqlite store", t, func() {
		path := filepath.Join(t.TempDir(), "data.json")
		So(os.WriteFile(path, []byte(bundle), 0o600), ShouldBeNil)

		svc := service.New(
			service.WithDatasetPath(path),
			service.WithShareDriver("sqlite", "file:service-test?mode=memory&cache=shared"),
		)
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("Then shares persist through the SQL store", func() {
			_, err := svc.CreateShare(ctx, "best", "ov2s")
			So(err, ShouldBeNil)
			list, err := svc.ListShares(ctx, 5)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].Params, ShouldEqual, "ov2s")
		})

		Convey("And ranking uses the loaded dataset", func() {
			entries, err := svc.Rank(ctx, svc.Decode(ctx, "ov1"), 0)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Slug, ShouldEqual, "north-state")
		})
	})
}
