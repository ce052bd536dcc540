package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it registers its collectors there", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(RefreshInterval(), ShouldEqual, globalManager.RefreshInterval())
				manager.datasetSchools.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.sharesCreated.Inc()

			Convey("Then names carry the namespace and const labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_engine_shares_created_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false))
			manager.sharesCreated.Inc()

			Convey("Then nothing is exported", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording codec metrics", func() {
			before := testutil.ToFloat64(globalManager.configEncoded)
			RecordConfigurationEncoded()
			RecordConfigurationDecoded()
			RecordConfigurationDecodeFailure("unknown_code")

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.configEncoded), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.configDecodeFails.WithLabelValues("unknown_code")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording ranking metrics", func() {
			before := testutil.ToFloat64(globalManager.schoolsScored)
			RecordSchoolsScored(40)
			RecordRankingLatency(1.5)
			RecordRangeCacheHit("latitude")
			RecordRangeCacheMiss("latitude")

			Convey("Then the scored counter grows by the batch size", func() {
				So(testutil.ToFloat64(globalManager.schoolsScored), ShouldEqual, before+40)
			})
		})

		Convey("When updating gauges", func() {
			UpdateDatasetSchools(250)
			UpdateCatalogParameters("Majors", 36)
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(12)

			Convey("Then gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.datasetSchools), ShouldEqual, 250)
				So(testutil.ToFloat64(globalManager.catalogParameters.WithLabelValues("Majors")), ShouldEqual, 36)
			})
		})

		Convey("When recording share and HTTP metrics", func() {
			So(func() {
				RecordShareCreated()
				RecordShareDeleted()
				RecordShareError("create")
				RecordHTTPRequest("rank", "GET", "200")
				RecordHTTPRequestDuration("rank", "GET", "200", 3)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("shares", "POST", "client_error")
			}, ShouldNotPanic)
		})

		Convey("Then GetRegistry exposes the custom registry", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
