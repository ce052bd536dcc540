package repository

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRebind(t *testing.T) {
	Convey("Given a query with ? placeholders", t, func() {
		q := `DELETE FROM shares WHERE id = ? AND name = ?`

		Convey("Then postgres gets numbered placeholders", func() {
			s := &SQLStore{driver: DriverPostgres}
			So(s.rebind(q), ShouldEqual, `DELETE FROM shares WHERE id = $1 AND name = $2`)
		})

		Convey("And sqlite keeps them as they are", func() {
			s := &SQLStore{driver: DriverSQLite}
			So(s.rebind(q), ShouldEqual, q)
		})
	})
}
