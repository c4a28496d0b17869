package api

import (
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorClassification(t *testing.T) {
	Convey("Given response status codes", t, func() {
		Convey("Then each should map to its error type", func() {
			So(getErrorType(http.StatusBadGateway), ShouldEqual, "upstream_error")
			So(getErrorType(http.StatusServiceUnavailable), ShouldEqual, "server_error")
			So(getErrorType(http.StatusInternalServerError), ShouldEqual, "server_error")
			So(getErrorType(http.StatusTooManyRequests), ShouldEqual, "rate_limit")
			So(getErrorType(http.StatusNotFound), ShouldEqual, "not_found")
			So(getErrorType(http.StatusBadRequest), ShouldEqual, "client_error")
			So(getErrorType(http.StatusOK), ShouldEqual, "unknown")
		})

		Convey("Then severity should follow the status class", func() {
			So(getErrorSeverity(http.StatusBadGateway), ShouldEqual, "high")
			So(getErrorSeverity(http.StatusNotFound), ShouldEqual, "medium")
			So(getErrorSeverity(http.StatusOK), ShouldEqual, "low")
		})
	})
}
