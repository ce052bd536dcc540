// Package site serves the embedded landing page.
package site

import (
	"context"
	"net/http"
)

// Register serves the landing page at exactly "/". Other unmatched paths
// stay 404 instead of falling through to the page.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /{$}", http.FileServer(FS()))
}
