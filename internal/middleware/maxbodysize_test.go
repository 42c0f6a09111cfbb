package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/eld-logbook/internal/middleware"
)

// readAll mimics a JSON-decoding handler: a failed body read becomes 413.
var readAll = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 100

	tests := []struct {
		name          string
		size          int
		contentLength int64
		want          int
	}{
		{name: "within limit", size: 50, contentLength: 50, want: http.StatusOK},
		{name: "exactly at limit", size: 100, contentLength: 100, want: http.StatusOK},
		{name: "declared length over limit", size: 200, contentLength: 200, want: http.StatusRequestEntityTooLarge},
		{name: "streamed body over limit", size: 200, contentLength: -1, want: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewMaxBodySizeHandler(limit)(readAll)

			req := httptest.NewRequest(http.MethodPost, "/trips/plan", strings.NewReader(strings.Repeat("x", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
