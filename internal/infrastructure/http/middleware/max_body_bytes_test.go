package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/infrastructure/http/middleware"
)

func echo(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		_, _ = w.Write(body)
	})
}

func TestMaxBodyBytes(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength int64
		wantStatus    int
	}{
		{name: "within limit", body: `{"title":"ok"}`, contentLength: 14, wantStatus: http.StatusOK},
		{name: "declared too large", body: `{}`, contentLength: 1 << 20, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "chunked too large", body: strings.Repeat("x", 64), contentLength: -1, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/reminders", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()

			middleware.MaxBodyBytes(32)(echo(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
			}
		})
	}
}
