package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/recurring"
)

// unencodable fails inside json.Marshal.
type unencodable struct{}

func (unencodable) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()

	response.OK(w, unencodable{})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decodeError(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "failed to encode response", body.Error.Message)
}

func TestCreated_Success(t *testing.T) {
	w := httptest.NewRecorder()

	response.Created(w, map[string]string{"id": "new-reminder"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var decoded map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded))
	assert.Equal(t, "new-reminder", decoded["id"])
}

func TestError_DetailsIsNeverNull(t *testing.T) {
	w := httptest.NewRecorder()

	response.Error(w, "INVALID_INPUT", "missing required field", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details":[]`)
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
		wantIssue  string
	}{
		{
			name:       "rule validation code surfaces as issue",
			err:        fmt.Errorf("create: %w", &recurring.ValidationError{Code: recurring.CodeMonthInvalid, Field: "month"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "rule.month",
			wantIssue:  recurring.CodeMonthInvalid,
		},
		{
			name:       "title required",
			err:        domain.ErrTitleRequired,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "title",
			wantIssue:  "required field missing",
		},
		{
			name:       "bad etag",
			err:        domain.ErrInvalidEtagFormat,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "etag",
			wantIssue:  "must be a positive version number",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: reminder x", domain.ErrReminderNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "version conflict",
			err:        domain.ErrVersionConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "storage unavailable",
			err:        fmt.Errorf("%w: connection refused", domain.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "UNAVAILABLE",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantField != "" {
				require.Len(t, body.Error.Details, 1)
				assert.Equal(t, tt.wantField, body.Error.Details[0].Field)
				assert.Equal(t, tt.wantIssue, body.Error.Details[0].Issue)
			}
			assert.NotContains(t, body.Error.Message, "pq:")
		})
	}
}

func TestRuleError_OffsetRangeCarriesBounds(t *testing.T) {
	w := httptest.NewRecorder()

	response.RuleError(w, "", &recurring.ValidationError{
		Code: recurring.CodeOffsetRange, Field: "offset", Min: 0, Max: 4,
	})

	body := decodeError(t, w)
	require.Len(t, body.Error.Details, 1)
	d := body.Error.Details[0]
	assert.Equal(t, "offset", d.Field)
	assert.Equal(t, recurring.CodeOffsetRange, d.Issue)
	require.NotNil(t, d.Min)
	require.NotNil(t, d.Max)
	assert.Equal(t, 0, *d.Min)
	assert.Equal(t, 4, *d.Max)
}
