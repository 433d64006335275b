package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrollstats/internal/enrollment"
	"enrollstats/internal/infrastructure"
	"enrollstats/internal/shared/testutil"
)

type medianParams struct {
	Threshold int    `validate:"min=0"`
	Format    string `validate:"oneof=xlsx csv"`
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	validationErr := validator.New().Struct(medianParams{Threshold: -1, Format: "pdf"})
	require.Error(t, validationErr)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("school stats: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "canceled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "invalid school",
			err:        fmt.Errorf("resolve: %w", &enrollment.InvalidSchoolError{Query: enrollment.NameQuery("Nowhere")}),
			wantStatus: http.StatusNotFound,
			wantType:   TypeSchoolNotFound,
			wantDetail: "Please enter a valid school name or code.",
		},
		{
			name:       "validator errors",
			err:        validationErr,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "api error",
			err:        ErrValidation("threshold", "threshold must be a valid integer"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "Request validation failed",
		},
		{
			name:       "export api error",
			err:        ExportError("xlsx", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			wantDetail: "Failed to export xlsx report",
		},
		{
			name:       "app not found",
			err:        NewNotFoundError("report"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "report not found",
		},
		{
			name:       "app dataset error",
			err:        NewDatasetError("dataset unavailable", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "shape error",
			err:        fmt.Errorf("load: %w", &enrollment.ShapeError{Year: 2, Want: 60, Got: 59}),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "unknown error",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/schools/x/stats", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/schools/x/stats", body["instance"])
			assert.Equal(t, "trace-1", body["trace_id"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_ValidationExtension(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	err := validator.New().Struct(medianParams{Threshold: -5, Format: "csv"})

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schools/1/median", nil), err)

	body := decodeProblem(t, rec)
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)

	first := errs[0].(map[string]interface{})
	assert.Equal(t, "Threshold", first["field"])
	assert.Equal(t, "Threshold must be at least 0", first["message"])
}

func TestErrorHandler_LogLevels(t *testing.T) {
	logger, records := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(httptest.NewRecorder(), req, &enrollment.InvalidSchoolError{})
	handler.HandleError(httptest.NewRecorder(), req, assert.AnError)

	assert.Len(t, records.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Len(t, records.GetRecordsByLevel(slog.LevelError), 1)
	testutil.AssertLogAttr(t, records, "component", "error_handler")
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	handler := NewErrorHandler(nil, true)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, req, assert.AnError)
	assert.Contains(t, decodeProblem(t, rec), "stack")

	// client errors never carry a stack
	rec = httptest.NewRecorder()
	handler.HandleError(rec, req, &enrollment.InvalidSchoolError{})
	assert.NotContains(t, decodeProblem(t, rec), "stack")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/schools", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeMethod, body["type"])
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", body["detail"])
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, records := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	panicky := RecoveryMiddleware(handler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		panicky.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/general", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "boom", body["panic"])
	testutil.AssertLogContains(t, records, slog.LevelError, "panic recovered")

	// handlers that do not panic pass through
	ok := RecoveryMiddleware(handler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec = httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoveryMiddleware_AbortHandler(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	aborting := RecoveryMiddleware(handler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
