package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage bool
	}{
		{"validation maps to 400", dErrors.New(dErrors.CodeValidation, "bad field"),
			http.StatusBadRequest, "validation_error", true},
		{"capacity maps to 429", dErrors.New(dErrors.CodeCapacityExceeded, "busy"),
			http.StatusTooManyRequests, "capacity_exceeded", true},
		{"cancelled maps to 409", dErrors.New(dErrors.CodeCancelled, "cancelled"),
			http.StatusConflict, "cancelled", true},
		{"not found maps to 404", dErrors.New(dErrors.CodeNotFound, "missing"),
			http.StatusNotFound, "not_found", true},
		{"unavailable maps to 503", dErrors.New(dErrors.CodeUnavailable, "redis down"),
			http.StatusServiceUnavailable, "unavailable", true},
		{"internal omits the description", dErrors.New(dErrors.CodeInternal, "pgx: connection refused"),
			http.StatusInternalServerError, "internal_error", false},
		{"uncoded error is internal", errors.New("something broke"),
			http.StatusInternalServerError, "internal_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
			if tt.wantMessage {
				assert.NotEmpty(t, body["error_description"])
			} else {
				assert.Empty(t, body["error_description"])
			}
		})
	}
}

type decodeTarget struct {
	Name string `json:"name"`
}

func (d *decodeTarget) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid body decodes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
		rec := httptest.NewRecorder()

		got, ok := Decode[decodeTarget](rec, req, logger)
		require.True(t, ok)
		assert.Equal(t, "ok", got.Name)
	})

	t.Run("malformed body writes bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name"`))
		rec := httptest.NewRecorder()

		_, ok := Decode[decodeTarget](rec, req, logger)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("failed validation writes the coded error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		_, ok := Decode[decodeTarget](rec, req, logger)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name is required")
	})
}
