package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/handler"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/testutil"
)

// captureEngine records the request the handler built from the HTTP payload.
type captureEngine struct {
	req *models.VerificationRequest
}

func (c *captureEngine) Verify(_ context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	c.req = req
	return &models.VerificationResult{
		VerificationID:    "ver-1",
		OverallConfidence: 100,
		RiskLevel:         models.RiskLow,
		Issues:            []models.Issue{},
	}, nil
}

func (c *captureEngine) Cancel(string) bool                 { return false }
func (c *captureEngine) ActiveCount() int                   { return 0 }
func (c *captureEngine) RegisteredModules() []models.Domain { return nil }

func TestVerifyCarriesCallerIdentity(t *testing.T) {
	eng := &captureEngine{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := chi.NewRouter()
	handler.New(eng, log).Register(router)

	payload := map[string]any{
		"content": map[string]any{"id": "doc-1", "extracted_text": "text"},
		"domain":  "healthcare",
		"urgency": "HIGH",
		"options": map[string]any{"confidence_threshold": 80, "module_timeout_ms": 1500},
	}
	req := testutil.WithIdentity(
		testutil.NewJSONRequest(t, http.MethodPost, "/verifications", payload),
		"user-7", "org-3",
	)

	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	got := testutil.UnmarshalResponse[handler.VerifyResponse](t, rr)
	assert.Equal(t, "ver-1", got.VerificationID)

	require.NotNil(t, eng.req)
	assert.Equal(t, "user-7", eng.req.UserID)
	assert.Equal(t, "org-3", eng.req.OrganizationID)
	assert.Equal(t, models.DomainHealthcare, eng.req.Domain)
	assert.Equal(t, models.UrgencyHigh, eng.req.Urgency)
	require.NotNil(t, eng.req.Options.ConfidenceThreshold)
	assert.Equal(t, 80, *eng.req.Options.ConfidenceThreshold)
	assert.Equal(t, int64(1500), eng.req.Options.ModuleTimeout.Milliseconds())
}
