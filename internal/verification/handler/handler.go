package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/platform/middleware"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	dErrors "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/domain-errors"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/httputil"
)

// Engine is the orchestration interface the handler depends on.
type Engine interface {
	Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error)
	Cancel(verificationID string) bool
	ActiveCount() int
	RegisteredModules() []models.Domain
}

// Handler wires verification endpoints to the engine.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verifications", h.HandleVerify)
	r.Delete("/verifications/{id}", h.HandleCancel)
	r.Get("/verifications/active", h.HandleActiveCount)
	r.Get("/modules", h.HandleModules)
}

// HandleVerify handles POST /v1/verifications.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.Decode[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	userID := middleware.UserID(ctx)
	orgID := middleware.OrganizationID(ctx)

	result, err := h.engine.Verify(ctx, req.ToModel(userID, orgID))
	if err != nil {
		h.logger.WarnContext(ctx, "verification failed",
			"domain", req.Domain,
			"content_id", req.Content.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification served",
		"verification_id", result.VerificationID,
		"domain", req.Domain,
		"risk_level", result.RiskLevel,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleCancel handles DELETE /v1/verifications/{id}.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.engine.Cancel(id) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "verification not found or already finished"))
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

// HandleActiveCount handles GET /v1/verifications/active.
func (h *Handler) HandleActiveCount(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"active": h.engine.ActiveCount()})
}

// HandleModules handles GET /v1/modules.
func (h *Handler) HandleModules(w http.ResponseWriter, r *http.Request) {
	domains := h.engine.RegisteredModules()
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		out = append(out, string(d))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"modules": out})
}
