package handler

import (
	"strings"
	"time"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	dErrors "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/domain-errors"
)

// VerifyRequest is the HTTP request body for POST /v1/verifications.
type VerifyRequest struct {
	Content struct {
		ID            string            `json:"id"`
		ExtractedText string            `json:"extracted_text"`
		Structure     map[string]any    `json:"structure,omitempty"`
		Entities      []models.Entity   `json:"entities,omitempty"`
		Metadata      map[string]string `json:"metadata,omitempty"`
	} `json:"content"`
	Domain  string `json:"domain"`
	Urgency string `json:"urgency"`
	Options struct {
		ConfidenceThreshold *int  `json:"confidence_threshold,omitempty"`
		ModuleTimeoutMS     int64 `json:"module_timeout_ms,omitempty"`
	} `json:"options"`

	parsedDomain models.Domain
}

// Validate implements httputil.Validatable. Full request validation happens
// in the engine; this only rejects what the transport can see is hopeless.
func (r *VerifyRequest) Validate() error {
	if strings.TrimSpace(r.Content.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "content.id is required")
	}
	if strings.TrimSpace(r.Content.ExtractedText) == "" {
		return dErrors.New(dErrors.CodeValidation, "content.extracted_text is required")
	}
	domain, err := models.ParseDomain(r.Domain)
	if err != nil {
		return err
	}
	r.parsedDomain = domain
	if r.Options.ModuleTimeoutMS < 0 {
		return dErrors.New(dErrors.CodeValidation, "options.module_timeout_ms must be non-negative")
	}
	return nil
}

// ToModel builds the engine request, filling identity from the authenticated
// caller.
func (r *VerifyRequest) ToModel(userID, organizationID string) *models.VerificationRequest {
	urgency := models.Urgency(strings.ToLower(r.Urgency))
	switch urgency {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
	default:
		urgency = models.UrgencyMedium
	}

	return &models.VerificationRequest{
		Content: models.ParsedContent{
			ID:            r.Content.ID,
			ExtractedText: r.Content.ExtractedText,
			Structure:     r.Content.Structure,
			Entities:      r.Content.Entities,
			Metadata:      r.Content.Metadata,
		},
		Domain:         r.parsedDomain,
		Urgency:        urgency,
		UserID:         userID,
		OrganizationID: organizationID,
		Options: models.Options{
			ConfidenceThreshold: r.Options.ConfidenceThreshold,
			ModuleTimeout:       time.Duration(r.Options.ModuleTimeoutMS) * time.Millisecond,
		},
	}
}
