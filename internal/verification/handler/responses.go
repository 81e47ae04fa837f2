package handler

import (
	"time"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// VerifyResponse is the HTTP response for POST /v1/verifications.
type VerifyResponse struct {
	VerificationID    string            `json:"verification_id"`
	OverallConfidence int               `json:"overall_confidence"`
	RiskLevel         string            `json:"risk_level"`
	Issues            []IssueResponse   `json:"issues"`
	Recommendations   []string          `json:"recommendations"`
	AuditTrail        []AuditResponse   `json:"audit_trail"`
	ProcessingTimeMS  int64             `json:"processing_time_ms"`
	Timestamp         time.Time         `json:"timestamp"`
}

// IssueResponse is one finding in the response.
type IssueResponse struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Severity     string   `json:"severity"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description"`
	Evidence     []string `json:"evidence,omitempty"`
	Confidence   int      `json:"confidence"`
	ModuleSource string   `json:"module_source"`
}

// AuditResponse is one audit trail entry in the response.
type AuditResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Component string            `json:"component"`
	Details   map[string]string `json:"details,omitempty"`
}

// FromResult converts the engine verdict to an HTTP response.
func FromResult(result *models.VerificationResult) *VerifyResponse {
	issues := make([]IssueResponse, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, IssueResponse{
			ID:           issue.ID,
			Type:         string(issue.Type),
			Severity:     string(issue.Severity),
			Location:     issue.Location,
			Description:  issue.Description,
			Evidence:     issue.Evidence,
			Confidence:   issue.Confidence,
			ModuleSource: issue.ModuleSource,
		})
	}

	trail := make([]AuditResponse, 0, len(result.AuditTrail))
	for _, entry := range result.AuditTrail {
		trail = append(trail, AuditResponse{
			Timestamp: entry.Timestamp,
			Action:    string(entry.Action),
			Component: entry.Component,
			Details:   entry.Details,
		})
	}

	return &VerifyResponse{
		VerificationID:    result.VerificationID,
		OverallConfidence: result.OverallConfidence,
		RiskLevel:         string(result.RiskLevel),
		Issues:            issues,
		Recommendations:   result.Recommendations,
		AuditTrail:        trail,
		ProcessingTimeMS:  result.ProcessingTime.Milliseconds(),
		Timestamp:         result.Timestamp,
	}
}
