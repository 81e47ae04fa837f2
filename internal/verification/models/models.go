// Package models holds the shared contracts of the verification engine:
// requests, per-module results, issues, the aggregated verdict, and the
// audit trail entries built during one verification call.
package models

import (
	"strings"
	"time"

	dErrors "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/domain-errors"
)

// Domain identifies the subject-matter area of a verification request.
type Domain string

const (
	DomainLegal      Domain = "legal"
	DomainFinancial  Domain = "financial"
	DomainHealthcare Domain = "healthcare"
	DomainInsurance  Domain = "insurance"
)

// knownDomains is the closed set of recognized request domains. Modules may
// register under other keys (e.g. a fact checker that applies everywhere),
// but requests must name one of these.
var knownDomains = map[Domain]bool{
	DomainLegal:      true,
	DomainFinancial:  true,
	DomainHealthcare: true,
	DomainInsurance:  true,
}

// ParseDomain validates and normalizes a domain string.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !knownDomains[d] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown domain %q", s)
	}
	return d, nil
}

// Urgency expresses caller priority. It is carried through to the audit
// trail but does not change scheduling: admission control is strict FCFS.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Entity is a named entity extracted by the upstream parsers. Opaque to the
// engine; carried for module use.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ParsedContent is the parser output consumed by the engine. The engine
// validates only ID and ExtractedText; everything else is opaque.
type ParsedContent struct {
	ID            string            `json:"id"`
	ExtractedText string            `json:"extracted_text"`
	Structure     map[string]any    `json:"structure,omitempty"`
	Entities      []Entity          `json:"entities,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Options are per-request overrides of engine configuration.
type Options struct {
	// ConfidenceThreshold, when set, causes a synthetic advisory issue to be
	// appended whenever the aggregated confidence falls below it. Range 0-100.
	ConfidenceThreshold *int `json:"confidence_threshold,omitempty"`

	// ModuleTimeout overrides the engine's default per-module deadline.
	ModuleTimeout time.Duration `json:"module_timeout,omitempty"`
}

// VerificationRequest is the immutable input of one verification call.
type VerificationRequest struct {
	Content        ParsedContent `json:"content"`
	Domain         Domain        `json:"domain"`
	Urgency        Urgency       `json:"urgency"`
	UserID         string        `json:"user_id"`
	OrganizationID string        `json:"organization_id"`
	Options        Options       `json:"options"`
}

// Validate rejects malformed requests before any module runs.
func (r *VerificationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request is required")
	}
	if strings.TrimSpace(r.Content.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "content id is required")
	}
	if strings.TrimSpace(r.Content.ExtractedText) == "" {
		return dErrors.New(dErrors.CodeValidation, "content extracted_text is required")
	}
	if _, err := ParseDomain(string(r.Domain)); err != nil {
		return err
	}
	if t := r.Options.ConfidenceThreshold; t != nil && (*t < 0 || *t > 100) {
		return dErrors.New(dErrors.CodeValidation, "confidence_threshold must be between 0 and 100")
	}
	return nil
}

// IssueType tags what kind of problem a module found.
type IssueType string

const (
	IssueFactualError         IssueType = "factual_error"
	IssueLogicalInconsistency IssueType = "logical_inconsistency"
	IssueComplianceViolation  IssueType = "compliance_violation"
	IssueNumericalError       IssueType = "numerical_error"
)

// Severity orders issues. Rank gives the sort weight: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the numeric weight of a severity. Unknown severities rank
// lowest so a misbehaving module cannot push its findings to the top.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Issue is a single finding. Immutable once created.
type Issue struct {
	ID           string    `json:"id"`
	Type         IssueType `json:"type"`
	Severity     Severity  `json:"severity"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description"`
	Evidence     []string  `json:"evidence,omitempty"`
	Confidence   int       `json:"confidence"`
	ModuleSource string    `json:"module_source"`
}

// ValidationResult is the output of one module invocation.
type ValidationResult struct {
	ModuleID       string            `json:"module_id"`
	Issues         []Issue           `json:"issues"`
	Confidence     int               `json:"confidence"`
	ProcessingTime time.Duration     `json:"processing_time"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// RiskLevel is the final classification of a verification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// VerificationResult is the aggregated verdict. Created once per request,
// cached, never mutated afterwards; cache hits get a shallow copy with the
// VerificationID rewritten.
type VerificationResult struct {
	VerificationID    string        `json:"verification_id"`
	OverallConfidence int           `json:"overall_confidence"`
	RiskLevel         RiskLevel     `json:"risk_level"`
	Issues            []Issue       `json:"issues"`
	AuditTrail        []AuditEntry  `json:"audit_trail"`
	ProcessingTime    time.Duration `json:"processing_time"`
	Recommendations   []string      `json:"recommendations"`
	Timestamp         time.Time     `json:"timestamp"`
}

// Clone returns a shallow copy safe to relabel without touching the cached
// original. Slices are copied so later sorts on the copy cannot reorder the
// original's backing arrays.
func (r *VerificationResult) Clone() *VerificationResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Issues = append([]Issue(nil), r.Issues...)
	cp.AuditTrail = append([]AuditEntry(nil), r.AuditTrail...)
	cp.Recommendations = append([]string(nil), r.Recommendations...)
	return &cp
}

// AuditAction names a step in the verification lifecycle.
type AuditAction string

const (
	ActionVerificationStarted   AuditAction = "verification_started"
	ActionModuleCompleted       AuditAction = "module_completed"
	ActionModuleFailed          AuditAction = "module_failed"
	ActionModuleTimedOut        AuditAction = "module_timed_out"
	ActionVerificationCancelled AuditAction = "verification_cancelled"
	ActionVerificationCompleted AuditAction = "verification_completed"
)

// AuditEntry is one step of a verification's audit trail. Entries are
// appended in occurrence order; concurrent module entries are not totally
// ordered against each other, only the start and completion entries are
// guaranteed first and last.
type AuditEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    AuditAction       `json:"action"`
	Component string            `json:"component"`
	UserID    string            `json:"user_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}
