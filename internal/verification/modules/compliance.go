package modules

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// complianceRule is one prohibited-phrase rule for a domain.
type complianceRule struct {
	pattern     *regexp.Regexp
	severity    models.Severity
	description string
}

// complianceRules maps each supported request domain to its phrase rules.
// Requests for other domains are answered with an empty result; this is the
// module-side gating the engine's permissive fan-out relies on.
var complianceRules = map[models.Domain][]complianceRule{
	models.DomainHealthcare: {
		{
			pattern:     regexp.MustCompile(`(?i)\b(guaranteed cure|miracle treatment|no side effects)\b`),
			severity:    models.SeverityCritical,
			description: "unsubstantiated medical efficacy claim",
		},
	},
	models.DomainFinancial: {
		{
			pattern:     regexp.MustCompile(`(?i)\b(risk[- ]free returns?|guaranteed profits?)\b`),
			severity:    models.SeverityCritical,
			description: "prohibited investment return guarantee",
		},
		{
			pattern:     regexp.MustCompile(`(?i)\binsider information\b`),
			severity:    models.SeverityHigh,
			description: "reference to material non-public information",
		},
	},
	models.DomainLegal: {
		{
			pattern:     regexp.MustCompile(`(?i)\bthis (constitutes|is) legal advice\b`),
			severity:    models.SeverityHigh,
			description: "legal advice asserted without engagement disclaimer",
		},
	},
	models.DomainInsurance: {
		{
			pattern:     regexp.MustCompile(`(?i)\b(covers? (everything|all cases)|no exclusions apply)\b`),
			severity:    models.SeverityHigh,
			description: "coverage claim contradicting standard policy exclusions",
		},
	},
}

// Compliance scans content for phrases prohibited in its registered domain.
type Compliance struct {
	domain models.Domain
}

// NewCompliance builds a compliance module for one domain. One instance per
// domain is registered so each domain key resolves to its own rule set.
func NewCompliance(domain models.Domain) *Compliance {
	return &Compliance{domain: domain}
}

func (c *Compliance) Domain() models.Domain { return c.domain }

func (c *Compliance) ValidateContent(ctx context.Context, content models.ParsedContent) (*models.ValidationResult, error) {
	start := time.Now()

	rules := complianceRules[c.domain]
	// Domain hint in content metadata lets the module skip content that was
	// parsed for a different domain than the one it registered under.
	if hint, ok := content.Metadata["domain"]; ok && !strings.EqualFold(hint, string(c.domain)) {
		rules = nil
	}

	var issues []models.Issue
	for _, rule := range rules {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for _, match := range rule.pattern.FindAllString(content.ExtractedText, -1) {
			issues = append(issues, models.Issue{
				ID:           uuid.NewString(),
				Type:         models.IssueComplianceViolation,
				Severity:     rule.severity,
				Description:  fmt.Sprintf("%s: %q", rule.description, match),
				Evidence:     []string{match},
				Confidence:   90,
				ModuleSource: string(c.domain),
			})
		}
	}

	return &models.ValidationResult{
		ModuleID:       string(c.domain),
		Issues:         issues,
		Confidence:     confidenceFromIssues(issues),
		ProcessingTime: time.Since(start),
	}, nil
}
