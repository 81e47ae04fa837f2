// Package modules ships the built-in domain modules registered at startup.
// Each implements models.DomainModule and self-filters: the engine invokes
// every registered module for every request, and a module that does not
// apply to the request's content answers with an empty result.
package modules

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

var (
	percentPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	absolutePattern = regexp.MustCompile(`(?i)\b(always|never|guaranteed|impossible|100% certain)\b`)
)

// FactCheck flags implausible quantitative claims and absolute assertions.
// It applies to every domain, so it registers under a domain key of its own.
type FactCheck struct{}

func NewFactCheck() *FactCheck { return &FactCheck{} }

func (f *FactCheck) Domain() models.Domain { return "fact-checker" }

func (f *FactCheck) ValidateContent(ctx context.Context, content models.ParsedContent) (*models.ValidationResult, error) {
	start := time.Now()
	var issues []models.Issue

	for _, match := range percentPattern.FindAllStringSubmatch(content.ExtractedText, -1) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if value > 100 {
			issues = append(issues, models.Issue{
				ID:           uuid.NewString(),
				Type:         models.IssueFactualError,
				Severity:     models.SeverityHigh,
				Description:  fmt.Sprintf("percentage value %s%% exceeds 100%%", match[1]),
				Evidence:     []string{match[0]},
				Confidence:   95,
				ModuleSource: string(f.Domain()),
			})
		}
	}

	for _, match := range absolutePattern.FindAllString(content.ExtractedText, -1) {
		issues = append(issues, models.Issue{
			ID:           uuid.NewString(),
			Type:         models.IssueFactualError,
			Severity:     models.SeverityLow,
			Description:  fmt.Sprintf("absolute claim %q is rarely verifiable", match),
			Evidence:     []string{match},
			Confidence:   60,
			ModuleSource: string(f.Domain()),
		})
	}

	return &models.ValidationResult{
		ModuleID:       string(f.Domain()),
		Issues:         issues,
		Confidence:     confidenceFromIssues(issues),
		ProcessingTime: time.Since(start),
	}, nil
}

// confidenceFromIssues discounts the module's confidence in the content by
// the weight of what it found. Floor of 20 keeps one noisy document from
// zeroing the aggregate.
func confidenceFromIssues(issues []models.Issue) int {
	confidence := 100
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical:
			confidence -= 30
		case models.SeverityHigh:
			confidence -= 20
		case models.SeverityMedium:
			confidence -= 10
		case models.SeverityLow:
			confidence -= 5
		}
	}
	if confidence < 20 {
		confidence = 20
	}
	return confidence
}
