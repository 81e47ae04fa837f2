package modules

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

var arithmeticPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+\s*(\d+(?:\.\d+)?)\s*=\s*(\d+(?:\.\d+)?)`)

// Numeric checks stated arithmetic in financial content. It registers under
// its own key and no-ops for content parsed under any other domain,
// demonstrating module-side gating.
type Numeric struct{}

func NewNumeric() *Numeric { return &Numeric{} }

func (n *Numeric) Domain() models.Domain { return "numeric-checker" }

func (n *Numeric) ValidateContent(ctx context.Context, content models.ParsedContent) (*models.ValidationResult, error) {
	start := time.Now()

	text := content.ExtractedText
	if hint, ok := content.Metadata["domain"]; ok && !strings.EqualFold(hint, string(models.DomainFinancial)) {
		text = ""
	}

	var issues []models.Issue
	for _, match := range arithmeticPattern.FindAllStringSubmatch(text, -1) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a, errA := strconv.ParseFloat(match[1], 64)
		b, errB := strconv.ParseFloat(match[2], 64)
		sum, errSum := strconv.ParseFloat(match[3], 64)
		if errA != nil || errB != nil || errSum != nil {
			continue
		}
		if diff := a + b - sum; diff > 0.005 || diff < -0.005 {
			issues = append(issues, models.Issue{
				ID:           uuid.NewString(),
				Type:         models.IssueNumericalError,
				Severity:     models.SeverityMedium,
				Description:  fmt.Sprintf("stated sum is wrong: %s + %s is not %s", match[1], match[2], match[3]),
				Evidence:     []string{match[0]},
				Confidence:   98,
				ModuleSource: string(n.Domain()),
			})
		}
	}

	return &models.ValidationResult{
		ModuleID:       string(n.Domain()),
		Issues:         issues,
		Confidence:     confidenceFromIssues(issues),
		ProcessingTime: time.Since(start),
	}, nil
}
