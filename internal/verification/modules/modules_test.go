package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

func content(text string, metadata map[string]string) models.ParsedContent {
	return models.ParsedContent{ID: "doc-1", ExtractedText: text, Metadata: metadata}
}

func TestFactCheck(t *testing.T) {
	ctx := context.Background()
	mod := NewFactCheck()

	t.Run("flags percentages above 100", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx, content("market share grew to 150% last quarter", nil))
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, models.IssueFactualError, res.Issues[0].Type)
		assert.Equal(t, models.SeverityHigh, res.Issues[0].Severity)
		assert.Contains(t, res.Issues[0].Description, "150%")
		assert.Equal(t, 80, res.Confidence)
	})

	t.Run("accepts plausible percentages", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx, content("retention improved from 85% to 92%", nil))
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
		assert.Equal(t, 100, res.Confidence)
	})

	t.Run("flags absolute claims as low severity", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx, content("this investment never loses money", nil))
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, models.SeverityLow, res.Issues[0].Severity)
		assert.Equal(t, 95, res.Confidence)
	})

	t.Run("confidence never drops below the floor", func(t *testing.T) {
		text := "120% 130% 140% 150% 160% 170%"
		res, err := mod.ValidateContent(ctx, content(text, nil))
		require.NoError(t, err)
		require.Len(t, res.Issues, 6)
		assert.Equal(t, 20, res.Confidence)
	})
}

func TestNumeric(t *testing.T) {
	ctx := context.Background()
	mod := NewNumeric()

	t.Run("flags wrong sums", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx,
			content("total exposure: 100.50 + 200.25 = 350.75", map[string]string{"domain": "financial"}))
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, models.IssueNumericalError, res.Issues[0].Type)
		assert.Equal(t, models.SeverityMedium, res.Issues[0].Severity)
	})

	t.Run("accepts correct sums", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx,
			content("total exposure: 100.50 + 200.25 = 300.75", map[string]string{"domain": "financial"}))
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
	})

	t.Run("skips non-financial content", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx,
			content("damages: 100 + 200 = 999", map[string]string{"domain": "legal"}))
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
		assert.Equal(t, 100, res.Confidence)
	})

	t.Run("runs without a domain hint", func(t *testing.T) {
		res, err := mod.ValidateContent(ctx, content("100 + 200 = 999", nil))
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
	})
}

func TestCompliance(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		domain       models.Domain
		text         string
		wantSeverity models.Severity
	}{
		{"healthcare efficacy claim", models.DomainHealthcare,
			"our guaranteed cure resolves symptoms in days", models.SeverityCritical},
		{"financial return guarantee", models.DomainFinancial,
			"the fund offers risk-free returns to qualified investors", models.SeverityCritical},
		{"financial insider reference", models.DomainFinancial,
			"positioned based on insider information from the board", models.SeverityHigh},
		{"legal advice assertion", models.DomainLegal,
			"this constitutes legal advice for your situation", models.SeverityHigh},
		{"insurance coverage overreach", models.DomainInsurance,
			"this policy covers everything with no deductible", models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := NewCompliance(tt.domain)
			res, err := mod.ValidateContent(ctx, content(tt.text, map[string]string{"domain": string(tt.domain)}))
			require.NoError(t, err)
			require.Len(t, res.Issues, 1)
			assert.Equal(t, models.IssueComplianceViolation, res.Issues[0].Type)
			assert.Equal(t, tt.wantSeverity, res.Issues[0].Severity)
		})
	}

	t.Run("clean content passes", func(t *testing.T) {
		mod := NewCompliance(models.DomainHealthcare)
		res, err := mod.ValidateContent(ctx,
			content("treatment outcomes vary by patient", map[string]string{"domain": "healthcare"}))
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
		assert.Equal(t, 100, res.Confidence)
	})

	t.Run("mismatched domain hint disables the rules", func(t *testing.T) {
		mod := NewCompliance(models.DomainFinancial)
		res, err := mod.ValidateContent(ctx,
			content("risk-free returns guaranteed", map[string]string{"domain": "legal"}))
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
	})
}
