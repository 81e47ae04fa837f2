// Package processor turns a set of per-module validation results into one
// scored, ranked verification verdict. It is a pure function of its inputs
// plus an optional short-lived memo keyed by request fingerprint.
package processor

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// Config tunes aggregation. Weights scale the mean module confidence per
// request domain; domains absent from the map use weight 1.0. MemoTTL <= 0
// disables the inner memo.
type Config struct {
	Weights map[models.Domain]float64
	MemoTTL time.Duration
}

// Processor aggregates module results. Safe for concurrent use.
type Processor struct {
	weights map[models.Domain]float64

	memoTTL time.Duration
	mu      sync.Mutex
	memo    map[string]memoEntry
}

type memoEntry struct {
	result   *models.VerificationResult
	storedAt time.Time
}

func New(cfg Config) *Processor {
	return &Processor{
		weights: cfg.Weights,
		memoTTL: cfg.MemoTTL,
		memo:    make(map[string]memoEntry),
	}
}

// Process builds the verdict for one verification. fingerprint keys the
// memo; pass "" to bypass it. Memoized and freshly computed calls produce
// identical confidence, risk, issues, and recommendations; only the
// verification id, timestamp, and processing time reflect the current call.
func (p *Processor) Process(
	verificationID string,
	fingerprint string,
	req *models.VerificationRequest,
	results []*models.ValidationResult,
	totalProcessingTime time.Duration,
) *models.VerificationResult {
	if memoized := p.lookup(fingerprint); memoized != nil {
		out := memoized.Clone()
		out.VerificationID = verificationID
		out.ProcessingTime = totalProcessingTime
		out.Timestamp = time.Now()
		return out
	}

	confidence := p.aggregateConfidence(req.Domain, results)
	issues := collectIssues(results)

	result := &models.VerificationResult{
		VerificationID:    verificationID,
		OverallConfidence: confidence,
		RiskLevel:         classifyRisk(confidence, issues),
		Issues:            issues,
		ProcessingTime:    totalProcessingTime,
		Recommendations:   recommendations(issues),
		Timestamp:         time.Now(),
	}

	p.store(fingerprint, result)
	return result
}

// aggregateConfidence is the mean module confidence scaled by the domain
// weight, rounded, clamped to [0,100]. Zero successful modules default to
// 100: with nothing flagged there is nothing to doubt.
func (p *Processor) aggregateConfidence(domain models.Domain, results []*models.ValidationResult) int {
	if len(results) == 0 {
		return 100
	}

	sum := 0
	for _, r := range results {
		sum += r.Confidence
	}
	mean := float64(sum) / float64(len(results))

	weight := 1.0
	if w, ok := p.weights[domain]; ok {
		weight = w
	}

	scaled := int(math.Round(mean * weight))
	if scaled < 0 {
		return 0
	}
	if scaled > 100 {
		return 100
	}
	return scaled
}

// collectIssues concatenates every module's issues and stable-sorts them by
// severity descending, ties broken by confidence descending. The ordering is
// deterministic regardless of module completion order.
func collectIssues(results []*models.ValidationResult) []models.Issue {
	var issues []models.Issue
	for _, r := range results {
		issues = append(issues, r.Issues...)
	}
	SortIssues(issues)
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues
}

// SortIssues orders issues in place: severity descending, then confidence
// descending. Exported so the engine keeps the ordering invariant after
// appending synthetic issues.
func SortIssues(issues []models.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if ri, rj := issues[i].Severity.Rank(), issues[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		return issues[i].Confidence > issues[j].Confidence
	})
}

// classifyRisk walks the decision table top to bottom, first match wins.
func classifyRisk(confidence int, issues []models.Issue) models.RiskLevel {
	mediumCount := 0
	hasHigh := false
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical:
			return models.RiskCritical
		case models.SeverityHigh:
			hasHigh = true
		case models.SeverityMedium:
			mediumCount++
		}
	}

	if confidence < 40 {
		return models.RiskCritical
	}
	if hasHigh || mediumCount >= 3 {
		return models.RiskHigh
	}
	if mediumCount > 0 {
		return models.RiskMedium
	}
	return models.RiskLow
}

func (p *Processor) lookup(fingerprint string) *models.VerificationResult {
	if fingerprint == "" || p.memoTTL <= 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.memo[fingerprint]
	if !ok {
		return nil
	}
	if time.Since(entry.storedAt) > p.memoTTL {
		delete(p.memo, fingerprint)
		return nil
	}
	return entry.result
}

// store memoizes a defensive copy: callers are free to mutate the returned
// result (appending synthetic issues, attaching the trail) without those
// mutations leaking into later memo hits.
func (p *Processor) store(fingerprint string, result *models.VerificationResult) {
	if fingerprint == "" || p.memoTTL <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memo[fingerprint] = memoEntry{result: result.Clone(), storedAt: time.Now()}
}
