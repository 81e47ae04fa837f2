package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/cache"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/processor"
	dErrors "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/domain-errors"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/sentinel"
)

// Verify runs one verification end to end. Only validation failures,
// capacity rejection, and explicit cancellation surface as errors; module
// failures and timeouts degrade to a best-effort result.
func (e *Engine) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResult, error) {
	// Admission control comes first: reject before doing any work, never queue.
	if !e.sem.TryAcquire(1) {
		e.metrics.ObserveOutcome("rejected")
		return nil, dErrors.Newf(dErrors.CodeCapacityExceeded,
			"verification capacity of %d exceeded, retry later", e.cfg.MaxConcurrentVerifications)
	}
	defer e.sem.Release(1)

	e.active.Add(1)
	defer e.active.Add(-1)
	e.metrics.SetActive(e.ActiveCount())
	defer func() { e.metrics.SetActive(e.ActiveCount()) }()

	if err := req.Validate(); err != nil {
		e.metrics.ObserveOutcome("invalid")
		return nil, err
	}

	verificationID := uuid.NewString()
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "verification.verify", trace.WithAttributes())
	defer span.End()

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.trackCancel(verificationID, cancel)
	defer e.untrackCancel(verificationID)

	fingerprint := ""
	if e.cachingEnabled() {
		fingerprint = cache.Key(cache.ContentHash(req.Content), req.Domain, req.Options)
		if cached := e.probeCache(callCtx, fingerprint); cached != nil {
			e.metrics.ObserveOutcome("cached")
			hit := cached.Clone()
			hit.VerificationID = verificationID
			return hit, nil
		}
	}

	trail := newTrail(req.UserID)
	trail.append(models.ActionVerificationStarted, map[string]string{
		"domain":     string(req.Domain),
		"urgency":    string(req.Urgency),
		"content_id": req.Content.ID,
	})

	outcomes := e.runModules(callCtx, req, trail)

	// Explicit cancellation (or caller abandonment) beats partial aggregation.
	if err := callCtx.Err(); errors.Is(err, context.Canceled) {
		trail.append(models.ActionVerificationCancelled, nil)
		e.flushTrail(req, verificationID, trail)
		e.metrics.ObserveOutcome("cancelled")
		return nil, dErrors.New(dErrors.CodeCancelled, "verification cancelled")
	}

	result := e.processor.Process(verificationID, fingerprint, req, outcomes, time.Since(start))
	e.applyConfidenceThreshold(req, result)

	trail.append(models.ActionVerificationCompleted, map[string]string{
		"overall_confidence": strconv.Itoa(result.OverallConfidence),
		"risk_level":         string(result.RiskLevel),
		"issue_count":        strconv.Itoa(len(result.Issues)),
	})
	result.AuditTrail = trail.entries()
	result.ProcessingTime = time.Since(start)

	e.flushTrail(req, verificationID, trail)
	e.storeCache(fingerprint, result)
	e.metrics.ObserveOutcome("completed")

	e.logger.InfoContext(ctx, "verification completed",
		"verification_id", verificationID,
		"domain", req.Domain,
		"modules_succeeded", len(outcomes),
		"overall_confidence", result.OverallConfidence,
		"risk_level", result.RiskLevel,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (e *Engine) cachingEnabled() bool {
	return e.cfg.EnableCaching && e.results != nil
}

// probeCache returns the cached result for the fingerprint, or nil. Backend
// unavailability degrades to a miss: the verification proceeds uncached.
func (e *Engine) probeCache(ctx context.Context, fingerprint string) *models.VerificationResult {
	cached, err := e.results.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			e.logger.WarnContext(ctx, "results cache unavailable, proceeding uncached", "error", err)
		}
		e.metrics.IncrementCacheMisses()
		return nil
	}
	e.metrics.IncrementCacheHits()
	return cached
}

// storeCache writes the result under its fingerprint, detached from the
// caller: a cache write failure never fails the verification. There is no
// single-flight barrier: two callers racing on the same fingerprint may both
// compute and both write, last write wins.
func (e *Engine) storeCache(fingerprint string, result *models.VerificationResult) {
	if fingerprint == "" || !e.cachingEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.results.Set(ctx, fingerprint, result); err != nil {
			e.logger.Warn("results cache store failed", "error", err)
		}
	}()
}

// applyConfidenceThreshold appends the synthetic advisory issue when the
// aggregated confidence falls below the per-request threshold.
func (e *Engine) applyConfidenceThreshold(req *models.VerificationRequest, result *models.VerificationResult) {
	threshold := req.Options.ConfidenceThreshold
	if threshold == nil || result.OverallConfidence >= *threshold {
		return
	}
	result.Issues = append(result.Issues, models.Issue{
		ID:       uuid.NewString(),
		Type:     models.IssueLogicalInconsistency,
		Severity: models.SeverityLow,
		Description: fmt.Sprintf("overall confidence %d is below the requested threshold of %d",
			result.OverallConfidence, *threshold),
		Confidence:   100,
		ModuleSource: component,
	})
	processor.SortIssues(result.Issues)
}
