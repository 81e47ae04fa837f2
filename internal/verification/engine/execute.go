package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// moduleReturn carries one module invocation's outcome across the
// abandonment boundary.
type moduleReturn struct {
	result *models.ValidationResult
	err    error
}

// runModules fans out to every module in the registry snapshot, one
// goroutine per module, each racing a deadline. Every registered module is
// invoked regardless of the request's domain; modules self-filter. A module
// error, panic, or timeout excludes that module from aggregation and never
// aborts the verification.
func (e *Engine) runModules(ctx context.Context, req *models.VerificationRequest, trail *auditTrail) []*models.ValidationResult {
	mods := e.snapshotModules()
	if len(mods) == 0 {
		return nil
	}

	timeout := e.cfg.DefaultTimeout
	if req.Options.ModuleTimeout > 0 {
		timeout = req.Options.ModuleTimeout
	}

	results := make([]*models.ValidationResult, len(mods))

	g, gctx := errgroup.WithContext(ctx)
	for i, mod := range mods {
		g.Go(func() error {
			moduleID := string(mod.Domain())
			start := time.Now()

			mctx, span := e.tracer.Start(gctx, "verification.module."+moduleID)
			mctx, cancel := context.WithTimeout(mctx, timeout)
			res, err := invoke(mctx, mod, req.Content)
			cancel()
			span.End()

			elapsed := time.Since(start)
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				e.metrics.ObserveModule(moduleID, "timeout", elapsed)
				trail.append(models.ActionModuleTimedOut, map[string]string{
					"module":     moduleID,
					"timeout_ms": fmt.Sprintf("%d", timeout.Milliseconds()),
				})
			case errors.Is(err, context.Canceled):
				// Verification-level cancellation; Verify reports it once.
			case err != nil:
				e.metrics.ObserveModule(moduleID, "failed", elapsed)
				trail.append(models.ActionModuleFailed, map[string]string{
					"module": moduleID,
					"error":  err.Error(),
				})
			default:
				if res.ProcessingTime == 0 {
					res.ProcessingTime = elapsed
				}
				results[i] = res
				e.metrics.ObserveModule(moduleID, "completed", elapsed)
				trail.append(models.ActionModuleCompleted, map[string]string{
					"module":             moduleID,
					"processing_time_ms": fmt.Sprintf("%d", res.ProcessingTime.Milliseconds()),
					"issue_count":        fmt.Sprintf("%d", len(res.Issues)),
				})
			}
			// Module outcomes never fail the group: siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	succeeded := make([]*models.ValidationResult, 0, len(mods))
	for _, r := range results {
		if r != nil {
			succeeded = append(succeeded, r)
		}
	}
	return succeeded
}

// invoke runs one module in its own goroutine so a deadline abandons the
// module rather than waiting it out. The loser goroutine may keep running
// until it notices its context; its eventual result is discarded through the
// buffered channel.
func invoke(ctx context.Context, mod models.DomainModule, content models.ParsedContent) (*models.ValidationResult, error) {
	ch := make(chan moduleReturn, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- moduleReturn{err: fmt.Errorf("module panic: %v", r)}
			}
		}()
		res, err := mod.ValidateContent(ctx, content)
		if err == nil && res == nil {
			err = errors.New("module returned no result")
		}
		ch <- moduleReturn{result: res, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
