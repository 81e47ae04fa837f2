// Package engine orchestrates content verification: it admits requests under
// a global concurrency cap, fans out to every registered domain module with a
// per-module deadline, aggregates whatever succeeded into a single verdict,
// and caches the result for identical requests.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/cache"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/metrics"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/processor"
	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

const component = "verification-engine"

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// MaxConcurrentVerifications caps in-flight calls. Calls above the cap are
	// rejected immediately; the engine never queues.
	MaxConcurrentVerifications int64

	// DefaultTimeout bounds each module invocation unless the request
	// overrides it.
	DefaultTimeout time.Duration

	// EnableCaching controls the results cache probe and store.
	EnableCaching bool
}

const (
	defaultMaxConcurrent = 10
	defaultModuleTimeout = 30 * time.Second
)

// Emitter is the audit emission capability the engine depends on. Emit must
// not block; false means the event was dropped.
type Emitter interface {
	Emit(event audit.Event) bool
}

// Engine is safe for concurrent use by multiple callers. The module registry
// is snapshotted per call: register/unregister never corrupts an in-flight
// verification, but may not be visible to it either.
type Engine struct {
	cfg Config

	registryMu sync.RWMutex
	modules    map[models.Domain]models.DomainModule

	sem       *semaphore.Weighted
	active    atomic.Int64
	inflight  sync.Mutex
	cancelers map[string]context.CancelFunc

	processor *processor.Processor
	results   cache.Cache
	emitter   Emitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithCache attaches a results cache. Ignored unless cfg.EnableCaching.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.results = c }
}

// WithEmitter attaches the audit emitter. Without one, trails are still
// returned on results but not persisted.
func WithEmitter(em Emitter) Option {
	return func(e *Engine) { e.emitter = em }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New builds an engine around a results processor.
func New(cfg Config, proc *processor.Processor, opts ...Option) *Engine {
	if cfg.MaxConcurrentVerifications <= 0 {
		cfg.MaxConcurrentVerifications = defaultMaxConcurrent
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultModuleTimeout
	}

	e := &Engine{
		cfg:       cfg,
		modules:   make(map[models.Domain]models.DomainModule),
		sem:       semaphore.NewWeighted(cfg.MaxConcurrentVerifications),
		cancelers: make(map[string]context.CancelFunc),
		processor: proc,
		tracer:    otel.Tracer(component),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// RegisterModule adds or replaces the module for its domain key.
func (e *Engine) RegisterModule(module models.DomainModule) {
	e.registryMu.Lock()
	defer e.registryMu.Unlock()
	e.modules[module.Domain()] = module
}

// UnregisterModule removes the module registered under domain, reporting
// whether one was present. In-flight verifications keep their snapshot.
func (e *Engine) UnregisterModule(domain models.Domain) bool {
	e.registryMu.Lock()
	defer e.registryMu.Unlock()
	_, ok := e.modules[domain]
	delete(e.modules, domain)
	return ok
}

// RegisteredModules lists the registry keys currently present.
func (e *Engine) RegisteredModules() []models.Domain {
	e.registryMu.RLock()
	defer e.registryMu.RUnlock()
	domains := make([]models.Domain, 0, len(e.modules))
	for d := range e.modules {
		domains = append(domains, d)
	}
	return domains
}

// snapshotModules copies the registry for one call.
func (e *Engine) snapshotModules() []models.DomainModule {
	e.registryMu.RLock()
	defer e.registryMu.RUnlock()
	mods := make([]models.DomainModule, 0, len(e.modules))
	for _, m := range e.modules {
		mods = append(mods, m)
	}
	return mods
}

// ActiveCount reports in-flight verifications.
func (e *Engine) ActiveCount() int {
	return int(e.active.Load())
}

// Cancel signals cancellation to an in-flight verification. Best-effort:
// returns false when the id is unknown or already finished, and a cancelled
// call may still return a partial result if it was past module execution.
func (e *Engine) Cancel(verificationID string) bool {
	e.inflight.Lock()
	cancel, ok := e.cancelers[verificationID]
	e.inflight.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

func (e *Engine) trackCancel(verificationID string, cancel context.CancelFunc) {
	e.inflight.Lock()
	e.cancelers[verificationID] = cancel
	e.inflight.Unlock()
}

func (e *Engine) untrackCancel(verificationID string) {
	e.inflight.Lock()
	delete(e.cancelers, verificationID)
	e.inflight.Unlock()
}
