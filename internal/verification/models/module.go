package models

import "context"

// DomainModule is the pluggable analysis capability. Implementations inspect
// parsed content and return issues with a confidence score for one
// subject-matter area.
//
// The engine invokes every registered module for every request regardless of
// the request's domain; modules that do not apply are expected to no-op with
// an empty result. Implementations must honor ctx cancellation, must not
// panic (a panic is contained and recorded as a module failure), and must be
// safe for concurrent use.
type DomainModule interface {
	// Domain is the registry key the module registers under.
	Domain() Domain

	// ValidateContent analyzes the content and reports findings.
	ValidateContent(ctx context.Context, content ParsedContent) (*ValidationResult, error)
}
