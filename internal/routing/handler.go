package routing

import (
	"context"
	"fmt"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// Specialty tags a handler so routing bonuses and coverage checks stay
// exhaustive at compile time instead of relying on ad-hoc capability blobs.
type Specialty string

const (
	SpecialtyAccess     Specialty = "access"
	SpecialtyHardware   Specialty = "hardware"
	SpecialtySoftware   Specialty = "software"
	SpecialtyOnboarding Specialty = "onboarding"
	SpecialtyEscalation Specialty = "escalation"
	SpecialtyKnowledge  Specialty = "knowledge"
)

// Handler is a specialist capable of fully processing a classified request.
type Handler interface {
	Name() string
	Specialty() Specialty
	// Keywords are the specialization terms used by the router's keyword
	// match signal.
	Keywords() []string
	CanHandle(text string, reqCtx domain.RequestContext) bool
	Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error)
}

// Registry holds the registered handlers in registration order plus the
// designated fallback. It is immutable after construction.
type Registry struct {
	handlers []Handler
	byName   map[string]Handler
	fallback Handler
}

// NewRegistry builds a registry. The fallback must be non-nil; it is also a
// regular routing candidate at the end of the scan order.
func NewRegistry(fallback Handler, handlers ...Handler) (*Registry, error) {
	if fallback == nil {
		return nil, fmt.Errorf("registry: fallback handler required")
	}
	all := make([]Handler, 0, len(handlers)+1)
	all = append(all, handlers...)
	all = append(all, fallback)

	byName := make(map[string]Handler, len(all))
	for _, h := range all {
		if h == nil {
			return nil, fmt.Errorf("registry: nil handler")
		}
		if _, exists := byName[h.Name()]; exists {
			return nil, fmt.Errorf("registry: duplicate handler %q", h.Name())
		}
		byName[h.Name()] = h
	}
	return &Registry{handlers: all, byName: byName, fallback: fallback}, nil
}

// Handlers returns all handlers in registration order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// Lookup resolves a handler by name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Fallback returns the designated fallback handler.
func (r *Registry) Fallback() Handler {
	return r.fallback
}
