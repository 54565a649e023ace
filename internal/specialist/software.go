package specialist

import (
	"context"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
)

var softwareKeywords = []string{"software", "application", "app", "install", "update", "upgrade", "crash", "error", "bug", "license"}

// SoftwareHandler opens software tickets from free-form reports.
type SoftwareHandler struct {
	deps Dependencies
}

// NewSoftwareHandler constructs the handler.
func NewSoftwareHandler(deps Dependencies) *SoftwareHandler {
	return &SoftwareHandler{deps: deps}
}

func (h *SoftwareHandler) Name() string                 { return "software_support" }
func (h *SoftwareHandler) Specialty() routing.Specialty { return routing.SpecialtySoftware }
func (h *SoftwareHandler) Keywords() []string           { return softwareKeywords }

func (h *SoftwareHandler) CanHandle(text string, _ domain.RequestContext) bool {
	return containsAnyKeyword(text, softwareKeywords)
}

func (h *SoftwareHandler) Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	return createTicket(ctx, h.deps, h.Name(), text, reqCtx)
}
