package specialist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/llm"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
)

var onboardingKeywords = []string{"onboarding", "new hire", "first day", "getting started", "orientation", "setup my", "welcome"}

const onboardingChecklist = `Welcome aboard! Here is the standard onboarding checklist:
1. Collect your laptop and badge from the IT desk.
2. Set up your email, calendar, and Slack accounts.
3. Enroll in MFA and install the VPN client.
4. Request access to the tools your team uses (Jira, Figma, Confluence).
5. Book a 1:1 with your manager and review your 30-day plan.
If anything on this list is blocked, reply here and a specialist will follow up.`

// OnboardingHandler answers new-hire setup questions with a generated
// walkthrough, falling back to the standard checklist when generation is
// unavailable.
type OnboardingHandler struct {
	deps Dependencies
}

// NewOnboardingHandler constructs the handler.
func NewOnboardingHandler(deps Dependencies) *OnboardingHandler {
	return &OnboardingHandler{deps: deps}
}

func (h *OnboardingHandler) Name() string                 { return "onboarding_assistant" }
func (h *OnboardingHandler) Specialty() routing.Specialty { return routing.SpecialtyOnboarding }
func (h *OnboardingHandler) Keywords() []string           { return onboardingKeywords }

// CanHandle matches onboarding vocabulary or any request from a new hire.
func (h *OnboardingHandler) CanHandle(text string, reqCtx domain.RequestContext) bool {
	return containsAnyKeyword(text, onboardingKeywords) || reqCtx.Role == "new_hire"
}

// Execute produces a walkthrough reply. Generation failures degrade to the
// canned checklist; the handler still reports success.
func (h *OnboardingHandler) Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	reply := onboardingChecklist
	generated := false

	if h.deps.Generator != nil {
		prompt := fmt.Sprintf(
			"You are an IT helpdesk onboarding assistant. A new employee asked: %q. Reply with a short, numbered onboarding checklist tailored to their question.",
			text)
		gen, err := h.deps.Generator.Generate(ctx, prompt, llm.GenerateOptions{})
		switch {
		case err == nil && gen.Text != "":
			reply = gen.Text
			generated = true
		case err == llm.ErrDisabled:
			// canned checklist
		case err != nil:
			h.deps.logger().Warn("onboarding generation failed, using checklist", zap.Error(err))
		}
	}

	return domain.HandlerResult{
		Handler: h.Name(),
		Kind:    domain.ResultKindReply,
		Success: true,
		Payload: domain.ReplyResultPayload{
			Reply:     reply,
			Generated: generated,
		},
	}, nil
}
