package specialist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/llm"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
)

const knowledgeFallbackReply = "Thanks for reaching out. Your request has been logged and a support specialist will follow up shortly. For common questions, see the internal knowledge base under Helpdesk > Self-Service."

// KnowledgeHandler is the catch-all specialist: it accepts every request so
// routing always has somewhere to land, and answers with generated text
// when available.
type KnowledgeHandler struct {
	deps Dependencies
}

// NewKnowledgeHandler constructs the handler.
func NewKnowledgeHandler(deps Dependencies) *KnowledgeHandler {
	return &KnowledgeHandler{deps: deps}
}

func (h *KnowledgeHandler) Name() string                 { return "knowledge_base" }
func (h *KnowledgeHandler) Specialty() routing.Specialty { return routing.SpecialtyKnowledge }
func (h *KnowledgeHandler) Keywords() []string           { return nil }

// CanHandle always returns true.
func (h *KnowledgeHandler) CanHandle(string, domain.RequestContext) bool { return true }

// Execute answers with generated text, or the static acknowledgement when
// generation is unavailable.
func (h *KnowledgeHandler) Execute(ctx context.Context, text string, _ domain.RequestContext) (domain.HandlerResult, error) {
	reply := knowledgeFallbackReply
	generated := false

	if h.deps.Generator != nil {
		prompt := fmt.Sprintf(
			"You are an IT helpdesk assistant. Answer the following employee question concisely. If you cannot answer it, say a specialist will follow up. Question: %q",
			text)
		gen, err := h.deps.Generator.Generate(ctx, prompt, llm.GenerateOptions{})
		switch {
		case err == nil && gen.Text != "":
			reply = gen.Text
			generated = true
		case err == llm.ErrDisabled:
			// static acknowledgement
		case err != nil:
			h.deps.logger().Warn("knowledge generation failed, using acknowledgement", zap.Error(err))
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
