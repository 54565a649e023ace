package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// stubHandler is a configurable handler for routing tests.
type stubHandler struct {
	name      string
	specialty Specialty
	keywords  []string
	canHandle func(text string, reqCtx domain.RequestContext) bool
	execute   func(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error)
}

func (s *stubHandler) Name() string         { return s.name }
func (s *stubHandler) Specialty() Specialty { return s.specialty }
func (s *stubHandler) Keywords() []string   { return s.keywords }

func (s *stubHandler) CanHandle(text string, reqCtx domain.RequestContext) bool {
	if s.canHandle == nil {
		return true
	}
	return s.canHandle(text, reqCtx)
}

func (s *stubHandler) Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	if s.execute == nil {
		return domain.HandlerResult{Handler: s.name, Success: true}, nil
	}
	return s.execute(ctx, text, reqCtx)
}

func alwaysCapable(name string, specialty Specialty, keywords ...string) *stubHandler {
	return &stubHandler{name: name, specialty: specialty, keywords: keywords}
}

func neverCapable(name string) *stubHandler {
	return &stubHandler{
		name:      name,
		specialty: SpecialtyKnowledge,
		canHandle: func(string, domain.RequestContext) bool { return false },
	}
}

// fixedHistory returns the same success rate for every handler.
type fixedHistory struct{ rate float64 }

func (f fixedHistory) HandlerSuccessRate(string) float64 { return f.rate }

func newTestRegistry(t *testing.T, fallback Handler, handlers ...Handler) *Registry {
	t.Helper()
	registry, err := NewRegistry(fallback, handlers...)
	require.NoError(t, err)
	return registry
}

func TestRouteNeverReturnsEmptySelection(t *testing.T) {
	registry := newTestRegistry(t,
		alwaysCapable("fallback", SpecialtyKnowledge),
		neverCapable("access"),
		neverCapable("hardware"),
	)
	// the fallback itself is incapable here, it must still be selected
	registry.fallback.(*stubHandler).canHandle = func(string, domain.RequestContext) bool { return false }

	router := NewRouter(registry, nil, RouterConfig{}, nil)
	decision := router.Route("anything at all", domain.RequestContext{})

	require.Len(t, decision.Selected, 1)
	assert.Equal(t, "fallback", decision.Selected[0])
	assert.True(t, decision.Fallback)
}

func TestRouteHighPriorityBoostsEscalationSpecialist(t *testing.T) {
	escalation := alwaysCapable("escalation", SpecialtyEscalation, "urgent")
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), escalation)
	router := NewRouter(registry, fixedHistory{rate: 0.8}, RouterConfig{}, nil)

	high := router.Route("My laptop is broken and urgent", domain.RequestContext{Priority: "high"})
	medium := router.Route("My laptop is broken and urgent", domain.RequestContext{Priority: "medium"})

	highConf := candidateConfidence(t, high, "escalation")
	mediumConf := candidateConfidence(t, medium, "escalation")
	assert.Greater(t, highConf, mediumConf)
	assert.GreaterOrEqual(t, highConf, 0.7)
	assert.Contains(t, high.Selected, "escalation")
}

func TestRouteNewHireBoostsOnboardingSpecialist(t *testing.T) {
	onboarding := alwaysCapable("onboarding", SpecialtyOnboarding, "setup")
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), onboarding)
	router := NewRouter(registry, fixedHistory{rate: 0.8}, RouterConfig{}, nil)

	newHire := router.Route("need my setup", domain.RequestContext{Role: "new_hire"})
	regular := router.Route("need my setup", domain.RequestContext{Role: "engineer"})

	assert.Greater(t,
		candidateConfidence(t, newHire, "onboarding"),
		candidateConfidence(t, regular, "onboarding"))
}

func TestRouteTruncatesToMaxHandlers(t *testing.T) {
	registry := newTestRegistry(t,
		alwaysCapable("fallback", SpecialtyKnowledge),
		alwaysCapable("a", SpecialtyHardware, "laptop"),
		alwaysCapable("b", SpecialtySoftware, "laptop"),
		alwaysCapable("c", SpecialtyAccess, "laptop"),
	)
	router := NewRouter(registry, fixedHistory{rate: 1}, RouterConfig{ConfidenceThreshold: 0.7, MaxHandlers: 2}, nil)

	decision := router.Route("laptop", domain.RequestContext{})

	assert.Len(t, decision.Selected, 2)
	// equal confidence everywhere, registration order must hold
	assert.Equal(t, []string{"a", "b"}, decision.Selected)
	assert.False(t, decision.Fallback)
}

func TestRouteSkipsIncapableHandlers(t *testing.T) {
	registry := newTestRegistry(t,
		alwaysCapable("fallback", SpecialtyKnowledge),
		neverCapable("never"),
		alwaysCapable("always", SpecialtyHardware, "laptop", "broken"),
	)
	router := NewRouter(registry, fixedHistory{rate: 0.9}, RouterConfig{}, nil)

	decision := router.Route("my laptop is broken", domain.RequestContext{})

	for _, cand := range decision.Candidates {
		assert.NotEqual(t, "never", cand.Handler)
	}
	assert.Contains(t, decision.Selected, "always")
}

func TestRouteConfidenceClamped(t *testing.T) {
	greedy := alwaysCapable("greedy", SpecialtyEscalation, "a", "b", "c", "d", "e", "f", "g", "h")
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), greedy)
	router := NewRouter(registry, fixedHistory{rate: 1}, RouterConfig{}, nil)

	decision := router.Route("a b c d e f g h", domain.RequestContext{Priority: "high"})

	for _, cand := range decision.Candidates {
		assert.GreaterOrEqual(t, cand.Confidence, 0.0)
		assert.LessOrEqual(t, cand.Confidence, 1.0)
	}
}

func TestRouteUsesNeutralPriorWithoutHistory(t *testing.T) {
	h := alwaysCapable("solo", SpecialtyHardware)
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), h)
	router := NewRouter(registry, nil, RouterConfig{}, nil)

	decision := router.Route("hello", domain.RequestContext{})

	// 0.5 base + 0.2*0.8 prior = 0.66
	assert.InDelta(t, 0.66, candidateConfidence(t, decision, "solo"), 1e-9)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(alwaysCapable("dup", SpecialtyKnowledge), alwaysCapable("dup", SpecialtyAccess))
	assert.Error(t, err)

	_, err = NewRegistry(nil)
	assert.Error(t, err)
}

func candidateConfidence(t *testing.T, decision domain.RoutingDecision, name string) float64 {
	t.Helper()
	for _, cand := range decision.Candidates {
		if cand.Handler == name {
			return cand.Confidence
		}
	}
	t.Fatalf("candidate %q not found", name)
	return 0
}
