package routing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

const (
	baseConfidence      = 0.5
	keywordWeight       = 0.1
	historyWeight       = 0.2
	highPriorityBonus   = 0.3
	newHireBonus        = 0.4
	defaultThreshold    = 0.7
	defaultMaxHandlers  = 2
	neutralSuccessPrior = 0.8
)

// SuccessSource exposes historical per-handler success rates; the analytics
// log implements it, closing the feedback loop into routing.
type SuccessSource interface {
	HandlerSuccessRate(name string) float64
}

// RouterConfig tunes candidate selection.
type RouterConfig struct {
	ConfidenceThreshold float64
	MaxHandlers         int
}

// Router selects an ordered, bounded set of handlers for a request.
type Router struct {
	registry *Registry
	history  SuccessSource
	cfg      RouterConfig
	logger   *zap.Logger
}

// NewRouter wires a router over the registry. A nil history falls back to
// the neutral success prior for every handler.
func NewRouter(registry *Registry, history SuccessSource, cfg RouterConfig, logger *zap.Logger) *Router {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = defaultThreshold
	}
	if cfg.MaxHandlers < 1 {
		cfg.MaxHandlers = defaultMaxHandlers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{registry: registry, history: history, cfg: cfg, logger: logger}
}

// Route scores every capable handler and returns the decision. The selection
// is never empty: when no candidate clears the threshold the fallback
// handler is chosen unconditionally.
func (r *Router) Route(text string, reqCtx domain.RequestContext) domain.RoutingDecision {
	now := time.Now()
	lower := strings.ToLower(text)

	candidates := make([]domain.RankedCandidate, 0, len(r.registry.Handlers()))
	for _, h := range r.registry.Handlers() {
		if !h.CanHandle(text, reqCtx) {
			continue
		}
		candidates = append(candidates, r.scoreHandler(h, lower, reqCtx))
	}

	// stable sort keeps registration order on equal confidence
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	selected := make([]string, 0, r.cfg.MaxHandlers)
	var topConfidence float64
	for _, cand := range candidates {
		if cand.Confidence < r.cfg.ConfidenceThreshold {
			continue
		}
		if len(selected) == 0 {
			topConfidence = cand.Confidence
		}
		selected = append(selected, cand.Handler)
		if len(selected) == r.cfg.MaxHandlers {
			break
		}
	}

	decision := domain.RoutingDecision{
		Candidates: candidates,
		Selected:   selected,
		Confidence: topConfidence,
		Timestamp:  now,
	}

	if len(decision.Selected) == 0 {
		fallback := r.registry.Fallback()
		scored := r.scoreHandler(fallback, lower, reqCtx)
		decision.Selected = []string{fallback.Name()}
		decision.Confidence = scored.Confidence
		decision.Fallback = true
		r.logger.Debug("no handler cleared threshold, using fallback",
			zap.String("fallback", fallback.Name()),
			zap.Float64("confidence", scored.Confidence))
	}

	return decision
}

func (r *Router) scoreHandler(h Handler, lowerText string, reqCtx domain.RequestContext) domain.RankedCandidate {
	matches := keywordMatches(h.Keywords(), lowerText)
	bonus := contextualBonus(h.Specialty(), reqCtx)
	success := r.successRate(h.Name())

	confidence := clamp(baseConfidence+keywordWeight*float64(matches)+bonus+historyWeight*success, 0, 1)

	return domain.RankedCandidate{
		Handler:    h.Name(),
		Confidence: confidence,
		Reasoning: fmt.Sprintf("base=%.2f keywords=%d bonus=%.2f history=%.2f",
			baseConfidence, matches, bonus, success),
	}
}

func (r *Router) successRate(name string) float64 {
	if r.history == nil {
		return neutralSuccessPrior
	}
	return r.history.HandlerSuccessRate(name)
}

func keywordMatches(keywords []string, lowerText string) int {
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			matches++
		}
	}
	return matches
}

func contextualBonus(specialty Specialty, reqCtx domain.RequestContext) float64 {
	var bonus float64
	if strings.EqualFold(reqCtx.Priority, "high") && specialty == SpecialtyEscalation {
		bonus += highPriorityBonus
	}
	if strings.EqualFold(reqCtx.Role, "new_hire") && specialty == SpecialtyOnboarding {
		bonus += newHireBonus
	}
	return bonus
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
