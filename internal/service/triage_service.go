package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/intent"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	"github.com/spec-kit/helpdesk-triage/pkg/util"
)

// TriageService runs the full request pipeline: classification, routing,
// handler execution, and analytics retention.
type TriageService struct {
	classifier  *intent.Classifier
	router      *routing.Router
	coordinator *routing.Coordinator
	analytics   *routing.AnalyticsLog
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Classifier  *intent.Classifier
	Router      *routing.Router
	Coordinator *routing.Coordinator
	Analytics   *routing.AnalyticsLog
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewTriageService wires the pipeline.
func NewTriageService(deps TriageDependencies) *TriageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		classifier:  deps.Classifier,
		router:      deps.Router,
		coordinator: deps.Coordinator,
		analytics:   deps.Analytics,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// TriageOutcome is the complete result of one triaged request.
type TriageOutcome struct {
	Classification domain.ClassificationResult
	Decision       domain.RoutingDecision
	Results        []domain.HandlerResult
	OverallSuccess bool
	Elapsed        time.Duration
}

// TriageRequest classifies and routes the request, executes the selected
// handlers, and records the run. The run fails only when every handler
// fails; a single successful handler makes the outcome a success.
func (s *TriageService) TriageRequest(ctx context.Context, text string, reqCtx domain.RequestContext) (*TriageOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, util.NewValidationError("request text is required", nil)
	}

	started := time.Now()

	classification := s.classifier.Classify(text, reqCtx)
	decision := s.router.Route(text, reqCtx)
	results := s.coordinator.Execute(ctx, decision, text, reqCtx)
	success := routing.OverallSuccess(results)
	elapsed := time.Since(started)

	s.analytics.Record(routing.LogEntry{
		Input:    text,
		Decision: decision,
		Results:  results,
		Elapsed:  elapsed,
	})

	s.metrics.ObserveTriage(classification.Intent, success, decision.Fallback, elapsed)
	for _, result := range results {
		s.metrics.ObserveHandler(result.Handler, result.Success, result.Elapsed)
	}

	s.publishRouted(ctx, classification, decision, success, reqCtx)

	s.logger.Info("request triaged",
		zap.String("intent", classification.Intent),
		zap.Strings("selected", decision.Selected),
		zap.Bool("fallback", decision.Fallback),
		zap.Bool("success", success),
		zap.Duration("elapsed", elapsed))

	return &TriageOutcome{
		Classification: classification,
		Decision:       decision,
		Results:        results,
		OverallSuccess: success,
		Elapsed:        elapsed,
	}, nil
}

// Analytics exposes the retained routing history.
func (s *TriageService) Analytics() *routing.AnalyticsLog {
	return s.analytics
}

func (s *TriageService) publishRouted(ctx context.Context, classification domain.ClassificationResult, decision domain.RoutingDecision, success bool, reqCtx domain.RequestContext) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRequestRouted,
		Actor:     events.UserActor(reqCtx.UserID),
		Timestamp: time.Now(),
		Payload: events.RequestRoutedPayload{
			Intent:     classification.Intent,
			Entity:     classification.Entity,
			Selected:   decision.Selected,
			Confidence: decision.Confidence,
			Fallback:   decision.Fallback,
			Success:    success,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish request_routed failed", zap.Error(err))
	}
	s.metrics.ObserveEvent(string(events.EventRequestRouted))
}
