package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/repository"
	"github.com/spec-kit/helpdesk-triage/internal/rules"
)

// SweepLocker serializes sweeps. The persistence package provides the
// redis-backed implementation.
type SweepLocker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context)
}

// AutomationService runs the periodic SLA sweep over open work items.
type AutomationService struct {
	items      repository.WorkItemRepository
	policy     rules.SLAPolicy
	lock       SweepLocker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AutomationDependencies bundles collaborators for the automation service.
type AutomationDependencies struct {
	ItemRepo   repository.WorkItemRepository
	Policy     rules.SLAPolicy
	Lock       SweepLocker
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAutomationService constructs the service.
func NewAutomationService(deps AutomationDependencies) *AutomationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutomationService{
		items:      deps.ItemRepo,
		policy:     deps.Policy,
		lock:       deps.Lock,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	RanAt     time.Time
	Skipped   bool
	Escalated int
	Warnings  int
	Malformed int
}

// RunSweep escalates SLA violators among open work items. Only one sweep
// runs at a time; overlapping invocations return a skipped report. Changes
// are persisted per item through read-modify-write so a failure on one item
// does not abort the rest.
func (s *AutomationService) RunSweep(ctx context.Context) (SweepReport, error) {
	now := time.Now()

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx)
		if err != nil {
			return SweepReport{RanAt: now}, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !acquired {
			s.logger.Info("sla sweep already running, skipping")
			s.metrics.ObserveSweep("skipped", 0, 0)
			return SweepReport{RanAt: now, Skipped: true}, nil
		}
		defer s.lock.Release(ctx)
	}

	open, err := s.items.ListOpen(ctx)
	if err != nil {
		s.metrics.ObserveSweep("error", 0, 0)
		return SweepReport{RanAt: now}, fmt.Errorf("list open work items: %w", err)
	}

	result := rules.MonitorSLA(now, open, s.policy, s.logger)

	escalated := 0
	for i := range result.Escalated {
		item := &result.Escalated[i]
		if err := s.items.Update(ctx, item); err != nil {
			s.logger.Error("persist escalation failed",
				zap.String("work_item_id", item.ID),
				zap.Error(err))
			continue
		}
		escalated++
		s.publishEscalated(ctx, item, now)
	}

	for i := range result.Approaching {
		s.publishWarning(ctx, &result.Approaching[i], now)
	}

	s.metrics.ObserveSweep("ok", escalated, len(result.Approaching))
	s.logger.Info("sla sweep finished",
		zap.Int("open", len(open)),
		zap.Int("escalated", escalated),
		zap.Int("approaching", len(result.Approaching)),
		zap.Int("malformed", result.Skipped))

	return SweepReport{
		RanAt:     now,
		Escalated: escalated,
		Warnings:  len(result.Approaching),
		Malformed: result.Skipped,
	}, nil
}

func (s *AutomationService) publishEscalated(ctx context.Context, item *domain.WorkItem, now time.Time) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventWorkItemEscalated,
		WorkItemID: item.ID,
		Actor:      events.SystemActor(),
		Timestamp:  now,
		Payload: events.WorkItemEscalatedPayload{
			EscalationLevel: item.EscalationLevel,
			NewPriority:     item.Priority,
			AgeSeconds:      int64(now.Sub(item.CreatedAt).Seconds()),
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish work_item_escalated failed", zap.Error(err))
	}
	s.metrics.ObserveEvent(string(events.EventWorkItemEscalated))
}

func (s *AutomationService) publishWarning(ctx context.Context, item *domain.WorkItem, now time.Time) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventSLAWarning,
		WorkItemID: item.ID,
		Actor:      events.SystemActor(),
		Timestamp:  now,
		Payload: events.SLAWarningPayload{
			Priority:   item.Priority,
			AgeSeconds: int64(now.Sub(item.CreatedAt).Seconds()),
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish sla_warning failed", zap.Error(err))
	}
	s.metrics.ObserveEvent(string(events.EventSLAWarning))
}
