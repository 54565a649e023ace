package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/intent"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/repository"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	"github.com/spec-kit/helpdesk-triage/internal/rules"
	"github.com/spec-kit/helpdesk-triage/internal/specialist"
)

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) countByType(t events.EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func newTriagePipeline(t *testing.T) (*TriageService, repository.WorkItemRepository, *capturingDispatcher) {
	t.Helper()

	items := repository.NewMemoryWorkItemRepository()
	dispatcher := &capturingDispatcher{}

	deps := specialist.Dependencies{
		Items:      items,
		Risk:       rules.NewRiskAssessor([]string{"figma", "slack", "notion"}, []string{"aws", "production database"}),
		Dispatcher: dispatcher,
	}

	registry, err := routing.NewRegistry(
		specialist.NewKnowledgeHandler(deps),
		specialist.NewAccessHandler(deps),
		specialist.NewHardwareHandler(deps),
		specialist.NewSoftwareHandler(deps),
		specialist.NewOnboardingHandler(deps),
		specialist.NewEscalationHandler(deps),
	)
	require.NoError(t, err)

	analytics := routing.NewAnalyticsLog(100)
	router := routing.NewRouter(registry, analytics, routing.RouterConfig{}, nil)
	coordinator := routing.NewCoordinator(registry, 5*time.Second, nil)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	svc := NewTriageService(TriageDependencies{
		Classifier:  intent.NewClassifier(intent.DefaultDefinitions()),
		Router:      router,
		Coordinator: coordinator,
		Analytics:   analytics,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})
	return svc, items, dispatcher
}

func TestTriageRequestAutoApprovesRoutineAccess(t *testing.T) {
	svc, items, dispatcher := newTriagePipeline(t)

	outcome, err := svc.TriageRequest(context.Background(),
		"I need access to Figma for my daily design work",
		domain.RequestContext{UserID: "u-1", Role: "designer"})
	require.NoError(t, err)
	require.True(t, outcome.OverallSuccess)

	assert.Equal(t, "access_request", outcome.Classification.Intent)
	assert.Equal(t, "Figma", outcome.Classification.Entity)
	require.NotEmpty(t, outcome.Decision.Selected)
	assert.Equal(t, "access_request", outcome.Decision.Selected[0])
	assert.False(t, outcome.Decision.Fallback)

	var access *domain.AccessResultPayload
	for _, result := range outcome.Results {
		if payload, ok := result.Payload.(domain.AccessResultPayload); ok {
			access = &payload
			break
		}
	}
	require.NotNil(t, access)
	assert.True(t, access.AutoApproved)

	item, err := items.GetByID(context.Background(), access.WorkItemID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemStatusResolved, item.Status)

	assert.Equal(t, 1, dispatcher.countByType(events.EventRequestRouted))
	assert.Equal(t, 1, dispatcher.countByType(events.EventAccessAutoApproved))
	assert.Equal(t, 1, svc.Analytics().Len())
}

func TestTriageRequestFallsBackOnUnrecognizedText(t *testing.T) {
	svc, _, _ := newTriagePipeline(t)

	outcome, err := svc.TriageRequest(context.Background(),
		"the coffee machine on floor 3 is making strange noises",
		domain.RequestContext{UserID: "u-2"})
	require.NoError(t, err)

	assert.Equal(t, intent.UnknownIntent, outcome.Classification.Intent)
	assert.True(t, outcome.Decision.Fallback)
	require.Equal(t, []string{"knowledge_base"}, outcome.Decision.Selected)
	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].Success)

	payload, ok := outcome.Results[0].Payload.(domain.ReplyResultPayload)
	require.True(t, ok)
	assert.NotEmpty(t, payload.Reply)
	assert.False(t, payload.Generated)
}

func TestTriageRequestUrgentHardwareFansOut(t *testing.T) {
	svc, items, _ := newTriagePipeline(t)

	outcome, err := svc.TriageRequest(context.Background(),
		"urgent: my laptop is broken and I cannot work",
		domain.RequestContext{UserID: "u-3", Priority: "high"})
	require.NoError(t, err)
	require.True(t, outcome.OverallSuccess)

	require.Len(t, outcome.Decision.Selected, 2)
	assert.Contains(t, outcome.Decision.Selected, "hardware_support")
	assert.Contains(t, outcome.Decision.Selected, "escalation")
	assert.False(t, outcome.Decision.Fallback)

	open, err := items.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.CategoryHardware, open[0].Category)
	assert.Equal(t, domain.PriorityHigh, open[0].Priority)
}

func TestTriageRequestRejectsEmptyText(t *testing.T) {
	svc, _, _ := newTriagePipeline(t)

	_, err := svc.TriageRequest(context.Background(), "   ", domain.RequestContext{UserID: "u-4"})
	require.Error(t, err)
}

func TestTriageRequestRecordsHistory(t *testing.T) {
	svc, _, _ := newTriagePipeline(t)

	for i := 0; i < 3; i++ {
		_, err := svc.TriageRequest(context.Background(),
			"I need access to Slack",
			domain.RequestContext{UserID: "u-5"})
		require.NoError(t, err)
	}

	stats := svc.Analytics().Stats()
	assert.Equal(t, 3, stats.TotalRouted)
	assert.Equal(t, 3, stats.HandlerUsage["access_request"])
	assert.Equal(t, 1.0, stats.SuccessRate)
}
