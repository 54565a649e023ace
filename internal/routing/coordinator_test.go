package routing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

func decisionFor(names ...string) domain.RoutingDecision {
	return domain.RoutingDecision{Selected: names, Timestamp: time.Now()}
}

func TestExecuteSingleHandler(t *testing.T) {
	h := &stubHandler{
		name:      "solo",
		specialty: SpecialtyHardware,
		execute: func(_ context.Context, _ string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
			assert.False(t, reqCtx.MultiHandler)
			assert.Nil(t, reqCtx.PrimaryResult)
			return domain.HandlerResult{Success: true, Kind: domain.ResultKindTicket}, nil
		},
	}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), h)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("solo"), "text", domain.RequestContext{})

	require.Len(t, results, 1)
	assert.Equal(t, "solo", results[0].Handler)
	assert.True(t, results[0].Success)
	assert.True(t, OverallSuccess(results))
}

func TestExecuteMultiHandlerEnrichesSecondaryContext(t *testing.T) {
	var primaryDone atomic.Bool

	primary := &stubHandler{
		name:      "primary",
		specialty: SpecialtyAccess,
		execute: func(context.Context, string, domain.RequestContext) (domain.HandlerResult, error) {
			primaryDone.Store(true)
			return domain.HandlerResult{Success: true, Kind: domain.ResultKindAccess}, nil
		},
	}
	secondary := &stubHandler{
		name:      "secondary",
		specialty: SpecialtyKnowledge,
		execute: func(_ context.Context, _ string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
			assert.True(t, primaryDone.Load(), "primary must complete before secondaries start")
			assert.True(t, reqCtx.MultiHandler)
			require.NotNil(t, reqCtx.PrimaryResult)
			assert.Equal(t, "primary", reqCtx.PrimaryResult.Handler)
			assert.True(t, reqCtx.PrimaryResult.Success)
			return domain.HandlerResult{Success: true, Kind: domain.ResultKindReply}, nil
		},
	}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), primary, secondary)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("primary", "secondary"), "text", domain.RequestContext{})

	require.Len(t, results, 2)
	assert.Equal(t, "primary", results[0].Handler)
	assert.Equal(t, "secondary", results[1].Handler)
}

func TestExecuteResultsInSelectionOrder(t *testing.T) {
	slow := &stubHandler{
		name:      "slow",
		specialty: SpecialtySoftware,
		execute: func(context.Context, string, domain.RequestContext) (domain.HandlerResult, error) {
			time.Sleep(50 * time.Millisecond)
			return domain.HandlerResult{Success: true}, nil
		},
	}
	fast := &stubHandler{name: "fast", specialty: SpecialtyHardware}
	primary := &stubHandler{name: "primary", specialty: SpecialtyAccess}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), primary, slow, fast)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("primary", "slow", "fast"), "text", domain.RequestContext{})

	require.Len(t, results, 3)
	assert.Equal(t, "primary", results[0].Handler)
	assert.Equal(t, "slow", results[1].Handler)
	assert.Equal(t, "fast", results[2].Handler)
}

func TestExecuteIsolatesHandlerFailure(t *testing.T) {
	failing := &stubHandler{
		name:      "failing",
		specialty: SpecialtyAccess,
		execute: func(context.Context, string, domain.RequestContext) (domain.HandlerResult, error) {
			return domain.HandlerResult{}, errors.New("store unavailable")
		},
	}
	healthy := &stubHandler{name: "healthy", specialty: SpecialtyKnowledge}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), failing, healthy)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("failing", "healthy"), "text", domain.RequestContext{})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, "store unavailable", results[0].Err)
	assert.True(t, results[1].Success)
	assert.True(t, OverallSuccess(results))
}

func TestExecuteReportsTotalFailure(t *testing.T) {
	fail := func(context.Context, string, domain.RequestContext) (domain.HandlerResult, error) {
		return domain.HandlerResult{}, errors.New("boom")
	}
	a := &stubHandler{name: "a", specialty: SpecialtyAccess, execute: fail}
	b := &stubHandler{name: "b", specialty: SpecialtySoftware, execute: fail}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), a, b)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("a", "b"), "text", domain.RequestContext{})

	assert.False(t, OverallSuccess(results))
}

func TestExecuteTimesOutStuckHandler(t *testing.T) {
	stuck := &stubHandler{
		name:      "stuck",
		specialty: SpecialtySoftware,
		execute: func(ctx context.Context, _ string, _ domain.RequestContext) (domain.HandlerResult, error) {
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
			}
			return domain.HandlerResult{Success: true}, nil
		},
	}
	quick := &stubHandler{name: "quick", specialty: SpecialtyKnowledge}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), stuck, quick)
	coordinator := NewCoordinator(registry, 50*time.Millisecond, nil)

	results := coordinator.Execute(context.Background(), decisionFor("stuck", "quick"), "text", domain.RequestContext{})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, "handler timed out", results[0].Err)
	assert.True(t, results[1].Success)
}

func TestExecuteRecoversHandlerPanic(t *testing.T) {
	panicking := &stubHandler{
		name:      "panicking",
		specialty: SpecialtyHardware,
		execute: func(context.Context, string, domain.RequestContext) (domain.HandlerResult, error) {
			panic("unexpected state")
		},
	}
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge), panicking)
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("panicking"), "text", domain.RequestContext{})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Err, "handler panic")
}

func TestExecuteUnknownHandlerName(t *testing.T) {
	registry := newTestRegistry(t, alwaysCapable("fallback", SpecialtyKnowledge))
	coordinator := NewCoordinator(registry, time.Second, nil)

	results := coordinator.Execute(context.Background(), decisionFor("ghost"), "text", domain.RequestContext{})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "handler not registered", results[0].Err)
}
