package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// Coordinator invokes the handlers a routing decision selected. The
// multi-handler path is the one concurrency point: the primary runs first,
// secondaries run in parallel against an enriched read-only context and are
// joined before returning.
type Coordinator struct {
	registry *Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCoordinator builds a coordinator with a per-handler timeout.
func NewCoordinator(registry *Registry, timeout time.Duration, logger *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{registry: registry, timeout: timeout, logger: logger}
}

// Execute runs the selected handlers and returns one result per handler in
// selection order, independent of completion order. A failing, panicking, or
// timed-out handler is captured as a failed result for that handler only.
func (c *Coordinator) Execute(ctx context.Context, decision domain.RoutingDecision, text string, reqCtx domain.RequestContext) []domain.HandlerResult {
	results := make([]domain.HandlerResult, len(decision.Selected))
	if len(decision.Selected) == 0 {
		return results
	}

	primary := c.invoke(ctx, decision.Selected[0], text, reqCtx)
	results[0] = primary
	if len(decision.Selected) == 1 {
		return results
	}

	enriched := reqCtx
	enriched.MultiHandler = true
	enriched.PrimaryResult = &primary

	var wg sync.WaitGroup
	for i, name := range decision.Selected[1:] {
		wg.Add(1)
		go func(idx int, handlerName string) {
			defer wg.Done()
			results[idx] = c.invoke(ctx, handlerName, text, enriched)
		}(i+1, name)
	}
	wg.Wait()

	return results
}

// OverallSuccess reports whether at least one handler succeeded; the routed
// call as a whole fails only when every handler failed.
func OverallSuccess(results []domain.HandlerResult) bool {
	for _, res := range results {
		if res.Success {
			return true
		}
	}
	return false
}

func (c *Coordinator) invoke(ctx context.Context, name, text string, reqCtx domain.RequestContext) domain.HandlerResult {
	start := time.Now()

	handler, ok := c.registry.Lookup(name)
	if !ok {
		return domain.HandlerResult{
			Handler: name,
			Success: false,
			Err:     "handler not registered",
			Elapsed: time.Since(start),
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan domain.HandlerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("handler panicked",
					zap.String("handler", name),
					zap.Any("panic", r))
				done <- domain.HandlerResult{
					Handler: name,
					Success: false,
					Err:     fmt.Sprintf("handler panic: %v", r),
				}
			}
		}()
		result, err := handler.Execute(execCtx, text, reqCtx)
		if err != nil {
			result.Handler = name
			result.Success = false
			result.Err = err.Error()
		}
		done <- result
	}()

	select {
	case result := <-done:
		result.Handler = name
		result.Elapsed = time.Since(start)
		return result
	case <-execCtx.Done():
		c.logger.Warn("handler timed out",
			zap.String("handler", name),
			zap.Duration("timeout", c.timeout))
		return domain.HandlerResult{
			Handler: name,
			Success: false,
			Err:     "handler timed out",
			Elapsed: time.Since(start),
		}
	}
}
