package routing

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

func TestAnalyticsLogEvictsOldestAtCapacity(t *testing.T) {
	log := NewAnalyticsLog(3)

	for i := 0; i < 5; i++ {
		log.Record(LogEntry{
			Input:    fmt.Sprintf("request %d", i),
			Decision: domain.RoutingDecision{Selected: []string{"h"}},
			Results:  []domain.HandlerResult{{Handler: "h", Success: true}},
		})
	}

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "request 2", entries[0].Input)
	assert.Equal(t, "request 4", entries[2].Input)
	assert.Equal(t, 3, log.Len())
}

func TestAnalyticsLogStats(t *testing.T) {
	log := NewAnalyticsLog(10)

	log.Record(LogEntry{
		Input:    "a",
		Decision: domain.RoutingDecision{Selected: []string{"access"}},
		Results:  []domain.HandlerResult{{Handler: "access", Success: true}},
		Elapsed:  100 * time.Millisecond,
	})
	log.Record(LogEntry{
		Input:    "b",
		Decision: domain.RoutingDecision{Selected: []string{"access", "knowledge"}},
		Results: []domain.HandlerResult{
			{Handler: "access", Success: false},
			{Handler: "knowledge", Success: false},
		},
		Elapsed: 300 * time.Millisecond,
	})

	stats := log.Stats()
	assert.Equal(t, 2, stats.TotalRouted)
	assert.Equal(t, 200*time.Millisecond, stats.MeanExecution)
	assert.Equal(t, 2, stats.HandlerUsage["access"])
	assert.Equal(t, 1, stats.HandlerUsage["knowledge"])
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
}

func TestAnalyticsLogEmptyStats(t *testing.T) {
	log := NewAnalyticsLog(0) // default capacity

	stats := log.Stats()
	assert.Zero(t, stats.TotalRouted)
	assert.Zero(t, stats.SuccessRate)
	assert.Empty(t, stats.HandlerUsage)
}

func TestHandlerSuccessRateNeutralPrior(t *testing.T) {
	log := NewAnalyticsLog(10)
	assert.InDelta(t, 0.8, log.HandlerSuccessRate("unseen"), 1e-9)
}

func TestHandlerSuccessRateFromHistory(t *testing.T) {
	log := NewAnalyticsLog(10)

	outcomes := []bool{true, true, false, true}
	for _, ok := range outcomes {
		log.Record(LogEntry{
			Input:    "text",
			Decision: domain.RoutingDecision{Selected: []string{"access"}},
			Results:  []domain.HandlerResult{{Handler: "access", Success: ok}},
		})
	}

	assert.InDelta(t, 0.75, log.HandlerSuccessRate("access"), 1e-9)
}

func TestAnalyticsLogTrimsInput(t *testing.T) {
	log := NewAnalyticsLog(2)

	long := "  " + strings.Repeat("x", 300)
	log.Record(LogEntry{Input: long, Results: []domain.HandlerResult{{Handler: "h", Success: true}}})

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.LessOrEqual(t, len(entries[0].Input), 200)
}

func TestAnalyticsLogConcurrentRecord(t *testing.T) {
	log := NewAnalyticsLog(50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.Record(LogEntry{
				Input:   fmt.Sprintf("req %d", n),
				Results: []domain.HandlerResult{{Handler: "h", Success: true}},
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, log.Len())
	assert.Equal(t, 50, log.Stats().TotalRouted)
}
