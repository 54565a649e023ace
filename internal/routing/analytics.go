package routing

import (
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

const (
	defaultAnalyticsCapacity = 100
	inputPreviewLimit        = 200
)

// LogEntry is one completed routing decision plus its execution outcome.
type LogEntry struct {
	Input    string
	Decision domain.RoutingDecision
	Results  []domain.HandlerResult
	Elapsed  time.Duration
	Success  bool
	At       time.Time
}

// Stats are the on-demand aggregates over the retained entries.
type Stats struct {
	TotalRouted   int
	MeanExecution time.Duration
	HandlerUsage  map[string]int
	SuccessRate   float64
}

// AnalyticsLog is a concurrency-safe bounded ring buffer of routing history.
// At capacity the oldest entry is evicted. It retains nothing across process
// restarts.
type AnalyticsLog struct {
	mu       sync.Mutex
	entries  []LogEntry
	capacity int
	next     int
	size     int
}

// NewAnalyticsLog builds a log with the given capacity (default 100).
func NewAnalyticsLog(capacity int) *AnalyticsLog {
	if capacity <= 0 {
		capacity = defaultAnalyticsCapacity
	}
	return &AnalyticsLog{
		entries:  make([]LogEntry, capacity),
		capacity: capacity,
	}
}

// Record appends an entry, evicting the oldest once the buffer is full. The
// input text is trimmed and truncated before retention.
func (l *AnalyticsLog) Record(entry LogEntry) {
	entry.Input = trimInput(entry.Input)
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	entry.Success = OverallSuccess(entry.Results)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % l.capacity
	if l.size < l.capacity {
		l.size++
	}
}

// Len returns the number of retained entries.
func (l *AnalyticsLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Entries returns the retained entries oldest first.
func (l *AnalyticsLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Stats aggregates the retained history.
func (l *AnalyticsLog) Stats() Stats {
	l.mu.Lock()
	entries := l.snapshotLocked()
	l.mu.Unlock()

	stats := Stats{HandlerUsage: make(map[string]int)}
	stats.TotalRouted = len(entries)
	if stats.TotalRouted == 0 {
		return stats
	}

	var totalElapsed time.Duration
	successes := 0
	for _, entry := range entries {
		totalElapsed += entry.Elapsed
		if entry.Success {
			successes++
		}
		for _, name := range entry.Decision.Selected {
			stats.HandlerUsage[name]++
		}
	}
	stats.MeanExecution = totalElapsed / time.Duration(stats.TotalRouted)
	stats.SuccessRate = float64(successes) / float64(stats.TotalRouted)
	return stats
}

// HandlerSuccessRate returns the fraction of this handler's recorded
// invocations that succeeded, or the neutral prior when no data exists.
func (l *AnalyticsLog) HandlerSuccessRate(name string) float64 {
	l.mu.Lock()
	entries := l.snapshotLocked()
	l.mu.Unlock()

	total, successes := 0, 0
	for _, entry := range entries {
		for _, res := range entry.Results {
			if res.Handler != name {
				continue
			}
			total++
			if res.Success {
				successes++
			}
		}
	}
	if total == 0 {
		return neutralSuccessPrior
	}
	return float64(successes) / float64(total)
}

func (l *AnalyticsLog) snapshotLocked() []LogEntry {
	out := make([]LogEntry, 0, l.size)
	if l.size < l.capacity {
		out = append(out, l.entries[:l.size]...)
		return out
	}
	out = append(out, l.entries[l.next:]...)
	out = append(out, l.entries[:l.next]...)
	return out
}

func trimInput(input string) string {
	input = strings.TrimSpace(input)
	if len(input) <= inputPreviewLimit {
		return input
	}
	return input[:inputPreviewLimit-3] + "..."
}
