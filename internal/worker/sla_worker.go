package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/service"
)

// SLAWorker drives the periodic SLA sweep on a cron schedule.
type SLAWorker struct {
	automation *service.AutomationService
	schedule   string
	logger     *zap.Logger
	cron       *cron.Cron
}

// NewSLAWorker constructs the worker. An empty schedule disables it.
func NewSLAWorker(automation *service.AutomationService, schedule string, logger *zap.Logger) *SLAWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAWorker{
		automation: automation,
		schedule:   schedule,
		logger:     logger,
	}
}

// Start registers the sweep job and begins the schedule. It returns an error
// only on an invalid cron expression.
func (w *SLAWorker) Start() error {
	if w.schedule == "" {
		w.logger.Warn("sla sweep disabled (no schedule configured)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := w.automation.RunSweep(ctx)
		if err != nil {
			w.logger.Error("sla sweep failed", zap.Error(err))
			return
		}
		if report.Skipped {
			return
		}
		w.logger.Info("sla sweep run",
			zap.Int("escalated", report.Escalated),
			zap.Int("warnings", report.Warnings),
			zap.Int("malformed", report.Malformed))
	})
	if err != nil {
		return err
	}

	c.Start()
	w.cron = c
	w.logger.Info("sla sweep scheduled", zap.String("cron", w.schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *SLAWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}
