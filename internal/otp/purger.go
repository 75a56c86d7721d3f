// Package otp removes expired one-time codes the way a TTL index would:
// rows past their lifetime disappear, so a stale code and a never-sent
// code are the same thing to the verification flow.
package otp

import (
	"context"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/robfig/cron/v3"
)

const purgeSchedule = "@every 1m"

type Purger struct {
	repo   repository.OTPRepository
	logger *slog.Logger
	cron   *cron.Cron
}

func NewPurger(repo repository.OTPRepository, logger *slog.Logger) *Purger {
	return &Purger{
		repo:   repo,
		logger: logger.With("component", "otp_purger"),
		cron:   cron.New(),
	}
}

// Start schedules the purge cycle. It panics only on a bad schedule
// expression, which is a programming error.
func (p *Purger) Start() {
	if _, err := p.cron.AddFunc(purgeSchedule, p.purge); err != nil {
		panic(err)
	}
	p.cron.Start()
	p.logger.Info("otp purger started", "schedule", purgeSchedule)
}

// Stop halts the schedule and waits for an in-flight purge to finish.
func (p *Purger) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info("otp purger stopped")
}

func (p *Purger) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-domain.OTPTTL)
	n, err := p.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		p.logger.Error("purge expired otps", "error", err)
		return
	}
	if n > 0 {
		metrics.OTPPurgedTotal.Add(float64(n))
		p.logger.Debug("purged expired otps", "count", n)
	}
}
