package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"snaptika-api/services"
)

// MonetizationJob runs the daily eligibility sweep and, on the first sweep of
// each month, generates last month's ad revenue records.
type MonetizationJob struct {
	monetization *services.MonetizationService
	logger       *zap.Logger
	interval     time.Duration
	done         chan struct{}

	lastRevenuePeriod string
}

func NewMonetizationJob(monetization *services.MonetizationService, logger *zap.Logger) *MonetizationJob {
	return &MonetizationJob{
		monetization: monetization,
		logger:       logger.Named("monetization_job"),
		interval:     24 * time.Hour,
		done:         make(chan struct{}),

		// Revenue fires only on a month rollover observed while running,
		// never on startup; the service is idempotent per period either way.
		lastRevenuePeriod: time.Now().Format("2006-01"),
	}
}

func (j *MonetizationJob) Start() {
	go j.run()
}

func (j *MonetizationJob) Stop() {
	close(j.done)
}

func (j *MonetizationJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.tick(time.Now())

	for {
		select {
		case t := <-ticker.C:
			j.tick(t)
		case <-j.done:
			return
		}
	}
}

func (j *MonetizationJob) tick(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := j.monetization.SweepEligibility(ctx); err != nil {
		j.logger.Error("Eligibility sweep failed", zap.Error(err))
	}

	period := now.Format("2006-01")
	if period == j.lastRevenuePeriod {
		return
	}
	if err := j.monetization.GenerateMonthlyRevenue(ctx, now); err != nil {
		j.logger.Error("Monthly revenue generation failed", zap.Error(err))
		return
	}
	j.lastRevenuePeriod = period
}
