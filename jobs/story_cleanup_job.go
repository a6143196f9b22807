package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"snaptika-api/services"
)

// StoryCleanupJob removes expired stories on a fixed interval.
type StoryCleanupJob struct {
	stories  *services.StoryService
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

func NewStoryCleanupJob(stories *services.StoryService, logger *zap.Logger) *StoryCleanupJob {
	return &StoryCleanupJob{
		stories:  stories,
		logger:   logger.Named("story_cleanup"),
		interval: time.Hour,
		done:     make(chan struct{}),
	}
}

func (j *StoryCleanupJob) Start() {
	go j.run()
}

func (j *StoryCleanupJob) Stop() {
	close(j.done)
}

func (j *StoryCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// One sweep at startup so a long downtime doesn't leave stale stories
	// around for up to an hour.
	j.sweep()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.done:
			return
		}
	}
}

func (j *StoryCleanupJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := j.stories.CleanupExpired(ctx)
	if err != nil {
		j.logger.Error("Story cleanup sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("Removed expired stories", zap.Int("count", removed))
	}
}
