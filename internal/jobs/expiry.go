package jobs

import (
	"context"
	"sync"
	"time"

	"arena/internal/logger"
)

// Expirer moves overdue records to their expired state
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// ExpiryJob periodically expires stale invites and verification codes
type ExpiryJob struct {
	targets  map[string]Expirer
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewExpiryJob creates the job; targets are keyed by a name used in logs
func NewExpiryJob(interval time.Duration, targets map[string]Expirer) *ExpiryJob {
	return &ExpiryJob{
		targets:  targets,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per interval until Stop
func (j *ExpiryJob) Start() {
	logger.Infof("[ExpiryJob] starting (interval: %v)", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce(context.Background())
	for {
		select {
		case <-ticker.C:
			j.RunOnce(context.Background())
		case <-j.stopChan:
			logger.Infof("[ExpiryJob] stopping")
			return
		}
	}
}

// Stop ends the loop; calling it more than once is safe
func (j *ExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
}

// RunOnce expires every target and returns the counts by name
func (j *ExpiryJob) RunOnce(ctx context.Context) map[string]int {
	counts := make(map[string]int, len(j.targets))
	for name, target := range j.targets {
		n, err := target.ExpireOverdue(ctx)
		if err != nil {
			logger.Errorf("[ExpiryJob] failed to expire %s: %v", name, err)
			continue
		}
		counts[name] = n
		if n > 0 {
			logger.Infof("[ExpiryJob] expired %d %s", n, name)
		}
	}
	return counts
}
