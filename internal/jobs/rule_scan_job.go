package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RuleScanJobName is the name of the notification rule scan job
const RuleScanJobName = "rule_scan"

// DefaultScanInterval is the default period between rule evaluation passes
const DefaultScanInterval = 30 * time.Minute

// RuleScanService defines the interface the job needs to run a rule
// evaluation pass. This keeps the job from importing the service package
// directly.
type RuleScanService interface {
	// EvaluateActiveRules evaluates every active notification rule once
	// and returns how many alerts were created and how many rules were
	// skipped. A pass already in progress returns immediately with zero
	// counts.
	EvaluateActiveRules(ctx context.Context) (created int, skipped int, err error)
}

// RuleScanJob periodically evaluates the active notification rules.
type RuleScanJob struct {
	engine  RuleScanService
	logger  *zap.Logger
	timeout time.Duration
}

// NewRuleScanJob creates a new rule scan job. The timeout bounds a single
// evaluation pass.
func NewRuleScanJob(engine RuleScanService, logger *zap.Logger, timeout time.Duration) *RuleScanJob {
	return &RuleScanJob{
		engine:  engine,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one rule evaluation pass. This is called by the scheduler
// according to the configured interval. Failures are logged, never
// propagated: a broken pass must not take down the scheduler.
func (j *RuleScanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	created, skipped, err := j.engine.EvaluateActiveRules(ctx)
	if err != nil {
		j.logger.Error("rule scan failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("rule scan completed",
		zap.Int("alerts_created", created),
		zap.Int("rules_skipped", skipped),
		zap.Duration("duration", time.Since(start)))
}

// RegisterRuleScanJob registers the rule scan job with the scheduler at the
// given interval. If runOnStart is true one pass fires immediately in a
// background goroutine so it doesn't block API startup.
func RegisterRuleScanJob(scheduler *Scheduler, engine RuleScanService, logger *zap.Logger, interval time.Duration, timeout time.Duration, runOnStart bool) error {
	if interval <= 0 {
		interval = DefaultScanInterval
	}

	job := NewRuleScanJob(engine, logger, timeout)

	if runOnStart {
		go job.Run()
	}

	return scheduler.AddJob(RuleScanJobName, fmt.Sprintf("@every %s", interval), job.Run)
}
