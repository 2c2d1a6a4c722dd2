package adapters

import (
	"context"
	"time"
)

// DefaultHealthCheckInterval is the probe cadence when the config leaves
// it zero.
const DefaultHealthCheckInterval = 30 * time.Second

// StartHealthChecker starts a background goroutine that periodically
// probes the provider and updates the adapter's health. It runs until the
// adapter is closed or ctx is canceled. Starting twice is a no-op.
func (a *HTTPAdapter) StartHealthChecker(ctx context.Context) {
	if !a.checkerStarted.CompareAndSwap(false, true) {
		return
	}
	go a.runHealthChecker(ctx)
}

func (a *HTTPAdapter) runHealthChecker(ctx context.Context) {
	defer close(a.healthCheckStopped)

	interval := a.config.HealthCheckInterval
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("health checker started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("health checker stopped (context canceled)")
			return

		case <-a.stopHealthCheck:
			a.logger.Debug("health checker stopped (adapter closed)")
			return

		case <-ticker.C:
			a.performHealthCheck(ctx)

			// Back off while unhealthy to avoid hammering a failing provider.
			if !a.IsHealthy() {
				health := a.GetHealth()
				backoff := checkBackoff(health.ConsecutiveFailures, interval)
				ticker.Reset(backoff)

				a.logger.Debug("health check backoff",
					"consecutive_failures", health.ConsecutiveFailures,
					"next_check_in", backoff,
				)
			} else {
				ticker.Reset(interval)
			}
		}
	}
}

func (a *HTTPAdapter) performHealthCheck(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := a.probe(checkCtx)
	latency := time.Since(start)

	if err != nil {
		a.updateHealth(false, err)
		a.logger.Error("health check failed",
			"error", err,
			"latency", latency,
		)
		return
	}

	wasFailing := a.GetHealth().ConsecutiveFailures > 0
	a.updateHealth(true, nil)
	a.logger.Debug("health check passed", "latency", latency)

	if wasFailing {
		a.logger.Info("adapter recovered")
	}
}

// checkBackoff widens the probe interval exponentially with consecutive
// failures, capped at 10x the base interval and five minutes.
func checkBackoff(consecutiveFailures int, baseInterval time.Duration) time.Duration {
	if consecutiveFailures <= 0 {
		return baseInterval
	}

	multiplier := 1 << uint(consecutiveFailures)
	if multiplier > 10 {
		multiplier = 10
	}

	backoff := baseInterval * time.Duration(multiplier)
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute
	}
	return backoff
}
