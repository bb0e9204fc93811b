// Package scenarios posts reference clinical cases to a running triage
// service and checks the returned risk tiers.
package scenarios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/triage/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// ErrScenariosFailed is returned when at least one scenario did not pass.
var ErrScenariosFailed = errors.New("scenarios failed")

// Run executes every catalog scenario against config.BaseURL.
func Run(ctx context.Context, config *Config) ([]Outcome, error) {
	return RunScenarios(ctx, config, Catalog())
}

// RunScenarios executes the given scenarios.
func RunScenarios(ctx context.Context, config *Config, scenarios []Scenario) ([]Outcome, error) {
	if config.Workers < 1 {
		config.Workers = 1
	}
	stats := &Stats{
		Total:     len(scenarios),
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting triage scenario run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("scenarios", len(scenarios)),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Submit scenarios concurrently
	outcomes := submitScenarios(ctx, config, scenarios)

	// Step 3: Tally and report
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			stats.Errored++
			logger.Get().Error(ctx, "scenario error",
				logger.String("scenario", o.Scenario),
				logger.String("error", o.Error))
		case len(o.Mismatches) > 0:
			stats.Failed++
			logger.Get().Warn(ctx, "scenario mismatch",
				logger.String("scenario", o.Scenario),
				logger.Any("mismatches", o.Mismatches))
		default:
			stats.Passed++
		}
	}

	if config.OutputFile != "" {
		if err := saveReport(ctx, config.OutputFile, outcomes); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.Passed != stats.Total {
		return outcomes, fmt.Errorf("%w: %d of %d", ErrScenariosFailed, stats.Total-stats.Passed, stats.Total)
	}
	logger.Get().Info(ctx, "all scenarios passed")
	return outcomes, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	var health struct {
		Status string `json:"status"`
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode health body: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes outcomes as indented JSON.
func saveReport(ctx context.Context, filename string, outcomes []Outcome) error {
	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var passRate float64
	if stats.Total > 0 {
		passRate = float64(stats.Passed) / float64(stats.Total) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("total", stats.Total),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int("errored", stats.Errored),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate))
}
