package scenarios

import (
	"fmt"
	"os"

	"github.com/okian/triage/pkg/logger"
)

// SetupLogging initialises the JSON logger, at debug level when verbose.
func SetupLogging(verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithLevel(level)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the scenario tool.
func ShowHelp() {
	os.Stdout.WriteString(`Triage Scenario Tool
====================

Posts the reference clinical scenarios to a running triage service and
checks the returned risk tiers.

Usage:
  go run ./cmd/scenarios [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -workers int
        Number of concurrent workers (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write a JSON report of every outcome to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run against a local service
  go run ./cmd/scenarios

  # Run against another host with a report
  go run ./cmd/scenarios -url http://triage.internal:9080 -output report.json
`)
}
