package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/triage/internal/scenarios"
	"github.com/okian/triage/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 4
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write a JSON report of every outcome to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		scenarios.ShowHelp()
		return
	}

	if err := scenarios.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &scenarios.Config{
		BaseURL:    *baseURL,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := scenarios.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Scenario run failed: " + err.Error() + "\n")
		cancel()
		_ = logger.Sync()
		os.Exit(1)
	}
}
