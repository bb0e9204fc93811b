package scenarios

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/triage/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.client.Do(req)
}

// assessmentTiers is the subset of the assessment response the runner checks.
type assessmentTiers struct {
	RiskLevel          string `json:"risk_level"`
	RespiratoryRisk    string `json:"respiratory_risk"`
	NeurologicalRisk   string `json:"neurological_risk"`
	CardiovascularRisk string `json:"cardiovascular_risk"`
}

// submitScenarios posts every scenario concurrently and returns outcomes
// in catalog order.
func submitScenarios(ctx context.Context, config *Config, scenarios []Scenario) []Outcome {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/predict"
	log := logger.Get().Named("scenarios")

	outcomes := make([]Outcome, len(scenarios))
	indices := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				outcomes[idx] = runScenario(ctx, client, url, scenarios[idx])
				if config.Verbose {
					log.Info(ctx, "scenario finished",
						logger.String("scenario", outcomes[idx].Scenario),
						logger.Any("passed", outcomes[idx].Passed()),
						logger.Float64("latencyMs", outcomes[idx].LatencyMs),
					)
				}
			}
		}()
	}

	// Send scenarios to workers
	go func() {
		defer close(indices)
		for i := range scenarios {
			select {
			case <-ctx.Done():
				return
			case indices <- i:
			}
		}
	}()

	wg.Wait()

	for i := range outcomes {
		if outcomes[i].Scenario == "" {
			outcomes[i] = Outcome{Scenario: scenarios[i].Name, Expected: scenarios[i].Expected, Error: "not run: cancelled"}
		}
	}
	return outcomes
}

// runScenario posts one scenario and compares the response.
func runScenario(ctx context.Context, client *HTTPClient, url string, s Scenario) Outcome {
	out := Outcome{Scenario: s.Name, Expected: s.Expected}
	start := time.Now()

	resp, err := client.Post(ctx, url, s.Vitals)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	out.LatencyMs = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		out.Error = fmt.Sprintf("failed to read response: %v", err)
		return out
	}

	out.Got.Status = resp.StatusCode
	if resp.StatusCode == http.StatusOK {
		var tiers assessmentTiers
		if err := json.Unmarshal(body, &tiers); err != nil {
			out.Error = fmt.Sprintf("failed to decode response: %v", err)
			return out
		}
		out.Got.Overall = tiers.RiskLevel
		out.Got.Respiratory = tiers.RespiratoryRisk
		out.Got.Neurological = tiers.NeurologicalRisk
		out.Got.Cardiovascular = tiers.CardiovascularRisk
	}
	out.Mismatches = compare(s.Expected, out.Got)
	return out
}

// compare lists every field where got differs from want.
func compare(want, got Expected) []string {
	var diffs []string
	check := func(field, w, g string) {
		if w != g {
			diffs = append(diffs, fmt.Sprintf("%s: expected %s, got %s", field, w, g))
		}
	}
	if want.Status != got.Status {
		diffs = append(diffs, fmt.Sprintf("status: expected %d, got %d", want.Status, got.Status))
		return diffs
	}
	if want.Status != http.StatusOK {
		return nil
	}
	check("overall", want.Overall, got.Overall)
	check("respiratory", want.Respiratory, got.Respiratory)
	check("neurological", want.Neurological, got.Neurological)
	check("cardiovascular", want.Cardiovascular, got.Cardiovascular)
	return diffs
}
