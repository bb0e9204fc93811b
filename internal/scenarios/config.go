package scenarios

import "time"

// Config holds configuration for a scenario run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON report file
	Verbose    bool          // Enable verbose logging
}

// Vitals is the request body posted for a scenario. Fields are pointers so
// a scenario can omit one.
type Vitals struct {
	SpO2      *int   `json:"spo2,omitempty"`
	RR        *int   `json:"rr,omitempty"`
	HR        *int   `json:"hr,omitempty"`
	SBP       *int   `json:"sbp,omitempty"`
	GCSEye    *int   `json:"gcs_eye,omitempty"`
	GCSVerbal *int   `json:"gcs_verbal,omitempty"`
	GCSMotor  *int   `json:"gcs_motor,omitempty"`
	Narrative string `json:"patient_narrative,omitempty"`
}

// Expected lists the tiers a scenario should produce. Status is the
// expected HTTP status; tiers are ignored unless it is 200.
type Expected struct {
	Status         int    `json:"status"`
	Overall        string `json:"overall,omitempty"`
	Respiratory    string `json:"respiratory,omitempty"`
	Neurological   string `json:"neurological,omitempty"`
	Cardiovascular string `json:"cardiovascular,omitempty"`
}

// Scenario is one clinical case with its expected outcome.
type Scenario struct {
	Name     string   `json:"name"`
	Vitals   Vitals   `json:"vitals"`
	Expected Expected `json:"expected"`
}

// Outcome is the observed result of one scenario.
type Outcome struct {
	Scenario   string   `json:"scenario"`
	Expected   Expected `json:"expected"`
	Got        Expected `json:"got"`
	Mismatches []string `json:"mismatches,omitempty"`
	Error      string   `json:"error,omitempty"`
	LatencyMs  float64  `json:"latency_ms"`
}

// Passed reports whether the scenario met every expectation.
func (o Outcome) Passed() bool {
	return o.Error == "" && len(o.Mismatches) == 0
}

// Stats holds run statistics.
type Stats struct {
	Total     int
	Passed    int
	Failed    int
	Errored   int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
