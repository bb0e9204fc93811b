// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxReading caps accepted values so hr*sbp cannot overflow.
const maxReading = math.MaxInt32

// VitalSigns is a validated set of vital signs for one assessment.
type VitalSigns struct {
	SpO2      int `json:"spo2"`       // oxygen saturation, percent
	RR        int `json:"rr"`         // respiratory rate, breaths/min
	HR        int `json:"hr"`         // heart rate, beats/min
	SBP       int `json:"sbp"`        // systolic blood pressure, mmHg
	GCSEye    int `json:"gcs_eye"`    // 1-4
	GCSVerbal int `json:"gcs_verbal"` // 1-5
	GCSMotor  int `json:"gcs_motor"`  // 1-6
}

// Reading is a vital sign as submitted by a client. JSON numbers and
// numeric strings are accepted; anything else is remembered as present but
// non-numeric so validation can name the offending field.
type Reading struct {
	value   float64
	present bool
	numeric bool
}

// Value builds a present, numeric reading.
func Value(v float64) Reading {
	return Reading{value: v, present: true, numeric: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

// UnmarshalJSON never fails: malformed readings are rejected later by Vitals.
func (r *Reading) UnmarshalJSON(b []byte) error {
	*r = Reading{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	r.present = true
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r.value, r.numeric = v, true
	return nil
}

// MarshalJSON writes the numeric value, or null when absent or malformed.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.present || !r.numeric {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

func (r Reading) integer(field string) (int, error) {
	switch {
	case !r.present:
		return 0, &ValidationError{Field: field, Reason: "is required"}
	case !r.numeric:
		return 0, &ValidationError{Field: field, Reason: "must be numeric"}
	case r.value < 0:
		return 0, &ValidationError{Field: field, Reason: "must not be negative"}
	case r.value != math.Trunc(r.value):
		return 0, &ValidationError{Field: field, Reason: "must be a whole number"}
	case r.value > maxReading:
		return 0, &ValidationError{Field: field, Reason: "is out of range"}
	}
	return int(r.value), nil
}

// Narrative is free-text patient history. Non-string JSON decodes as empty.
type Narrative string

// UnmarshalJSON accepts any JSON value; only strings are kept.
func (n *Narrative) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*n = ""
		return nil
	}
	*n = Narrative(s)
	return nil
}

// Request mirrors the JSON body of an assessment request.
type Request struct {
	SpO2      Reading   `json:"spo2"`
	RR        Reading   `json:"rr"`
	HR        Reading   `json:"hr"`
	SBP       Reading   `json:"sbp"`
	GCSEye    Reading   `json:"gcs_eye"`
	GCSVerbal Reading   `json:"gcs_verbal"`
	GCSMotor  Reading   `json:"gcs_motor"`
	Narrative Narrative `json:"patient_narrative"`
}

// NewRequest builds a request from already-typed vitals.
func NewRequest(v VitalSigns, narrative string) Request {
	return Request{
		SpO2:      Value(float64(v.SpO2)),
		RR:        Value(float64(v.RR)),
		HR:        Value(float64(v.HR)),
		SBP:       Value(float64(v.SBP)),
		GCSEye:    Value(float64(v.GCSEye)),
		GCSVerbal: Value(float64(v.GCSVerbal)),
		GCSMotor:  Value(float64(v.GCSMotor)),
		Narrative: Narrative(narrative),
	}
}

// Vitals validates the request and returns typed vital signs. The returned
// error wraps ErrInvalidInput and names the first offending field.
func (r Request) Vitals() (VitalSigns, error) {
	var v VitalSigns
	fields := []struct {
		name string
		in   Reading
		out  *int
	}{
		{"spo2", r.SpO2, &v.SpO2},
		{"rr", r.RR, &v.RR},
		{"hr", r.HR, &v.HR},
		{"sbp", r.SBP, &v.SBP},
		{"gcs_eye", r.GCSEye, &v.GCSEye},
		{"gcs_verbal", r.GCSVerbal, &v.GCSVerbal},
		{"gcs_motor", r.GCSMotor, &v.GCSMotor},
	}
	for _, f := range fields {
		n, err := f.in.integer(f.name)
		if err != nil {
			return VitalSigns{}, err
		}
		*f.out = n
	}
	return v, nil
}

// ValidationError describes a rejected vital sign.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid vital signs: %s %s", e.Field, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
