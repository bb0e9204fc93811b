package scoring

import (
	"math"

	"github.com/okian/triage/internal/domain/model"
)

// roomAirFiO2 is the inspired oxygen fraction assumed for the ROX index.
const roomAirFiO2 = 0.21

// ROX returns the ROX index (spo2/FiO2)/rr. The second result is false
// when rr is zero and the index is undefined.
func ROX(spo2, rr int) (float64, bool) {
	if rr == 0 {
		return 0, false
	}
	return (float64(spo2) / roomAirFiO2) / float64(rr), true
}

// GCSTotal sums the three Glasgow Coma Scale components.
func GCSTotal(v model.VitalSigns) int {
	return v.GCSEye + v.GCSVerbal + v.GCSMotor
}

// RPP is the rate-pressure product hr*sbp.
func RPP(hr, sbp int) int {
	return hr * sbp
}

// NEWS2 sums the per-parameter National Early Warning Score 2 sub-scores.
func NEWS2(v model.VitalSigns) int {
	score := 0

	switch {
	case v.RR <= 8:
		score += 3
	case v.RR <= 11:
		score++
	case v.RR >= 25:
		score += 3
	case v.RR >= 21:
		score += 2
	}

	switch {
	case v.SpO2 <= 91:
		score += 3
	case v.SpO2 <= 93:
		score += 2
	case v.SpO2 <= 95:
		score++
	}

	switch {
	case v.SBP <= 90:
		score += 3
	case v.SBP <= 100:
		score += 2
	case v.SBP <= 110:
		score++
	case v.SBP >= 220:
		score += 3
	}

	switch {
	case v.HR <= 40:
		score += 3
	case v.HR <= 50:
		score++
	case v.HR >= 131:
		score += 3
	case v.HR >= 111:
		score += 2
	}

	switch gcs := GCSTotal(v); {
	case gcs <= 8:
		score += 3
	case gcs <= 10:
		score += 2
	case gcs <= 13:
		score++
	}

	return score
}

func outside(x, lo, hi int) bool {
	return x < lo || x > hi
}

// MEOWS sums the Modified Early Obstetric Warning Score sub-scores. Any GCS
// below 15 scores 2, so the lower GCS band never contributes.
func MEOWS(v model.VitalSigns) int {
	score := 0

	switch {
	case outside(v.RR, 10, 30):
		score += 2
	case outside(v.RR, 12, 20):
		score++
	}

	switch {
	case v.SpO2 < 95:
		score += 2
	case v.SpO2 < 97:
		score++
	}

	switch {
	case outside(v.SBP, 90, 160):
		score += 2
	case outside(v.SBP, 100, 140):
		score++
	}

	switch {
	case outside(v.HR, 50, 120):
		score += 2
	case outside(v.HR, 60, 100):
		score++
	}

	switch gcs := GCSTotal(v); {
	case gcs < 15:
		score += 2
	case gcs < 13:
		score++
	}

	return score
}

// ComputeIndices derives every clinical index for v.
func ComputeIndices(v model.VitalSigns) model.Indices {
	rox, ok := ROX(v.SpO2, v.RR)
	return model.Indices{
		ROX:        rox,
		ROXDefined: ok,
		GCSTotal:   GCSTotal(v),
		RPP:        RPP(v.HR, v.SBP),
		NEWS2:      NEWS2(v),
		MEOWS:      MEOWS(v),
	}
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
