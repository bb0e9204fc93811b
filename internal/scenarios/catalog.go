package scenarios

import "net/http"

func v(n int) *int { return &n }

func vitals(spo2, rr, hr, sbp, eye, verbal, motor int) Vitals {
	return Vitals{
		SpO2: v(spo2), RR: v(rr), HR: v(hr), SBP: v(sbp),
		GCSEye: v(eye), GCSVerbal: v(verbal), GCSMotor: v(motor),
	}
}

func tiers(overall, resp, neuro, cardio string) Expected {
	return Expected{
		Status:         http.StatusOK,
		Overall:        overall,
		Respiratory:    resp,
		Neurological:   neuro,
		Cardiovascular: cardio,
	}
}

// Catalog returns the reference clinical scenarios.
func Catalog() []Scenario {
	withNarrative := vitals(98, 16, 72, 120, 4, 5, 6)
	withNarrative.Narrative = "Patient reports chest pain"

	missingHR := vitals(98, 16, 72, 120, 4, 5, 6)
	missingHR.HR = nil

	return []Scenario{
		{Name: "Normal Patient", Vitals: vitals(98, 16, 72, 120, 4, 5, 6),
			Expected: tiers("Low", "Low", "Low", "Low")},
		{Name: "Critical Respiratory Failure", Vitals: vitals(75, 35, 120, 90, 3, 3, 4),
			Expected: tiers("Critical", "Critical", "High", "High")},
		{Name: "Severe Bradycardia", Vitals: vitals(95, 12, 35, 70, 2, 2, 3),
			Expected: tiers("Critical", "Low", "Critical", "Critical")},
		{Name: "Moderate Risk Patient", Vitals: vitals(92, 22, 110, 95, 3, 4, 5),
			Expected: tiers("Critical", "Moderate", "Moderate", "Moderate")},
		{Name: "High Risk Trauma", Vitals: vitals(88, 28, 140, 85, 2, 2, 3),
			Expected: tiers("Critical", "High", "Critical", "High")},
		{Name: "Borderline Normal", Vitals: vitals(95, 20, 100, 95, 4, 5, 6),
			Expected: tiers("Low", "Low", "Low", "Low")},
		{Name: "Severe Hypertension", Vitals: vitals(96, 18, 180, 220, 4, 5, 6),
			Expected: tiers("Critical", "Low", "Low", "Critical")},
		{Name: "Cardiac Arrest", Vitals: vitals(60, 0, 0, 0, 1, 1, 1),
			Expected: tiers("Critical", "Critical", "Critical", "Critical")},
		{Name: "Narrative Escalation", Vitals: withNarrative,
			Expected: Expected{Status: http.StatusOK, Overall: "Moderate", Respiratory: "Low", Neurological: "Low", Cardiovascular: "Low"}},
		{Name: "Missing Heart Rate", Vitals: missingHR,
			Expected: Expected{Status: http.StatusBadRequest}},
	}
}
