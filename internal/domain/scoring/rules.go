package scoring

import (
	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/types"
)

// ROX thresholds.
const (
	roxCritical = 4.88
	roxModerate = 7.5
)

// rule raises a tier to target when its predicate holds. A lowOnly rule
// only fires while the tier being folded is still Low.
type rule[T any] struct {
	name    string
	when    func(T) bool
	target  types.Tier
	lowOnly bool
}

// fold applies rules in order starting from Low. Tiers only move up.
func fold[T any](rules []rule[T], in T) types.Tier {
	tier := types.Low
	for _, r := range rules {
		if r.lowOnly && tier != types.Low {
			continue
		}
		if r.when(in) {
			tier = types.Max(tier, r.target)
		}
	}
	return tier
}

type vitalsInput struct {
	v   model.VitalSigns
	idx model.Indices
}

var respiratoryRules = []rule[vitalsInput]{
	{name: "spo2 below 85", when: func(in vitalsInput) bool { return in.v.SpO2 < 85 }, target: types.Critical},
	{name: "spo2 below 90", when: func(in vitalsInput) bool { return in.v.SpO2 < 90 }, target: types.High},
	{name: "rr outside 10-25", when: func(in vitalsInput) bool { return in.v.RR > 25 || in.v.RR < 10 }, target: types.High},
	{name: "rr outside 12-20", when: func(in vitalsInput) bool { return in.v.RR > 20 || in.v.RR < 12 }, target: types.Moderate},
	{
		name:   "rox below 4.88",
		when:   func(in vitalsInput) bool { return in.idx.ROXDefined && in.idx.ROX < roxCritical },
		target: types.Critical,
	},
	{
		name:    "rox below 7.5",
		when:    func(in vitalsInput) bool { return in.idx.ROXDefined && in.idx.ROX < roxModerate },
		target:  types.Moderate,
		lowOnly: true,
	},
}

var neurologicalRules = []rule[vitalsInput]{
	{name: "gcs 8 or less", when: func(in vitalsInput) bool { return in.idx.GCSTotal <= 8 }, target: types.Critical},
	{name: "gcs 10 or less", when: func(in vitalsInput) bool { return in.idx.GCSTotal <= 10 }, target: types.High},
	{name: "gcs 13 or less", when: func(in vitalsInput) bool { return in.idx.GCSTotal <= 13 }, target: types.Moderate},
}

var cardiovascularRules = []rule[vitalsInput]{
	{name: "hr outside 40-150", when: func(in vitalsInput) bool { return in.v.HR < 40 || in.v.HR > 150 }, target: types.Critical},
	{name: "hr outside 50-119", when: func(in vitalsInput) bool { return in.v.HR < 50 || in.v.HR >= 120 }, target: types.High},
	{name: "hr outside 60-100", when: func(in vitalsInput) bool { return in.v.HR < 60 || in.v.HR > 100 }, target: types.Moderate},
	{name: "sbp below 80", when: func(in vitalsInput) bool { return in.v.SBP < 80 }, target: types.Critical},
	{name: "sbp below 90", when: func(in vitalsInput) bool { return in.v.SBP < 90 }, target: types.High},
	{name: "sbp 140 or more", when: func(in vitalsInput) bool { return in.v.SBP >= 140 }, target: types.Moderate, lowOnly: true},
	{name: "rpp above 20000", when: func(in vitalsInput) bool { return in.idx.RPP > 20000 }, target: types.Critical, lowOnly: true},
	{
		name:    "rpp 15000-20000",
		when:    func(in vitalsInput) bool { return in.idx.RPP >= 15000 && in.idx.RPP <= 20000 },
		target:  types.High,
		lowOnly: true,
	},
	{name: "rpp below 4000", when: func(in vitalsInput) bool { return in.idx.RPP < 4000 }, target: types.Moderate, lowOnly: true},
}

// Respiratory classifies the respiratory subsystem. An undefined ROX
// index skips the ROX rules.
func Respiratory(v model.VitalSigns, idx model.Indices) types.Tier {
	return fold(respiratoryRules, vitalsInput{v: v, idx: idx})
}

// Neurological classifies the neurological subsystem from the GCS total.
func Neurological(idx model.Indices) types.Tier {
	return fold(neurologicalRules, vitalsInput{idx: idx})
}

// Cardiovascular classifies the cardiovascular subsystem from heart rate,
// systolic pressure and the rate-pressure product.
func Cardiovascular(v model.VitalSigns, idx model.Indices) types.Tier {
	return fold(cardiovascularRules, vitalsInput{v: v, idx: idx})
}

// ClassifySubsystems runs all three subsystem cascades.
func ClassifySubsystems(v model.VitalSigns, idx model.Indices) model.Subsystems {
	return model.Subsystems{
		Respiratory:    Respiratory(v, idx),
		Neurological:   Neurological(idx),
		Cardiovascular: Cardiovascular(v, idx),
	}
}
