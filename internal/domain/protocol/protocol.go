package protocol

import (
	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/types"
)

var protocols = map[string]model.Protocol{
	CaseTrauma: {
		Primary:       "Trauma Assessment Protocol",
		Interventions: []string{"ABCs", "C-spine immobilization", "Hemorrhage control", "Shock management"},
		Transport:     "Trauma center if available, otherwise closest appropriate facility",
	},
	CaseCardiac: {
		Primary:       "Cardiac Assessment Protocol",
		Interventions: []string{"ABCs", "12-lead ECG", "Aspirin administration", "Nitroglycerin if prescribed"},
		Transport:     "Cardiac receiving center preferred",
	},
	CaseRespiratory: {
		Primary:       "Respiratory Assessment Protocol",
		Interventions: []string{"ABCs", "Oxygen therapy", "Albuterol if prescribed", "Position of comfort"},
		Transport:     "Closest appropriate facility",
	},
	CaseNeurological: {
		Primary:       "Neurological Assessment Protocol",
		Interventions: []string{"ABCs", "Stroke assessment (FAST)", "Seizure management", "Neurological monitoring"},
		Transport:     "Stroke center if available",
	},
	CaseObstetric: {
		Primary:       "Obstetric Assessment Protocol",
		Interventions: []string{"ABCs", "Fetal monitoring", "Position of comfort", "Preparations for delivery"},
		Transport:     "Obstetric receiving center",
	},
	CasePediatric: {
		Primary:       "Pediatric Assessment Protocol",
		Interventions: []string{"ABCs", "Pediatric assessment triangle", "Age-appropriate interventions", "Family support"},
		Transport:     "Pediatric center if available",
	},
}

var generalProtocol = model.Protocol{
	Primary:       "General Assessment Protocol",
	Interventions: []string{"ABCs", "Vital signs", "General assessment"},
	Transport:     "Closest appropriate facility",
}

// Recommend returns the protocol for a case type, falling back to the
// general assessment protocol. The returned slices are fresh copies.
func Recommend(caseType string) model.Protocol {
	p, ok := protocols[caseType]
	if !ok {
		p = generalProtocol
	}
	p.Interventions = append([]string(nil), p.Interventions...)
	return p
}

// TransportDecision returns the transport urgency text for a final tier.
func TransportDecision(tier types.Tier) string {
	switch tier {
	case types.Critical:
		return "EMERGENCY TRANSPORT - Immediate transport to appropriate facility"
	case types.High:
		return "URGENT TRANSPORT - Transport within 30 minutes"
	case types.Moderate:
		return "STANDARD TRANSPORT - Transport when available"
	default:
		return "NON-URGENT TRANSPORT - Transport at convenience"
	}
}

// PriorityInterventions prefixes the protocol interventions with urgency
// markers for High and Critical tiers.
func PriorityInterventions(p model.Protocol, tier types.Tier) []string {
	var prefix []string
	switch tier {
	case types.Critical:
		prefix = []string{"Immediate life support", "EMERGENCY INTERVENTIONS"}
	case types.High:
		prefix = []string{"URGENT INTERVENTIONS"}
	}
	out := make([]string, 0, len(prefix)+len(p.Interventions))
	out = append(out, prefix...)
	return append(out, p.Interventions...)
}

var guidance = map[types.Tier]model.Guidance{
	types.Critical: {
		TransportDestination:  "Trauma Center or Cardiac Center",
		MonitoringLevel:       "Continuous monitoring with ALS",
		Interventions:         "Immediate ALS interventions, consider advanced airway, IV access",
		SpecialConsiderations: "Prepare for rapid deterioration, notify receiving facility",
	},
	types.High: {
		TransportDestination:  "Hospital ED",
		MonitoringLevel:       "Frequent reassessment (every 5-10 minutes)",
		Interventions:         "ALS monitoring, IV access if needed, prepare for escalation",
		SpecialConsiderations: "Monitor for deterioration, consider ALS upgrade",
	},
	types.Moderate: {
		TransportDestination:  "Hospital ED",
		MonitoringLevel:       "Regular reassessment (every 15 minutes)",
		Interventions:         "BLS care with ALS consideration",
		SpecialConsiderations: "Monitor trends, prepare for escalation if needed",
	},
	types.Low: {
		TransportDestination:  "Hospital ED or Urgent Care",
		MonitoringLevel:       "Standard monitoring",
		Interventions:         "BLS care, comfort measures",
		SpecialConsiderations: "Routine transport, monitor for changes",
	},
}

// ClinicalGuidance returns crew guidance for a final tier.
func ClinicalGuidance(tier types.Tier) model.Guidance {
	return guidance[tier]
}
