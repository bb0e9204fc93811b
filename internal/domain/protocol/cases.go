// Package protocol maps a patient narrative to a case type and the field
// protocol, transport decision and interventions that go with it.
package protocol

import "strings"

// Case type names.
const (
	CaseTrauma       = "Trauma"
	CaseCardiac      = "Medical-Cardiac"
	CaseRespiratory  = "Medical-Respiratory"
	CaseNeurological = "Medical-Neurological"
	CaseObstetric    = "Obstetric"
	CasePediatric    = "Pediatric"
	CaseGeneral      = "Medical-General"
)

const symptomMatchPercent = 10

type caseDef struct {
	name     string
	keywords []string
	symptoms []string
}

var caseDefs = []caseDef{
	{
		name: CaseTrauma,
		keywords: []string{"accident", "fall", "hit", "struck", "collision", "crash", "injury", "wound",
			"bleeding", "fracture", "broken", "laceration", "trauma", "mva", "motor vehicle", "car accident",
			"pedestrian", "gunshot", "stab", "penetrating"},
		symptoms: []string{"pain", "swelling", "bruising", "deformity", "bleeding", "shock"},
	},
	{
		name: CaseCardiac,
		keywords: []string{"chest pain", "heart", "cardiac", "arrhythmia", "palpitation", "pressure",
			"squeezing", "tightness", "angina", "heart attack", "mi", "myocardial infarction", "cardiac arrest", "cpr"},
		symptoms: []string{"chest pain", "shortness of breath", "sweating", "nausea", "arm pain"},
	},
	{
		name: CaseRespiratory,
		keywords: []string{"shortness of breath", "sob", "difficulty breathing", "respiratory", "asthma",
			"copd", "wheezing", "coughing", "choking", "dyspnea", "respiratory distress", "breathing problem"},
		symptoms: []string{"shortness of breath", "wheezing", "cough", "chest tightness", "rapid breathing"},
	},
	{
		name: CaseNeurological,
		keywords: []string{"stroke", "cva", "seizure", "convulsion", "unconscious", "altered mental status",
			"ams", "confusion", "weakness", "numbness", "paralysis", "facial droop", "slurred speech", "headache", "migraine"},
		symptoms: []string{"altered consciousness", "weakness", "numbness", "speech problems", "vision changes"},
	},
	{
		name: CaseObstetric,
		keywords: []string{"pregnant", "pregnancy", "labor", "contraction", "delivery", "baby", "birth",
			"obstetric", "maternal", "fetal", "placenta", "amniotic", "bleeding pregnancy"},
		symptoms: []string{"abdominal pain", "contractions", "bleeding", "fluid leakage", "fetal movement"},
	},
	{
		name: CasePediatric,
		keywords: []string{"child", "baby", "infant", "toddler", "pediatric", "fever child", "child sick",
			"baby sick", "infant distress"},
		symptoms: []string{"fever", "crying", "lethargy", "poor feeding", "respiratory distress"},
	},
}

// CaseType is the best-matching case classification for a narrative.
type CaseType struct {
	Name       string
	Confidence float64
	Symptoms   []string
}

// Classify picks the case type with the highest confidence, where
// confidence is the percentage of the type's keywords found plus ten
// points per matched symptom. Ties keep the earlier type; no match yields
// Medical-General with zero confidence.
func Classify(narrative string) CaseType {
	lower := strings.ToLower(narrative)
	best := CaseType{Name: CaseGeneral, Symptoms: []string{}}
	if strings.TrimSpace(lower) == "" {
		return best
	}
	for _, def := range caseDefs {
		hits := 0
		for _, k := range def.keywords {
			if strings.Contains(lower, k) {
				hits++
			}
		}
		symptoms := []string{}
		for _, s := range def.symptoms {
			if strings.Contains(lower, s) {
				symptoms = append(symptoms, s)
			}
		}
		confidence := float64(hits)/float64(len(def.keywords))*100 + float64(len(symptoms)*symptomMatchPercent)
		if confidence > best.Confidence {
			best = CaseType{Name: def.name, Confidence: confidence, Symptoms: symptoms}
		}
	}
	return best
}
