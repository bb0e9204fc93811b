package model

import (
	"time"

	"github.com/okian/triage/internal/domain/types"
)

// Indices holds the derived clinical indices for one set of vitals.
type Indices struct {
	// ROX is the full-precision ROX index; ROXDefined is false when rr is 0.
	ROX        float64
	ROXDefined bool
	GCSTotal   int
	RPP        int
	NEWS2      int
	MEOWS      int
}

// Subsystems holds the per-subsystem risk tiers.
type Subsystems struct {
	Respiratory    types.Tier
	Neurological   types.Tier
	Cardiovascular types.Tier
}

// All returns the three tiers in a fixed order.
func (s Subsystems) All() []types.Tier {
	return []types.Tier{s.Respiratory, s.Neurological, s.Cardiovascular}
}

// Protocol is a field protocol recommendation for a case type.
type Protocol struct {
	Primary       string   `json:"primary"`
	Interventions []string `json:"interventions"`
	Transport     string   `json:"transport"`
}

// Guidance is the per-tier clinical guidance shown to the crew.
type Guidance struct {
	TransportDestination  string `json:"transport_destination"`
	MonitoringLevel       string `json:"monitoring_level"`
	Interventions         string `json:"interventions"`
	SpecialConsiderations string `json:"special_considerations"`
}

// Assessment is the response shape of a risk assessment. OverallRisk is
// the vitals-only tier; RiskLevel includes narrative escalation.
type Assessment struct {
	AssessmentID string    `json:"assessment_id,omitempty"`
	AssessedAt   time.Time `json:"assessed_at,omitzero"`

	ROXScore   *float64 `json:"rox_score"`
	GCSTotal   int      `json:"gcs_total"`
	RPPScore   int      `json:"rpp_score"`
	NEWS2Score int      `json:"news2_score"`
	MEOWSScore int      `json:"meows_score"`

	RespiratoryRisk    types.Tier `json:"respiratory_risk"`
	NeurologicalRisk   types.Tier `json:"neurological_risk"`
	CardiovascularRisk types.Tier `json:"cardiovascular_risk"`
	OverallRisk        types.Tier `json:"overall_risk"`
	RiskLevel          types.Tier `json:"risk_level"`

	NarrativeRiskScore int      `json:"narrative_risk_score"`
	NarrativeInsights  []string `json:"narrative_insights"`

	CaseType                string   `json:"case_type"`
	CaseConfidence          float64  `json:"case_confidence"`
	MatchedSymptoms         []string `json:"matched_symptoms"`
	ProtocolRecommendations Protocol `json:"protocol_recommendations"`
	TransportDecision       string   `json:"transport_decision"`
	PriorityInterventions   []string `json:"priority_interventions"`
	ClinicalGuidance        Guidance `json:"clinical_guidance"`
}

// BatchItem is one entry of a batch response, in request order.
type BatchItem struct {
	Index      int         `json:"index"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`
}
