// Package narrative scores free-text patient history against a fixed
// keyword table.
package narrative

import (
	"fmt"
	"strings"
)

// Narrative score bands.
const (
	BandHigh     = 15
	BandModerate = 8
	BandLow      = 3
)

// Analysis is the outcome of scanning one narrative.
type Analysis struct {
	Score    int
	Insights []string
	Matches  []Keyword
}

var severityHeaders = map[Severity]string{
	SeverityCritical: "CRITICAL SYMPTOMS DETECTED: Immediate medical attention required",
	SeverityHigh:     "HIGH RISK SYMPTOMS: Significant medical concern",
	SeverityModerate: "MODERATE SYMPTOMS: Standard monitoring required",
}

func matchInsight(k Keyword) string {
	switch k.Severity {
	case SeverityCritical:
		return fmt.Sprintf("%s: Requires immediate assessment", strings.ToUpper(k.Text))
	case SeverityHigh:
		return fmt.Sprintf("%s: Monitor closely, prepare for escalation", k.Text)
	default:
		return fmt.Sprintf("%s: Document and monitor", k.Text)
	}
}

// Analyze scans text case-insensitively. Every keyword found as a
// substring adds its severity weight. An empty narrative yields a zero
// Analysis with a non-nil Insights slice.
func Analyze(text string) Analysis {
	lower := strings.ToLower(text)
	a := Analysis{Insights: []string{}}
	if strings.TrimSpace(lower) == "" {
		return a
	}

	bySeverity := make(map[Severity][]Keyword, 3)
	for _, k := range table {
		if strings.Contains(lower, k.Text) {
			a.Score += k.Severity.Weight()
			a.Matches = append(a.Matches, k)
			bySeverity[k.Severity] = append(bySeverity[k.Severity], k)
		}
	}

	for _, sev := range []Severity{SeverityCritical, SeverityHigh, SeverityModerate} {
		matched := bySeverity[sev]
		if len(matched) == 0 {
			continue
		}
		a.Insights = append(a.Insights, severityHeaders[sev])
		for _, k := range matched {
			a.Insights = append(a.Insights, matchInsight(k))
		}
	}

	for _, al := range alerts {
		for _, m := range al.markers {
			if strings.Contains(lower, m) {
				a.Insights = append(a.Insights, al.insight)
				break
			}
		}
	}

	switch {
	case a.Score >= BandHigh:
		a.Insights = append(a.Insights, "HIGH NARRATIVE RISK SCORE: Multiple concerning symptoms detected")
	case a.Score >= BandModerate:
		a.Insights = append(a.Insights, "MODERATE NARRATIVE RISK SCORE: Several symptoms require attention")
	case a.Score >= BandLow:
		a.Insights = append(a.Insights, "LOW NARRATIVE RISK SCORE: Minor symptoms noted")
	}
	return a
}
