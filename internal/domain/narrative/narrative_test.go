package narrative_test

import (
	"testing"

	"github.com/okian/triage/internal/domain/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAnalyze(t *testing.T) {
	Convey("Given the narrative analyzer", t, func() {
		Convey("When the narrative is empty", func() {
			a := narrative.Analyze("   ")

			Convey("Then it should score zero with no insights", func() {
				So(a.Score, ShouldEqual, 0)
				So(a.Insights, ShouldNotBeNil)
				So(a.Insights, ShouldBeEmpty)
				So(a.Matches, ShouldBeEmpty)
			})
		})

		Convey("When a single critical keyword appears in upper case", func() {
			a := narrative.Analyze("Patient reports CHEST PAIN")

			Convey("Then it should add the critical weight", func() {
				So(a.Score, ShouldEqual, 10)
				So(a.Insights, ShouldResemble, []string{
					"CRITICAL SYMPTOMS DETECTED: Immediate medical attention required",
					"CHEST PAIN: Requires immediate assessment",
					"MODERATE NARRATIVE RISK SCORE: Several symptoms require attention",
				})
				So(a.Matches, ShouldHaveLength, 1)
				So(a.Matches[0].Topic, ShouldEqual, narrative.TopicCardiovascular)
			})
		})

		Convey("When condition and medication markers appear", func() {
			a := narrative.Analyze("History of diabetes, takes insulin")

			Convey("Then tiered matches and condition alerts should both be reported", func() {
				So(a.Score, ShouldEqual, 7)
				So(a.Insights, ShouldResemble, []string{
					"HIGH RISK SYMPTOMS: Significant medical concern",
					"diabetes: Monitor closely, prepare for escalation",
					"MODERATE SYMPTOMS: Standard monitoring required",
					"insulin: Document and monitor",
					"Diabetes Alert: Check blood glucose, monitor for hypo/hyperglycemia",
					"Insulin Alert: Check blood glucose, watch for hypoglycemia",
					"LOW NARRATIVE RISK SCORE: Minor symptoms noted",
				})
			})
		})

		Convey("When a keyword is listed under two severities", func() {
			a := narrative.Analyze("heart racing since noon")

			Convey("Then it should count under both", func() {
				So(a.Score, ShouldEqual, 15)
				So(a.Insights, ShouldContain, "Cardiac History: Prepare for cardiac assessment, consider ECG")
				So(a.Insights[len(a.Insights)-1], ShouldEqual, "HIGH NARRATIVE RISK SCORE: Multiple concerning symptoms detected")
			})
		})

		Convey("When overlapping keywords share a prefix", func() {
			a := narrative.Analyze("sweating profusely")

			Convey("Then every substring match should score", func() {
				So(a.Score, ShouldEqual, 15)
				So(a.Matches, ShouldHaveLength, 3)
			})
		})

		Convey("When only an alert marker appears", func() {
			a := narrative.Analyze("Patient had a stroke last year")

			Convey("Then the alert should be emitted without a score", func() {
				So(a.Score, ShouldEqual, 0)
				So(a.Insights, ShouldResemble, []string{"Stroke History: Monitor for new symptoms, check FAST signs"})
			})
		})
	})
}

func TestKeywords(t *testing.T) {
	Convey("Given the keyword table", t, func() {
		kws := narrative.Keywords()

		Convey("Then every entry should carry a positive weight", func() {
			So(len(kws), ShouldBeGreaterThan, 100)
			for _, k := range kws {
				So(k.Severity.Weight(), ShouldBeGreaterThan, 0)
				So(k.Text, ShouldNotBeBlank)
			}
		})

		Convey("And callers should not be able to mutate it", func() {
			kws[0].Text = "changed"
			So(narrative.Keywords()[0].Text, ShouldEqual, "can't breathe")
		})
	})
}
