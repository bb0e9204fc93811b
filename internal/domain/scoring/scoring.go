// Package scoring implements the deterministic pre-hospital risk triage
// engine: derived indices, per-subsystem rule cascades, composite
// resolution and narrative escalation.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/narrative"
	"github.com/okian/triage/internal/domain/protocol"
)

const tracerName = "github.com/okian/triage/internal/domain/scoring"

// Scorer assesses one request.
type Scorer interface {
	// Assess validates req and scores it, honoring ctx for cancellation.
	Assess(ctx context.Context, req model.Request) (model.Assessment, error)
}

// Assess scores validated vitals and a narrative. It is a pure function:
// the result carries no id or timestamp.
func Assess(v model.VitalSigns, text string) model.Assessment {
	idx := ComputeIndices(v)
	sub := ClassifySubsystems(v, idx)
	overall := ResolveOverall(sub.All(), idx.NEWS2, idx.MEOWS)

	na := narrative.Analyze(text)
	level := EscalateForNarrative(overall, na.Score)

	ct := protocol.Classify(text)
	proto := protocol.Recommend(ct.Name)

	a := model.Assessment{
		GCSTotal:   idx.GCSTotal,
		RPPScore:   idx.RPP,
		NEWS2Score: idx.NEWS2,
		MEOWSScore: idx.MEOWS,

		RespiratoryRisk:    sub.Respiratory,
		NeurologicalRisk:   sub.Neurological,
		CardiovascularRisk: sub.Cardiovascular,
		OverallRisk:        overall,
		RiskLevel:          level,

		NarrativeRiskScore: na.Score,
		NarrativeInsights:  na.Insights,

		CaseType:                ct.Name,
		CaseConfidence:          Round2(ct.Confidence),
		MatchedSymptoms:         ct.Symptoms,
		ProtocolRecommendations: proto,
		TransportDecision:       protocol.TransportDecision(level),
		PriorityInterventions:   protocol.PriorityInterventions(proto, level),
		ClinicalGuidance:        protocol.ClinicalGuidance(level),
	}
	if idx.ROXDefined {
		rox := Round2(idx.ROX)
		a.ROXScore = &rox
	}
	return a
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithIDFunc sets the assessment id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock sets the time source used for assessed_at.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) {
		if fn != nil {
			e.now = fn
		}
	}
}

// WithTracer overrides the tracer used for scoring spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Engine implements Scorer on top of Assess and stamps every result with
// a display-only id and timestamp.
type Engine struct {
	newID  func() string
	now    func() time.Time
	tracer trace.Tracer
}

// NewEngine creates a new scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess validates req and scores it.
func (e *Engine) Assess(ctx context.Context, req model.Request) (model.Assessment, error) {
	if e == nil {
		return model.Assessment{}, ErrNilEngine
	}
	if err := ctx.Err(); err != nil {
		return model.Assessment{}, fmt.Errorf("context cancelled: %w", err)
	}

	_, span := e.tracer.Start(ctx, "scoring.assess")
	defer span.End()

	v, err := req.Vitals()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		return model.Assessment{}, fmt.Errorf("assess: %w", err)
	}

	a := Assess(v, string(req.Narrative))
	a.AssessmentID = e.newID()
	a.AssessedAt = e.now()

	span.SetAttributes(
		attribute.String("triage.risk_level", a.RiskLevel.String()),
		attribute.String("triage.overall_risk", a.OverallRisk.String()),
		attribute.Int("triage.news2", a.NEWS2Score),
		attribute.Int("triage.meows", a.MEOWSScore),
		attribute.Int("triage.narrative_score", a.NarrativeRiskScore),
		attribute.String("triage.case_type", a.CaseType),
	)
	return a, nil
}
