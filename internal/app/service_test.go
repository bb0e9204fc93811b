package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/triage/internal/adapters/mq/queue"
	service "github.com/okian/triage/internal/app"
	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/types"
	"github.com/okian/triage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func vitals(spo2, rr, hr, sbp, eye, verbal, motor int) model.VitalSigns {
	return model.VitalSigns{SpO2: spo2, RR: rr, HR: hr, SBP: sbp, GCSEye: eye, GCSVerbal: verbal, GCSMotor: motor}
}

func normal() model.Request {
	return model.NewRequest(vitals(98, 16, 72, 120, 4, 5, 6), "")
}

// gatedScorer blocks every call until the gate is closed.
type gatedScorer struct {
	gate chan struct{}
}

func (g *gatedScorer) Assess(ctx context.Context, _ model.Request) (model.Assessment, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return model.Assessment{}, ctx.Err()
	}
	return model.Assessment{RiskLevel: types.Low}, nil
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.MaxBatchSize(), ShouldEqual, 100)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithMaxBatchSize(10),
			service.WithLogger(logger.Get()),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(svc.MaxBatchSize(), ShouldEqual, 10)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should be marked as started", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				svc.Stop()
			})
		})
	})
}

func TestService_Assess(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When assessing normal vitals", func() {
			a, err := svc.Assess(ctx, normal())

			Convey("Then every tier should be Low and an id assigned", func() {
				So(err, ShouldBeNil)
				So(a.RiskLevel, ShouldEqual, types.Low)
				So(a.OverallRisk, ShouldEqual, types.Low)
				So(a.AssessmentID, ShouldNotBeBlank)
				So(a.GCSTotal, ShouldEqual, 15)
			})
		})

		Convey("When assessing a narrative-escalated case", func() {
			a, err := svc.Assess(ctx, model.NewRequest(vitals(98, 16, 72, 120, 4, 5, 6), "Patient reports chest pain"))

			Convey("Then the final level should be raised", func() {
				So(err, ShouldBeNil)
				So(a.OverallRisk, ShouldEqual, types.Low)
				So(a.RiskLevel, ShouldEqual, types.Moderate)
			})
		})

		Convey("When a vital sign is missing", func() {
			req := normal()
			req.HR = model.Reading{}
			_, err := svc.Assess(ctx, req)

			Convey("Then an invalid input error naming the field should be returned", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				var verr *model.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Field, ShouldEqual, "hr")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Assess(cctx, normal())

			Convey("Then the cancellation should be reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestService_AssessBatch(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()

		Convey("When a batch is submitted", func() {
			_, err := svc.AssessBatch(context.Background(), []model.Request{normal()})

			Convey("Then it should be refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(4), service.WithMaxBatchSize(5))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the batch is empty", func() {
			_, err := svc.AssessBatch(ctx, nil)

			Convey("Then it should be an invalid batch", func() {
				So(errors.Is(err, service.ErrInvalidBatch), ShouldBeTrue)
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeFalse)
			})
		})

		Convey("When the batch exceeds the limit", func() {
			reqs := make([]model.Request, 6)
			for i := range reqs {
				reqs[i] = normal()
			}
			_, err := svc.AssessBatch(ctx, reqs)

			Convey("Then it should be too large and still an invalid batch", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
				So(errors.Is(err, service.ErrInvalidBatch), ShouldBeTrue)
			})
		})

		Convey("When a batch mixes valid and invalid records", func() {
			bad := normal()
			bad.SpO2 = model.Value(-1)
			reqs := []model.Request{
				normal(),
				bad,
				model.NewRequest(vitals(80, 35, 130, 85, 2, 2, 4), ""),
			}
			items, err := svc.AssessBatch(ctx, reqs)

			Convey("Then results should keep input order with inline errors", func() {
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 3)
				for i, it := range items {
					So(it.Index, ShouldEqual, i)
				}
				So(items[0].Assessment, ShouldNotBeNil)
				So(items[0].Assessment.RiskLevel, ShouldEqual, types.Low)
				So(items[1].Assessment, ShouldBeNil)
				So(items[1].Error, ShouldContainSubstring, "spo2")
				So(items[2].Assessment.RiskLevel, ShouldEqual, types.Critical)
			})
		})
	})
}

func TestService_Backpressure(t *testing.T) {
	Convey("Given a service whose single worker is blocked", t, func() {
		scorer := &gatedScorer{gate: make(chan struct{})}
		svc := service.New(
			service.WithScorer(scorer),
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithMaxBatchSize(10),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		defer close(scorer.gate)

		Convey("When a batch larger than the queue is submitted", func() {
			reqs := make([]model.Request, 10)
			for i := range reqs {
				reqs[i] = normal()
			}
			_, err := svc.AssessBatch(context.Background(), reqs)

			Convey("Then it should be rejected with backpressure", func() {
				So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
				So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
			})
		})

		Convey("When the caller gives up while waiting", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := svc.AssessBatch(ctx, []model.Request{normal()})

			Convey("Then the deadline should be reported", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}
