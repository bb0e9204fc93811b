package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/okian/triage/internal/adapters/http/api"
	service "github.com/okian/triage/internal/app"
	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/internal/domain/scoring"
	"github.com/okian/triage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDependencies scores with the real engine unless an error is forced.
type mockDependencies struct {
	engine   *scoring.Engine
	err      error
	batchErr error
	panicMsg string
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{engine: scoring.NewEngine()}
}

func (m *mockDependencies) Assess(ctx context.Context, req model.Request) (model.Assessment, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return model.Assessment{}, m.err
	}
	return m.engine.Assess(ctx, req)
}

func (m *mockDependencies) AssessBatch(ctx context.Context, reqs []model.Request) ([]model.BatchItem, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	items := make([]model.BatchItem, len(reqs))
	for i, req := range reqs {
		items[i].Index = i
		a, err := m.engine.Assess(ctx, req)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].Assessment = &a
	}
	return items, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

const normalBody = `{"spo2":98,"rr":16,"hr":72,"sbp":120,"gcs_eye":4,"gcs_verbal":5,"gcs_motor":6}`

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		stats := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		router := api.NewServer(deps, stats).Router(context.Background())

		Convey("When calling the health endpoint", func() {
			w := do(router, http.MethodGet, "/healthz", "")

			Convey("Then it should report ok as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeBlank)
			})
		})

		Convey("When calling the metrics endpoint after a request", func() {
			do(router, http.MethodGet, "/healthz", "")
			w := do(router, http.MethodGet, "/metrics", "")

			Convey("Then Prometheus text should be served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "triage_engine_http_requests_total")
			})
		})

		Convey("When calling the stats endpoint", func() {
			w := do(router, http.MethodGet, "/stats", "")

			Convey("Then the provider stats should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})

		Convey("When the route does not exist", func() {
			w := do(router, http.MethodGet, "/unknown", "")

			Convey("Then a JSON 404 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the method is wrong", func() {
			w := do(router, http.MethodGet, "/api/predict", "")

			Convey("Then a 405 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When a preflight request arrives", func() {
			w := do(router, http.MethodOptions, "/v1/assessments", "")

			Convey("Then CORS headers should be set", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When the caller supplies a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then it should be echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})
}

func TestAssessHandler(t *testing.T) {
	Convey("Given the assessment routes", t, func() {
		deps := newMockDependencies()
		router := api.NewServer(deps, &mockStatsProvider{}).Router(context.Background())

		for _, path := range []string{"/api/predict", "/v1/assessments"} {
			Convey("When posting normal vitals to "+path, func() {
				w := do(router, http.MethodPost, path, normalBody)

				Convey("Then a Low assessment should be returned", func() {
					So(w.Code, ShouldEqual, http.StatusOK)
					var a map[string]any
					So(json.Unmarshal(w.Body.Bytes(), &a), ShouldBeNil)
					So(a["risk_level"], ShouldEqual, "Low")
					So(a["overall_risk"], ShouldEqual, "Low")
					So(a["gcs_total"], ShouldEqual, 15.0)
					So(a["rpp_score"], ShouldEqual, 8640.0)
					So(a["narrative_insights"], ShouldResemble, []any{})
				})
			})
		}

		Convey("When vitals arrive as numeric strings with a narrative", func() {
			body := `{"spo2":"98","rr":"16","hr":"72","sbp":"120","gcs_eye":"4","gcs_verbal":"5","gcs_motor":"6","patient_narrative":"Patient reports chest pain"}`
			w := do(router, http.MethodPost, "/api/predict", body)

			Convey("Then they should be parsed and the narrative applied", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"risk_level":"Moderate"`)
				So(w.Body.String(), ShouldContainSubstring, `"narrative_risk_score":10`)
			})
		})

		Convey("When the respiratory rate is zero", func() {
			body := `{"spo2":70,"rr":0,"hr":30,"sbp":60,"gcs_eye":1,"gcs_verbal":1,"gcs_motor":1}`
			w := do(router, http.MethodPost, "/api/predict", body)

			Convey("Then rox_score should be null and the case Critical", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rox_score":null`)
				So(w.Body.String(), ShouldContainSubstring, `"risk_level":"Critical"`)
			})
		})

		Convey("When a vital sign is negative", func() {
			w := do(router, http.MethodPost, "/api/predict", strings.Replace(normalBody, `"hr":72`, `"hr":-5`, 1))

			Convey("Then a 400 naming the field should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["message"], ShouldContainSubstring, "hr")
			})
		})

		Convey("When a vital sign is not numeric", func() {
			w := do(router, http.MethodPost, "/api/predict", strings.Replace(normalBody, `"spo2":98`, `"spo2":"abc"`, 1))

			Convey("Then a 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "spo2")
			})
		})

		Convey("When the body is malformed JSON", func() {
			w := do(router, http.MethodPost, "/api/predict", `{"spo2":`)

			Convey("Then a bad request should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is empty", func() {
			w := do(router, http.MethodPost, "/api/predict", "")

			Convey("Then a bad request should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldEqual, "request body is empty")
			})
		})

		Convey("When the scorer fails unexpectedly", func() {
			deps.err = errors.New("engine exploded")
			w := do(router, http.MethodPost, "/api/predict", normalBody)

			Convey("Then a 500 without internal detail should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldEqual, "failed to process prediction")
			})
		})

		Convey("When the handler panics", func() {
			deps.panicMsg = "kaboom"
			w := do(router, http.MethodPost, "/api/predict", normalBody)

			Convey("Then the panic should be recovered as a 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "internal_error")
			})
		})
	})

	Convey("Given a server with a small body limit", t, func() {
		router := api.NewServer(newMockDependencies(), &mockStatsProvider{}, api.WithMaxBodyBytes(16)).
			Router(context.Background())

		Convey("When the body exceeds the limit", func() {
			w := do(router, http.MethodPost, "/api/predict", normalBody)

			Convey("Then a 413 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(w)["code"], ShouldEqual, "payload_too_large")
			})
		})
	})
}

func TestBatchHandler(t *testing.T) {
	Convey("Given the batch route", t, func() {
		deps := newMockDependencies()
		router := api.NewServer(deps, &mockStatsProvider{}).Router(context.Background())

		Convey("When posting a mixed batch", func() {
			body := fmt.Sprintf(`{"records":[%s,{"spo2":98}]}`, normalBody)
			w := do(router, http.MethodPost, "/v1/assessments/batch", body)

			Convey("Then results should keep order with inline errors", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Results []struct {
						Index      int            `json:"index"`
						Assessment map[string]any `json:"assessment"`
						Error      string         `json:"error"`
					} `json:"results"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Results, ShouldHaveLength, 2)
				So(resp.Results[0].Assessment["risk_level"], ShouldEqual, "Low")
				So(resp.Results[1].Index, ShouldEqual, 1)
				So(resp.Results[1].Assessment, ShouldBeNil)
				So(resp.Results[1].Error, ShouldContainSubstring, "rr")
			})
		})

		errCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"empty", fmt.Errorf("%w: no records", service.ErrInvalidBatch), http.StatusBadRequest, "bad_request"},
			{"too large", fmt.Errorf("%w: 101 > 100", service.ErrBatchTooLarge), http.StatusRequestEntityTooLarge, "payload_too_large"},
			{"backpressure", fmt.Errorf("%w: queue full", service.ErrBackpressure), http.StatusTooManyRequests, "backpressure"},
			{"not started", service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
		}
		for _, tc := range errCases {
			Convey("When the service reports "+tc.name, func() {
				deps.batchErr = tc.err
				w := do(router, http.MethodPost, "/v1/assessments/batch", `{"records":[]}`)

				Convey("Then it should map to the right status", func() {
					So(w.Code, ShouldEqual, tc.status)
					So(decodeError(w)["code"], ShouldEqual, tc.code)
				})
			})
		}
	})
}

func TestKindError(t *testing.T) {
	Convey("Given a wrapped kind error", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.test", api.ErrBadRequest, cause)

		Convey("Then it should match both the kind and the cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.test: bad request: boom")
		})

		Convey("And a bare kind should render without a cause", func() {
			So(api.NewKind("api.test", api.ErrBackpressure).Error(), ShouldEqual, "api.test: backpressure")
		})
	})
}

func TestKindOf(t *testing.T) {
	Convey("Given errors from every layer", t, func() {
		cases := []struct {
			name   string
			err    error
			kind   error
			status int
		}{
			{"oversize body", api.NewKind("decode", api.ErrTooLarge), api.ErrTooLarge, http.StatusRequestEntityTooLarge},
			{"oversize batch", fmt.Errorf("%w: 101 > 100", service.ErrBatchTooLarge), api.ErrTooLarge, http.StatusRequestEntityTooLarge},
			{"invalid vitals", &model.ValidationError{Field: "hr"}, api.ErrInvalidInput, http.StatusBadRequest},
			{"empty batch", fmt.Errorf("%w: no records", service.ErrInvalidBatch), api.ErrBadRequest, http.StatusBadRequest},
			{"full queue", fmt.Errorf("%w: queue full", service.ErrBackpressure), api.ErrBackpressure, http.StatusTooManyRequests},
			{"not started", service.ErrNotStarted, api.ErrUnavailable, http.StatusServiceUnavailable},
			{"deadline", fmt.Errorf("batch cancelled: %w", context.DeadlineExceeded), api.ErrUnavailable, http.StatusServiceUnavailable},
			{"unknown", errors.New("boom"), api.ErrInternal, http.StatusInternalServerError},
		}

		for _, tc := range cases {
			Convey("When the error is "+tc.name, func() {
				kind := api.KindOf(tc.err)
				status, _ := api.StatusOf(kind)

				Convey("Then it should map to its API kind and status", func() {
					So(kind, ShouldEqual, tc.kind)
					So(status, ShouldEqual, tc.status)
				})
			})
		}
	})
}

// recordingLogger keeps the messages written through it.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ ...logger.Field)  { l.record(msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...logger.Field)  { l.record(msg) }
func (l *recordingLogger) Fatal(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l *recordingLogger) Named(string) logger.Logger                             { return l }

func TestRecoverInsideTracing(t *testing.T) {
	Convey("Given a traced server whose handler panics", t, func() {
		recorder := tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

		deps := newMockDependencies()
		deps.panicMsg = "kaboom"
		logs := &recordingLogger{}
		router := api.NewServer(deps, &mockStatsProvider{}, api.WithLogger(logs)).Router(context.Background())

		Convey("When the request is served", func() {
			w := do(router, http.MethodPost, "/api/predict", normalBody)

			Convey("Then the client should get a generic 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldEqual, "failed to process prediction")
			})

			Convey("And the request span should be marked as failed", func() {
				var found bool
				for _, span := range recorder.Ended() {
					if span.Name() != "POST /api/predict" {
						continue
					}
					found = true
					So(span.Status().Code, ShouldEqual, codes.Error)
				}
				So(found, ShouldBeTrue)
			})

			Convey("And the request log line should still be written", func() {
				So(logs.messages(), ShouldContain, "panic recovered")
				So(logs.messages(), ShouldContain, "http request")
			})
		})
	})
}
