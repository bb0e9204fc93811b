package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/triage/internal/domain/model"
	"github.com/okian/triage/pkg/metrics"
)

// AssessmentsHandler serves single and batch risk assessments.
type AssessmentsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps Dependencies, maxBodyBytes int64) *AssessmentsHandler {
	return &AssessmentsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// batchRequest mirrors the OpenAPI schema for POST /v1/assessments/batch.
type batchRequest struct {
	Records []model.Request `json:"records"`
}

type batchResponse struct {
	Results []model.BatchItem `json:"results"`
}

// HandleAssess handles POST /api/predict and POST /v1/assessments.
func (h *AssessmentsHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess"
	var req model.Request
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, op, err)
		return
	}
	a, err := h.deps.Assess(r.Context(), req)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleBatch handles POST /v1/assessments/batch.
func (h *AssessmentsHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.assess_batch"
	var req batchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, op, err)
		return
	}
	items, err := h.deps.AssessBatch(r.Context(), req.Records)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: items})
}

func (h *AssessmentsHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return WrapKind("decode", ErrTooLarge, err)
		case errors.Is(err, io.EOF):
			return WrapKind("decode", ErrBadRequest, errors.New("request body is empty"))
		default:
			return WrapKind("decode", ErrBadRequest, err)
		}
	}
	return nil
}

// fail tags err with op and its API kind, then writes the error body.
func (h *AssessmentsHandler) fail(w http.ResponseWriter, op string, err error) {
	kind := KindOf(err)
	var kerr *KindError
	if !errors.As(err, &kerr) {
		err = WrapKind(op, kind, err)
	}
	status, code := StatusOf(kind)
	if status >= statusInternalError {
		metrics.RecordErrorByComponent("http", op)
	}
	writeError(w, status, code, errors.New(clientMessage(status, err)))
}
