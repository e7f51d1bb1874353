package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/go-chi/render"
)

// ScoreRequest is the body of POST /v1/score. Parameters, when given, are
// merged over the service defaults; Period uses the period file layout.
type ScoreRequest struct {
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Period     json.RawMessage `json:"period"`
}

// ParametersResponse is the payload of GET /v1/parameters.
type ParametersResponse struct {
	Rounding   string             `json:"rounding"`
	Parameters scoring.Parameters `json:"parameters"`
}

// HealthResponse is the payload of /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Service   string    `json:"service"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   report.Version,
		Service:   report.Tool,
	})
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   report.Version,
		Service:   report.Tool,
	}
	if !s.ready.Load() {
		resp.Status = "shutting down"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

func (s *Server) parameters(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, SuccessResponse("ok", ParametersResponse{
		Rounding:   s.rounding.String(),
		Parameters: s.params,
	}))
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respond(w, r, http.StatusBadRequest, BadRequestResponse("invalid request body: "+err.Error(), nil))
		return
	}
	if len(req.Period) == 0 || string(req.Period) == "null" {
		respond(w, r, http.StatusBadRequest, BadRequestResponse("period is required", nil))
		return
	}

	params, err := s.mergeParameters(req.Parameters)
	if err != nil {
		s.badInput(w, r, "invalid parameters", err)
		return
	}

	p, err := period.Parse(req.Period)
	if err != nil {
		s.badInput(w, r, "invalid period", err)
		return
	}

	rep := report.New(p.Label, scoring.NewEngine(params, s.rounding), p.Inputs())
	for _, m := range rep.Modules() {
		s.metrics.ModuleScored(m)
	}
	s.logger.Debug("scored period", "period", p.Label, "modules", rep.Modules(), "id", rep.ID)

	respond(w, r, http.StatusOK, SuccessResponse("ok", rep))
}

// mergeParameters overlays a partial parameter document on the service
// defaults and validates the result.
func (s *Server) mergeParameters(raw json.RawMessage) (scoring.Parameters, error) {
	params := s.params
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, err
	}
	if err := cue.Shared().ValidateValue(cue.SchemaParameters, params); err != nil {
		return params, err
	}
	return params, nil
}

// badInput answers 400, listing schema violations when err carries them.
func (s *Server) badInput(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var verrs cue.ValidationErrors
	if errors.As(err, &verrs) {
		respond(w, r, http.StatusBadRequest, BadRequestResponse(msg, verrs))
		return
	}
	respond(w, r, http.StatusBadRequest, BadRequestResponse(msg+": "+err.Error(), nil))
}
