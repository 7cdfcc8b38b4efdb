package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/reason"
	"github.com/ppiankov/verdict/internal/score"
)

type errResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type disputeRequest struct {
	Plaintiff string `json:"plaintiff"`
	Defendant string `json:"defendant"`
	Evidence  string `json:"evidence"`
	Verdict   string `json:"verdict,omitempty"`
}

func (req disputeRequest) dispute() model.Dispute {
	return model.Dispute{
		Plaintiff: req.Plaintiff,
		Defendant: req.Defendant,
		Evidence:  req.Evidence,
	}.Trimmed()
}

type verdictResp struct {
	Winner         model.Verdict     `json:"winner"`
	Confidence     model.Confidence  `json:"confidence"`
	PlaintiffScore int               `json:"plaintiff_score"`
	DefendantScore int               `json:"defendant_score"`
	Reasoning      string            `json:"reasoning"`
	Matches        []model.RuleMatch `json:"matches"`
	Analysis       model.Analysis    `json:"analysis"`
	Model          string            `json:"model"`
}

type reasonResp struct {
	Reasoning string              `json:"reasoning"`
	Model     string              `json:"model"`
	Verdict   model.Verdict       `json:"verdict"`
	Path      model.ReasoningPath `json:"path"`
	Fallback  bool                `json:"fallback"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// scorerLabel names the verdict model in responses
const scorerLabel = "Keyword Scorer"

// healthCheckTimeout bounds the generator check in /health
const healthCheckTimeout = 3 * time.Second

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a dispute body. It reports false after writing a 400. A body
// that is not a non-empty JSON object counts as no data.
func decode(w http.ResponseWriter, r *http.Request) (disputeRequest, bool) {
	var req disputeRequest
	var raw json.RawMessage
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		noData(w, err.Error())
		return req, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		noData(w, "request body must be a JSON object")
		return req, false
	}
	if len(fields) == 0 {
		noData(w, "request body is empty")
		return req, false
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		noData(w, err.Error())
		return req, false
	}
	return req, true
}

func noData(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResp{Error: "No data provided", Message: msg})
}

func validate(w http.ResponseWriter, d model.Dispute) bool {
	if err := d.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{
			Error:   "Missing required fields",
			Message: "Both plaintiff and defendant statements are required",
		})
		return false
	}
	return true
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "running",
		"message":         "Verdict API",
		"version":         s.version,
		"scorer":          "keyword",
		"genai_available": s.pipeline.Reasoner().HasGenerator(),
		"endpoints": map[string]string{
			"POST /verdict":          "Submit a case for judgment",
			"POST /api/genai_reason": "Generate reasoning for a verdict",
			"POST /api/judge":        "Score and reason in one call",
			"GET /health":            "Health check",
			"GET /metrics":           "Prometheus metrics",
			"GET /":                  "API information",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	reasoner := s.pipeline.Reasoner()
	body := map[string]string{
		"status": "healthy",
		"scorer": "keyword",
		"genai":  "not available",
	}
	if reasoner.HasGenerator() {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		body["genai"] = "unreachable"
		if reasoner.GeneratorAvailable(ctx) {
			body["genai"] = "active"
		}
		body["genai_model"] = reasoner.GeneratorName()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) verdict(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	d := req.dispute()
	if !validate(w, d) {
		return
	}

	sc := s.pipeline.Score(d)
	matches := sc.Matches
	if matches == nil {
		matches = []model.RuleMatch{}
	}

	writeJSON(w, http.StatusOK, verdictResp{
		Winner:         sc.Winner,
		Confidence:     sc.Confidence,
		PlaintiffScore: sc.PlaintiffScore,
		DefendantScore: sc.DefendantScore,
		Reasoning:      score.Summary(sc.Winner),
		Matches:        matches,
		Analysis:       reason.Analyze(d),
		Model:          scorerLabel,
	})
}

func (s *Server) genaiReason(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	d := req.dispute()
	if !validate(w, d) {
		return
	}

	var v model.Verdict
	if req.Verdict == "" {
		v = s.pipeline.Score(d).Winner
	} else {
		parsed, ok := model.ParseVerdict(req.Verdict)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errResp{
				Error:   "Invalid verdict",
				Message: "verdict must be one of Plaintiff, Defendant or Neutral",
			})
			return
		}
		v = parsed
	}

	reasoning := s.pipeline.Reason(r.Context(), d, v)
	label := reasoning.Provenance.Model
	if reasoning.Provenance.Fallback {
		label += " (Fallback)"
	}

	writeJSON(w, http.StatusOK, reasonResp{
		Reasoning: reasoning.Text,
		Model:     label,
		Verdict:   v,
		Path:      reasoning.Provenance.Path,
		Fallback:  reasoning.Provenance.Fallback,
		Warnings:  reasoning.Provenance.Warnings,
	})
}

func (s *Server) judge(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}

	j, err := s.pipeline.Judge(r.Context(), req.dispute())
	if errors.Is(err, model.ErrMissingStatement) {
		writeJSON(w, http.StatusBadRequest, errResp{
			Error:   "Missing required fields",
			Message: "Both plaintiff and defendant statements are required",
		})
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "judge failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errResp{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
		})
		return
	}

	writeJSON(w, http.StatusOK, j)
}
