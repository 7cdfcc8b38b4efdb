package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/verdict/internal/metrics"
	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/pipeline"
	"github.com/ppiankov/verdict/internal/reason"
)

const laptopBody = `{
	"plaintiff": "I paid $500 for a laptop but never received it. I have the receipt.",
	"defendant": "I shipped the laptop.",
	"evidence": "Receipt confirms payment"
}`

const drivewayBody = `{
	"plaintiff": "The defendant refused to let me park in their driveway.",
	"defendant": "It's my private property and they never asked permission. I have the right to control access to my land.",
	"evidence": "Property deed confirms defendant ownership"
}`

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Name() string { return "stub/model" }

func (g stubGenerator) Generate(ctx context.Context, d model.Dispute, v model.Verdict) (string, error) {
	return g.text, g.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, gen reason.TextGenerator) *httptest.Server {
	t.Helper()
	cfg := model.DefaultConfig()
	mt := metrics.New()
	r := reason.NewReasoner(reason.Options{Generator: gen, Logger: quietLogger(), Metrics: mt})
	p := pipeline.NewPipelineWithReasoner(cfg, r, quietLogger(), mt)

	srv := httptest.NewServer(New(p, mt, quietLogger(), "test").Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "keyword", body["scorer"])
	assert.Equal(t, "not available", body["genai"])
}

func TestHealth_WithGenerator(t *testing.T) {
	srv := newTestServer(t, stubGenerator{text: "irrelevant"})

	_, body := get(t, srv, "/health")
	assert.Equal(t, "active", body["genai"])
}

type checkedGenerator struct {
	stubGenerator
	available bool
}

func (g checkedGenerator) IsAvailable(ctx context.Context) bool { return g.available }

func TestHealth_GeneratorUnreachable(t *testing.T) {
	srv := newTestServer(t, checkedGenerator{stubGenerator: stubGenerator{text: "x"}, available: false})

	_, body := get(t, srv, "/health")
	assert.Equal(t, "unreachable", body["genai"])
	assert.Equal(t, "stub/model", body["genai_model"])
	assert.Equal(t, "healthy", body["status"])
}

func TestHealth_GeneratorReachable(t *testing.T) {
	srv := newTestServer(t, checkedGenerator{stubGenerator: stubGenerator{text: "x"}, available: true})

	_, body := get(t, srv, "/health")
	assert.Equal(t, "active", body["genai"])
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, false, body["genai_available"])
	assert.Contains(t, body["endpoints"], "POST /verdict")
}

func TestVerdict_PaymentDispute(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := post(t, srv, "/verdict", laptopBody)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Plaintiff", body["winner"])
	assert.Equal(t, "high", body["confidence"])
	assert.Equal(t, float64(14), body["plaintiff_score"])
	assert.Equal(t, float64(3), body["defendant_score"])
	assert.Equal(t, "Keyword Scorer", body["model"])
	assert.NotEmpty(t, body["reasoning"])
	assert.NotEmpty(t, body["matches"])
}

func TestVerdict_PropertyDispute(t *testing.T) {
	srv := newTestServer(t, nil)

	_, body := post(t, srv, "/verdict", drivewayBody)

	assert.Equal(t, "Defendant", body["winner"])
	assert.Equal(t, "high", body["confidence"])
}

func TestVerdict_BlankStatements(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := post(t, srv, "/verdict", `{"plaintiff": "   ", "defendant": "\t", "evidence": " "}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Equal(t, "Both plaintiff and defendant statements are required", body["message"])
}

func TestVerdict_MissingDefendant(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := post(t, srv, "/verdict", `{"plaintiff": "I paid."}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["error"])
}

func TestVerdict_InvalidBody(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, b := range []string{"", "not json", "[1, 2]", "null", "{}", `"text"`, `{"plaintiff": 5}`} {
		resp, body := post(t, srv, "/verdict", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", b)
		assert.Equal(t, "No data provided", body["error"], "body %q", b)
	}
}

func TestGenaiReason_RuleBased(t *testing.T) {
	srv := newTestServer(t, nil)

	body := strings.Replace(laptopBody, `"evidence"`, `"verdict": "plaintiff", "evidence"`, 1)
	resp, out := post(t, srv, "/api/genai_reason", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rule-Based Reasoning", out["model"])
	assert.Equal(t, "Plaintiff", out["verdict"])
	assert.Equal(t, "rule_based", out["path"])
	assert.Equal(t, false, out["fallback"])
	assert.True(t, strings.HasPrefix(out["reasoning"].(string), "**Case Type:** Contract Or Payment Dispute"))
}

func TestGenaiReason_ScoresWhenVerdictOmitted(t *testing.T) {
	srv := newTestServer(t, nil)

	_, out := post(t, srv, "/api/genai_reason", drivewayBody)

	assert.Equal(t, "Defendant", out["verdict"])
	assert.Contains(t, out["reasoning"], "**Verdict:** Defendant")
}

func TestGenaiReason_InvalidVerdict(t *testing.T) {
	srv := newTestServer(t, nil)

	body := strings.Replace(laptopBody, `"evidence"`, `"verdict": "Maybe", "evidence"`, 1)
	resp, out := post(t, srv, "/api/genai_reason", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid verdict", out["error"])
}

func TestGenaiReason_Generative(t *testing.T) {
	srv := newTestServer(t, stubGenerator{text: "The receipt shows the plaintiff paid for goods never delivered."})

	_, out := post(t, srv, "/api/genai_reason", laptopBody)

	assert.Equal(t, "stub/model", out["model"])
	assert.Equal(t, "generative", out["path"])
	assert.Equal(t, "The receipt shows the plaintiff paid for goods never delivered.", out["reasoning"])
}

func TestGenaiReason_Fallback(t *testing.T) {
	srv := newTestServer(t, stubGenerator{err: errors.New("model offline")})

	resp, out := post(t, srv, "/api/genai_reason", laptopBody)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rule-Based Reasoning (Fallback)", out["model"])
	assert.Equal(t, "rule_based", out["path"])
	assert.Equal(t, true, out["fallback"])
	assert.NotEmpty(t, out["warnings"])
}

func TestJudge(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := post(t, srv, "/api/judge", laptopBody)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["id"])

	sc, ok := out["score"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Plaintiff", sc["winner"])

	rs, ok := out["reasoning"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, rs["reasoning"])
	assert.Equal(t, "Rule-Based Reasoning", rs["provenance"].(map[string]any)["model"])
}

func TestJudge_BlankStatements(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, out := post(t, srv, "/api/judge", `{"plaintiff": " ", "defendant": " "}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", out["error"])
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/nope")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Endpoint not found", body["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/verdict")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	post(t, srv, "/verdict", laptopBody)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `verdict_verdicts_total{confidence="high",winner="Plaintiff"} 1`)
	assert.Contains(t, string(data), `verdict_http_requests_total{code="2xx",route="/verdict"} 1`)
}
