package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/chains"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/metrics"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

const dai = "0x6B175474E89094C44Da98b954EedeAC495271d0F"

type fakeChecker struct {
	calls []string
	panic bool
}

func (f *fakeChecker) Check(_ context.Context, chain chains.Chain, token string) models.CheckResponse {
	if f.panic {
		panic("engine exploded")
	}
	f.calls = append(f.calls, chain.ID+":"+token)
	return models.CheckResponse{
		Token:     token,
		Chain:     chain.ID,
		Safety:    models.SafetyVerdict{Score: 60, Grade: models.GradeB, Recommendation: models.RecommendCaution},
		Flags:     models.NewFlagSet(models.FlagNoLiquidity),
		CheckedAt: "2026-10-18T12:30:00.000Z",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestMux(t *testing.T, c Checker, gatherer prometheus.Gatherer) *http.ServeMux {
	t.Helper()
	reg, err := chains.Default()
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewHandler(reg, c, gatherer, testLogger()).RegisterRoutes(mux)
	return mux
}

func post(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var body models.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestCheck_OK(t *testing.T) {
	fc := &fakeChecker{}
	mux := newTestMux(t, fc, nil)

	rec := post(mux, `{"token":"`+dai+`","chain":"ethereum"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"ethereum:" + dai}, fc.calls)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, dai, body["token"])
	assert.Equal(t, "ethereum", body["chain"])
	assert.Nil(t, body["name"])
	assert.Equal(t, []any{"NO_LIQUIDITY"}, body["flags"])
	assert.Equal(t, map[string]any{"score": 60.0, "grade": "B", "recommendation": "CAUTION"}, body["safety"])
	assert.Equal(t, "2026-10-18T12:30:00.000Z", body["checked_at"])
}

func TestCheck_Validation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		code    string
		message string
	}{
		{"missing token", `{"chain":"ethereum"}`, CodeMissingToken, "Token address is required"},
		{"empty token", `{"token":"","chain":"ethereum"}`, CodeMissingToken, "Token address is required"},
		{"missing token wins over bad chain", `{"chain":"fantom"}`, CodeMissingToken, "Token address is required"},
		{"missing chain", `{"token":"` + dai + `"}`, CodeMissingChain, "Chain is required"},
		{"invalid chain", `{"token":"` + dai + `","chain":"fantom"}`, CodeInvalidChain,
			"Invalid chain: fantom. Supported: ethereum, bsc, polygon, arbitrum, base, solana"},
		{"chain is case sensitive", `{"token":"` + dai + `","chain":"Ethereum"}`, CodeInvalidChain,
			"Invalid chain: Ethereum. Supported: ethereum, bsc, polygon, arbitrum, base, solana"},
		{"evm address on solana", `{"token":"` + dai + `","chain":"solana"}`, CodeInvalidAddress,
			"Invalid token address format for solana"},
		{"short evm address", `{"token":"0x1234","chain":"bsc"}`, CodeInvalidAddress,
			"Invalid token address format for bsc"},
		{"not json", `token=0x1234`, CodeInvalidJSON, "Request body is not valid JSON"},
		{"empty body", ``, CodeInvalidJSON, "Request body is not valid JSON"},
		{"wrong field type", `{"token":123,"chain":"ethereum"}`, CodeInvalidJSON, "Request body is not valid JSON"},
		{"trailing bytes", `{"token":"` + dai + `","chain":"ethereum"} junk`, CodeInvalidJSON, "Request body is not valid JSON"},
		{"two objects", `{"token":"` + dai + `","chain":"ethereum"}{}`, CodeInvalidJSON, "Request body is not valid JSON"},
		{"array body", `[]`, CodeMissingToken, "Token address is required"},
		{"string body", `"ethereum"`, CodeMissingToken, "Token address is required"},
		{"null body", ` null `, CodeMissingToken, "Token address is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeChecker{}
			rec := post(newTestMux(t, fc, nil), tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Error)
			assert.Empty(t, body.Details)
			assert.Empty(t, fc.calls)
		})
	}
}

func TestCheck_SolanaAddress(t *testing.T) {
	fc := &fakeChecker{}
	rec := post(newTestMux(t, fc, nil), `{"token":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v","chain":"solana"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"solana:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"}, fc.calls)
}

func TestCheck_BodyTooLarge(t *testing.T) {
	big := `{"token":"` + strings.Repeat("a", maxBodyBytes) + `","chain":"ethereum"}`
	rec := post(newTestMux(t, &fakeChecker{}, nil), big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, CodeInvalidJSON, decodeError(t, rec).Code)
}

func TestCheck_InternalError(t *testing.T) {
	rec := post(newTestMux(t, &fakeChecker{panic: true}, nil), `{"token":"`+dai+`","chain":"ethereum"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, CodeInternal, body.Code)
	assert.Equal(t, "Failed to process token check", body.Error)
	assert.Equal(t, "engine exploded", body.Details)
}

func TestUsage(t *testing.T) {
	mux := newTestMux(t, &fakeChecker{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/check", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body usageDoc
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "POST /api/check", body.Endpoint)
	assert.Equal(t, "Check token safety before trading", body.Description)
	assert.Equal(t, "string (required) - ethereum | bsc | polygon | arbitrum | base | solana", body.Body["chain"])
	assert.Equal(t, "ethereum", body.Example.Chain)
}

func TestCheck_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t, &fakeChecker{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/check", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	mux := newTestMux(t, &fakeChecker{}, nil)

	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, want, body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveVerdict(models.SafetyVerdict{Recommendation: models.RecommendAvoid}, models.NewFlagSet(models.FlagHoneypot))

	mux := newTestMux(t, &fakeChecker{}, reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `token_check_verdicts_total{recommendation="AVOID"} 1`)
	assert.Contains(t, rec.Body.String(), `token_check_flags_total{flag="HONEYPOT"} 1`)
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	mux := newTestMux(t, &fakeChecker{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
