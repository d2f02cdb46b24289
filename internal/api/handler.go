// Package api serves the token check over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/chains"
	"github.com/notlelouch/go-interview-practice/Token-Safety-Check/internal/models"
)

const (
	CodeMissingToken   = "MISSING_TOKEN"
	CodeMissingChain   = "MISSING_CHAIN"
	CodeInvalidChain   = "INVALID_CHAIN"
	CodeInvalidAddress = "INVALID_ADDRESS"
	CodeInvalidJSON    = "INVALID_JSON"
	CodeInternal       = "INTERNAL_ERROR"

	maxBodyBytes = 64 << 10
)

// Checker runs one token check. *checker.Service implements it.
type Checker interface {
	Check(ctx context.Context, chain chains.Chain, token string) models.CheckResponse
}

type CheckRequest struct {
	Token string `json:"token"`
	Chain string `json:"chain"`
}

type Handler struct {
	chains   *chains.Registry
	checker  Checker
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewHandler wires the check endpoints. gatherer may be nil, in which case
// /metrics is not registered.
func NewHandler(reg *chains.Registry, c Checker, gatherer prometheus.Gatherer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chains:   reg,
		checker:  c,
		gatherer: gatherer,
		logger:   logger.With("component", "api"),
	}
}

// RegisterRoutes registers all routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/readyz", readyz)

	mux.HandleFunc("POST /api/check", h.check)
	mux.HandleFunc("GET /api/check", h.usage)

	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("check panicked", "panic", rec, "request_id", RequestIDFromContext(r.Context()))
			writeError(w, http.StatusInternalServerError, models.APIError{
				Error:   "Failed to process token check",
				Code:    CodeInternal,
				Details: fmt.Sprint(rec),
			})
		}
	}()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, models.APIError{Error: "Request body is not valid JSON", Code: CodeInvalidJSON})
		return
	}

	req, err := decodeCheckRequest(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, models.APIError{Error: "Request body is not valid JSON", Code: CodeInvalidJSON})
		return
	}

	chain, apiErr := h.validate(req)
	if apiErr != nil {
		writeError(w, http.StatusBadRequest, *apiErr)
		return
	}

	writeJSON(w, http.StatusOK, h.checker.Check(r.Context(), chain, req.Token))
}

// decodeCheckRequest requires exactly one JSON value. A value that is not an
// object carries no fields and decodes to an empty request.
func decodeCheckRequest(data []byte) (CheckRequest, error) {
	var req CheckRequest
	if !json.Valid(data) {
		return req, errors.New("body is not a single JSON value")
	}
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] != '{' {
		return req, nil
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return CheckRequest{}, err
	}
	return req, nil
}

// validate reports the first failing rule in request order.
func (h *Handler) validate(req CheckRequest) (chains.Chain, *models.APIError) {
	if req.Token == "" {
		return chains.Chain{}, &models.APIError{Error: "Token address is required", Code: CodeMissingToken}
	}
	if req.Chain == "" {
		return chains.Chain{}, &models.APIError{Error: "Chain is required", Code: CodeMissingChain}
	}

	chain, ok := h.chains.Lookup(req.Chain)
	if !ok {
		return chains.Chain{}, &models.APIError{
			Error: fmt.Sprintf("Invalid chain: %s. Supported: %s", req.Chain, strings.Join(h.chains.IDs(), ", ")),
			Code:  CodeInvalidChain,
		}
	}
	if !chain.ValidAddress(req.Token) {
		return chains.Chain{}, &models.APIError{
			Error: fmt.Sprintf("Invalid token address format for %s", req.Chain),
			Code:  CodeInvalidAddress,
		}
	}
	return chain, nil
}

type usageDoc struct {
	Endpoint    string            `json:"endpoint"`
	Description string            `json:"description"`
	Body        map[string]string `json:"body"`
	Example     CheckRequest      `json:"example"`
}

func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usageDoc{
		Endpoint:    "POST /api/check",
		Description: "Check token safety before trading",
		Body: map[string]string{
			"token": "string (required) - Token contract address",
			"chain": "string (required) - " + strings.Join(h.chains.IDs(), " | "),
		},
		Example: CheckRequest{
			Token: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
			Chain: "ethereum",
		},
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeError(w http.ResponseWriter, status int, body models.APIError) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
