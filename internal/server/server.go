// Package server exposes the amortization engine over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/internal/calculator"
	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/internal/metrics"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/output"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	calculator    *calculator.Calculator
	metrics       *metrics.Metrics
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, calc *calculator.Calculator, m *metrics.Metrics, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if calc == nil {
		calc = calculator.New(logger, nil, m)
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		calculator:    calc,
		metrics:       m,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()
	h.route(mux, "/api/installment", h.handleInstallment)
	h.route(mux, "/api/schedule", h.handleSchedule)
	h.route(mux, "/api/batch", h.handleBatch)
	h.route(mux, "/api/version", h.handleVersion)
	h.route(mux, "/healthz", h.handleHealth)
	mux.Handle("/metrics", m.Handler())

	return withRequestID(logger, mux)
}

func (h *handler) route(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, instrument(h.metrics, pattern, fn))
}

// loanRequest is the JSON body of the installment and schedule endpoints.
// TermPeriods is a float so that fractional terms are reported.
type loanRequest struct {
	Principal         float64  `json:"principal"`
	AnnualRatePercent float64  `json:"annualRatePercent"`
	TermPeriods       float64  `json:"termPeriods"`
	Installment       *float64 `json:"installment,omitempty"`
	StartDate         string   `json:"startDate,omitempty"`
}

func (r loanRequest) terms() (amortization.LoanTerms, error) {
	termPeriods, err := amortization.TermPeriodsFromFloat(r.TermPeriods)
	if err != nil {
		return amortization.LoanTerms{}, err
	}
	return amortization.LoanTerms{
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		TermPeriods:       termPeriods,
	}, nil
}

type installmentResponse struct {
	Installment float64                `json:"installment"`
	Terms       amortization.LoanTerms `json:"terms"`
}

type scheduleResponse struct {
	Installment float64               `json:"installment"`
	Negotiated  bool                  `json:"negotiated"`
	Rows        amortization.Schedule `json:"rows"`
	Summary     amortization.Summary  `json:"summary"`
	CSV         string                `json:"csv"`
	Duration    string                `json:"duration"`
}

type batchResponse struct {
	Results  []output.Result `json:"results"`
	Warnings []string        `json:"warnings,omitempty"`
	CSV      string          `json:"csv"`
	Duration string          `json:"duration"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

func (h *handler) handleInstallment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInstallment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req loanRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	terms, err := req.terms()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	installment, err := h.calculator.Installment(r.Context(), terms)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, installmentResponse{Installment: installment, Terms: terms})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req loanRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	terms, err := req.terms()
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	calc, err := h.calculator.Calculate(r.Context(), calculator.Request{
		Terms:       terms,
		Installment: req.Installment,
		StartDate:   req.StartDate,
	})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	csvOut, err := output.CsvString([]output.Result{{Name: "loan", Calculation: calc}})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.String("requestID", RequestIDFromContext(r.Context())),
		zap.Int("rows", len(calc.Schedule)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Installment: calc.Installment,
		Negotiated:  calc.Negotiated,
		Rows:        calc.Schedule,
		Summary:     calc.Summary,
		CSV:         csvOut,
		Duration:    elapsed.String(),
	})
}

// handleBatch accepts the same YAML document as the command line tool.
func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBatch"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(body))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results := make([]output.Result, 0, len(cfg.Loans))
	for i, loan := range cfg.Loans {
		name := loan.DisplayName(i)
		terms, err := loan.Terms()
		if err != nil {
			h.respondCalculationError(w, fmt.Errorf("loan %s: %w", name, err), op)
			return
		}
		calc, err := h.calculator.Calculate(r.Context(), calculator.Request{
			Terms:       terms,
			Installment: loan.Installment,
			StartDate:   loan.StartDate,
		})
		if err != nil {
			h.respondCalculationError(w, fmt.Errorf("loan %s: %w", name, err), op)
			return
		}
		results = append(results, output.Result{Name: name, Calculation: calc})
	}

	csvOut, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("batch computed",
		zap.String("op", op),
		zap.String("requestID", RequestIDFromContext(r.Context())),
		zap.Int("loans", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, batchResponse{
		Results:  results,
		Warnings: warnings,
		CSV:      csvOut,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}
	return body, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body, ok := h.readBody(w, r, op)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var termsErr *amortization.InvalidLoanTermsError
	if errors.As(err, &termsErr) {
		h.logger.Info("rejected loan terms",
			zap.String("op", op),
			zap.String("field", termsErr.Field),
			zap.String("constraint", termsErr.Constraint),
		)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      err.Error(),
			Field:      termsErr.Field,
			Constraint: termsErr.Constraint,
		})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
		return
	}
	// Anything else (e.g. a malformed start date) is still the caller's input.
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
