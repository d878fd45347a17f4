// Package calculator serves amortization calculations to the outer surfaces,
// caching complete results and recording metrics.
package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/loan-amortization/internal/cache"
	"github.com/iwvelando/loan-amortization/internal/metrics"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"go.uber.org/zap"
)

const keyVersion = "v1"

// Request is one calculation. A nil Installment asks for the solved EMI.
type Request struct {
	Terms       amortization.LoanTerms
	Installment *float64
	StartDate   string
}

// Calculator wraps the amortization engine with a result cache.
type Calculator struct {
	generator *amortization.Generator
	cache     cache.Cache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New creates a Calculator. A nil cache disables caching; nil metrics get a
// private registry.
func New(logger *zap.Logger, c cache.Cache, m *metrics.Metrics) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.Noop{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Calculator{
		generator: amortization.NewGenerator(logger),
		cache:     c,
		metrics:   m,
		logger:    logger,
	}
}

// Installment solves the EMI for the terms.
func (c *Calculator) Installment(ctx context.Context, terms amortization.LoanTerms) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	installment, err := c.generator.ComputeInstallment(terms)
	c.record(err)
	return installment, err
}

// Calculate returns the installment, schedule and summary for req, from the
// cache when an identical request was answered before.
func (c *Calculator) Calculate(ctx context.Context, req Request) (amortization.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return amortization.Calculation{}, err
	}

	canonical := canonicalRequest(req)
	key := cacheKey(canonical)

	if cached, ok := c.lookup(ctx, key, canonical); ok {
		c.metrics.CacheHit()
		c.metrics.CalculationSucceeded()
		return cached, nil
	}
	c.metrics.CacheMiss()

	calc, err := c.generator.Calculate(req.Terms, req.Installment, req.StartDate)
	c.record(err)
	if err != nil {
		return amortization.Calculation{}, err
	}

	c.store(ctx, key, canonical, calc)
	return calc, nil
}

type cacheEnvelope struct {
	Request     string                   `json:"request"`
	Calculation amortization.Calculation `json:"calculation"`
}

func (c *Calculator) lookup(ctx context.Context, key, canonical string) (amortization.Calculation, bool) {
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return amortization.Calculation{}, false
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		c.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
		return amortization.Calculation{}, false
	}
	if envelope.Request != canonical {
		// Hash collision; treat as a miss.
		return amortization.Calculation{}, false
	}
	return envelope.Calculation, true
}

func (c *Calculator) store(ctx context.Context, key, canonical string, calc amortization.Calculation) {
	payload, err := json.Marshal(cacheEnvelope{Request: canonical, Calculation: calc})
	if err != nil {
		c.logger.Warn("failed to encode calculation for cache",
			zap.String("op", "calculator.Calculate"),
			zap.Error(err),
		)
		return
	}
	if err := c.cache.Set(ctx, key, string(payload)); err != nil {
		c.logger.Warn("failed to cache calculation",
			zap.String("op", "calculator.Calculate"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (c *Calculator) record(err error) {
	switch {
	case err == nil:
		c.metrics.CalculationSucceeded()
	case errors.Is(err, amortization.ErrInvalidLoanTerms):
		c.metrics.CalculationRejected()
	}
}

func canonicalRequest(req Request) string {
	installment := "solve"
	if req.Installment != nil {
		installment = formatFloat(*req.Installment)
	}
	return strings.Join([]string{
		keyVersion,
		formatFloat(req.Terms.Principal),
		formatFloat(req.Terms.AnnualRatePercent),
		strconv.Itoa(req.Terms.TermPeriods),
		installment,
		req.StartDate,
	}, "|")
}

func cacheKey(canonical string) string {
	return fmt.Sprintf("calc:%016x", xxhash.Sum64String(canonical))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
