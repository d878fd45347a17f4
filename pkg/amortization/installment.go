// Package amortization computes fixed loan installments and the
// period-by-period schedules that pay them down.
//
// Every function is a pure computation over its arguments: nothing is shared
// between calls, so any number of goroutines may use the package at once.
package amortization

import (
	"math"

	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"go.uber.org/zap"
)

// Generator runs the installment solver and schedule generator, tracing
// reconciliation decisions to its logger.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new generator instance.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

var defaultGenerator = NewGenerator(nil)

// ComputeInstallment returns the fixed monthly installment that fully repays
// principal over termPeriods months at annualRatePercent, rounded up to the
// cent so the lender never under-collects.
func ComputeInstallment(principal, annualRatePercent float64, termPeriods int) (float64, error) {
	return defaultGenerator.ComputeInstallment(LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermPeriods:       termPeriods,
	})
}

// ComputeInstallment solves the installment for the given terms.
func (g *Generator) ComputeInstallment(terms LoanTerms) (float64, error) {
	if err := terms.Validate(); err != nil {
		return 0, err
	}

	raw := rawInstallment(terms)
	installment := mathutil.CeilToCent(raw)

	g.logger.Debug("computed installment",
		zap.String("op", "amortization.ComputeInstallment"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("annualRatePercent", terms.AnnualRatePercent),
		zap.Int("termPeriods", terms.TermPeriods),
		zap.Float64("raw", raw),
		zap.Float64("installment", installment),
	)
	return installment, nil
}

// rawInstallment evaluates the ordinary annuity formula without any rounding.
func rawInstallment(terms LoanTerms) float64 {
	periods := float64(terms.TermPeriods)
	rate := terms.PeriodicRate()
	if rate == 0 {
		return terms.Principal / periods
	}

	power := math.Pow(1+rate, periods)
	if power == 1 {
		// The rate is too small to register in 1+rate; it is interest-free in
		// double precision.
		return terms.Principal / periods
	}
	return terms.Principal * rate * power / (power - 1)
}
