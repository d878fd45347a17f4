package amortization

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
)

// LoanTerms are the three scalar inputs of every calculation.
type LoanTerms struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
	TermPeriods       int     `json:"termPeriods" yaml:"termPeriods"`
}

var termTooLong = fmt.Sprintf("must be at most %d", constants.MaxTermPeriods)

// Validate returns an *InvalidLoanTermsError for the first field that breaks
// principal > 0, annualRatePercent >= 0 or 1 <= termPeriods <= MaxTermPeriods.
func (t LoanTerms) Validate() error {
	switch {
	case !mathutil.IsFinite(t.Principal):
		return invalid(FieldPrincipal, "must be a finite number", t.Principal)
	case t.Principal <= 0:
		return invalid(FieldPrincipal, "must be greater than 0", t.Principal)
	case !mathutil.IsFinite(t.AnnualRatePercent):
		return invalid(FieldAnnualRatePercent, "must be a finite number", t.AnnualRatePercent)
	case t.AnnualRatePercent < 0:
		return invalid(FieldAnnualRatePercent, "must not be negative", t.AnnualRatePercent)
	case t.TermPeriods < 1:
		return invalid(FieldTermPeriods, "must be at least 1", float64(t.TermPeriods))
	case t.TermPeriods > constants.MaxTermPeriods:
		return invalid(FieldTermPeriods, termTooLong, float64(t.TermPeriods))
	}
	return nil
}

// PeriodicRate converts the annual percentage into a monthly decimal rate.
func (t LoanTerms) PeriodicRate() float64 {
	return t.AnnualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// TermPeriodsFromFloat converts a decoded number into a term, rejecting values
// that are not positive whole numbers. Decoders of JSON, YAML and CLI input use
// it so that a term such as 12.5 is reported instead of silently truncated.
func TermPeriodsFromFloat(v float64) (int, error) {
	switch {
	case !mathutil.IsFinite(v) || v != math.Trunc(v):
		return 0, invalid(FieldTermPeriods, "must be a whole number", v)
	case v < 1:
		return 0, invalid(FieldTermPeriods, "must be at least 1", v)
	case v > constants.MaxTermPeriods:
		return 0, invalid(FieldTermPeriods, termTooLong, v)
	}
	return int(v), nil
}

func validateInstallment(installment float64) error {
	if !mathutil.IsFinite(installment) {
		return invalid(FieldInstallment, "must be a finite number", installment)
	}
	if installment < 0 {
		return invalid(FieldInstallment, "must not be negative", installment)
	}
	return nil
}
