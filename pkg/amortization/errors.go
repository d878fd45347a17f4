package amortization

import (
	"errors"
	"fmt"
)

// ErrInvalidLoanTerms matches every InvalidLoanTermsError via errors.Is.
var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// Field names reported by InvalidLoanTermsError. They match the JSON and YAML
// keys used by the callers so a form can attach the message to the right input.
const (
	FieldPrincipal         = "principal"
	FieldAnnualRatePercent = "annualRatePercent"
	FieldTermPeriods       = "termPeriods"
	FieldInstallment       = "installment"
)

// InvalidLoanTermsError reports an input that was rejected before any
// computation took place.
type InvalidLoanTermsError struct {
	Field      string
	Constraint string
	Value      float64
}

func (e *InvalidLoanTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms: %s %s, got %v", e.Field, e.Constraint, e.Value)
}

// Is makes errors.Is(err, ErrInvalidLoanTerms) succeed.
func (e *InvalidLoanTermsError) Is(target error) bool {
	return target == ErrInvalidLoanTerms
}

func invalid(field, constraint string, value float64) error {
	return &InvalidLoanTermsError{Field: field, Constraint: constraint, Value: value}
}
