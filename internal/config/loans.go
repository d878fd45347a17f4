package config

import (
	"fmt"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"github.com/iwvelando/loan-amortization/pkg/output"
	"go.uber.org/zap"
)

// ProcessLoans iterates through all loans and produces the amortization
// schedules in configuration order.
func (conf *Configuration) ProcessLoans(logger *zap.Logger) ([]output.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	generator := amortization.NewGenerator(logger)

	results := make([]output.Result, 0, len(conf.Loans))
	for i, loan := range conf.Loans {
		name := loan.DisplayName(i)
		terms, err := loan.Terms()
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", name, err)
		}

		calc, err := generator.Calculate(terms, loan.Installment, loan.StartDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", name, err)
		}

		logger.Debug("processed loan",
			zap.String("op", "config.ProcessLoans"),
			zap.String("loan", name),
			zap.Float64("installment", calc.Installment),
			zap.Int("periods", len(calc.Schedule)),
		)
		results = append(results, output.Result{Name: name, Calculation: calc})
	}

	return results, nil
}

// DisplayName returns the configured name or a positional fallback.
func (loan Loan) DisplayName(index int) string {
	if loan.Name != "" {
		return loan.Name
	}
	return fmt.Sprintf("loan %d", index+1)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Loans) == 0 {
		warnings = append(warnings, "configuration contains no loans")
	}

	seen := make(map[string]bool)
	for i, loan := range conf.Loans {
		name := loan.DisplayName(i)
		if loan.Name == "" {
			warnings = append(warnings, fmt.Sprintf("loan at position %d has no name, using %q", i+1, name))
		} else if seen[loan.Name] {
			warnings = append(warnings, fmt.Sprintf("loan name %q is used more than once", loan.Name))
		}
		seen[loan.Name] = true

		if loan.Installment == nil {
			continue
		}
		terms, err := loan.Terms()
		if err != nil {
			// Reported as an error by ProcessLoans.
			continue
		}
		solved, err := amortization.NewGenerator(nil).ComputeInstallment(terms)
		if err != nil {
			continue
		}

		override := *loan.Installment
		switch {
		case mathutil.WithinTolerance(override, solved, constants.CurrencyTolerance):
		case override < solved:
			warnings = append(warnings, fmt.Sprintf(
				"loan %s: installment %.2f is below the computed %.2f, the final period will carry the remaining balance",
				name, override, solved))
		default:
			warnings = append(warnings, fmt.Sprintf(
				"loan %s: installment %.2f is above the computed %.2f, the loan will be repaid before its term",
				name, override, solved))
		}
	}

	return warnings
}
