package amortization

import (
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"go.uber.org/zap"
)

// Row holds the values for a single period of a schedule.
type Row struct {
	Period           int     `json:"period"`
	DueDate          string  `json:"dueDate,omitempty"`
	StartingBalance  float64 `json:"startingBalance"`
	InterestPortion  float64 `json:"interestPortion"`
	PrincipalPortion float64 `json:"principalPortion"`
	EndingBalance    float64 `json:"endingBalance"`
}

// Payment is the amount actually due for the period. It equals the
// installment except where the final period or a clamp adjusted the
// principal portion.
func (r Row) Payment() float64 {
	return r.InterestPortion + r.PrincipalPortion
}

// Schedule is the ordered list of rows, period 1 first.
type Schedule []Row

// GenerateSchedule returns the period-by-period breakdown of repaying
// principal with the given installment. The installment is normally the
// ComputeInstallment result but any non-negative amount is accepted.
func GenerateSchedule(principal, annualRatePercent float64, termPeriods int, installment float64) (Schedule, error) {
	return defaultGenerator.GenerateSchedule(LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermPeriods:       termPeriods,
	}, installment)
}

// GenerateSchedule creates the complete amortization schedule for the terms.
func (g *Generator) GenerateSchedule(terms LoanTerms, installment float64) (Schedule, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if err := validateInstallment(installment); err != nil {
		return nil, err
	}
	return g.generate(terms, installment, nil), nil
}

// GenerateDatedSchedule is GenerateSchedule with Row.DueDate filled in, the
// first period falling due in startDate (YYYY-MM).
func (g *Generator) GenerateDatedSchedule(terms LoanTerms, installment float64, startDate string) (Schedule, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if err := validateInstallment(installment); err != nil {
		return nil, err
	}
	dueDates, err := datetime.MonthSequence(startDate, terms.TermPeriods)
	if err != nil {
		return nil, err
	}
	return g.generate(terms, installment, dueDates), nil
}

func (g *Generator) generate(terms LoanTerms, installment float64, dueDates []string) Schedule {
	const op = "amortization.GenerateSchedule"

	periodicRate := terms.PeriodicRate()
	remainingBalance := terms.Principal
	schedule := make(Schedule, 0, min(terms.TermPeriods, constants.MaxTermPeriods))

	for period := 1; period <= terms.TermPeriods; period++ {
		startingBalance := mathutil.Max(0, remainingBalance)
		interestPortion := startingBalance * periodicRate
		principalPortion := installment - interestPortion

		if period == 1 && principalPortion < 0 {
			g.logger.Warn("installment does not cover interest, balance will grow until the final period",
				zap.String("op", op),
				zap.Float64("installment", installment),
				zap.Float64("interest", interestPortion),
			)
		}

		if period == terms.TermPeriods {
			// Absorb the accumulated rounding drift so the loan closes at zero.
			g.logger.Debug("reconciling final period",
				zap.String("op", op),
				zap.Int("period", period),
				zap.Float64("drift", installment-interestPortion-startingBalance),
			)
			principalPortion = startingBalance
		}
		if principalPortion > startingBalance {
			g.logger.Debug("clamping principal portion to remaining balance",
				zap.String("op", op),
				zap.Int("period", period),
				zap.Float64("requested", principalPortion),
				zap.Float64("balance", startingBalance),
			)
			principalPortion = startingBalance
		}

		endingBalance := mathutil.Max(0, startingBalance-principalPortion)
		if period < terms.TermPeriods && endingBalance > 0 && endingBalance < constants.CurrencyTolerance {
			// A sub-cent residual is swept into this period rather than left
			// dangling on the last emitted row.
			principalPortion = startingBalance
			endingBalance = 0
		}

		row := Row{
			Period:           period,
			StartingBalance:  startingBalance,
			InterestPortion:  interestPortion,
			PrincipalPortion: principalPortion,
			EndingBalance:    endingBalance,
		}
		if dueDates != nil {
			row.DueDate = dueDates[period-1]
		}
		schedule = append(schedule, row)
		remainingBalance = endingBalance

		if period < terms.TermPeriods && mathutil.IsZero(remainingBalance) {
			g.logger.Debug("loan repaid ahead of term",
				zap.String("op", op),
				zap.Int("period", period),
				zap.Int("termPeriods", terms.TermPeriods),
			)
			break
		}
	}

	return schedule
}

// Final returns the last row, or false for an empty schedule.
func (s Schedule) Final() (Row, bool) {
	if len(s) == 0 {
		return Row{}, false
	}
	return s[len(s)-1], true
}
