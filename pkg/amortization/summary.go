package amortization

// Summary aggregates a schedule for display next to the table.
type Summary struct {
	Installment    float64 `json:"installment"`
	Periods        int     `json:"periods"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPaid      float64 `json:"totalPaid"`
	FinalPayment   float64 `json:"finalPayment"`
	PaidOffEarly   bool    `json:"paidOffEarly"`
}

// Summary totals the schedule. termPeriods is the nominal term the schedule
// was generated for, used to detect early payoff.
func (s Schedule) Summary(installment float64, termPeriods int) Summary {
	summary := Summary{
		Installment:  installment,
		Periods:      len(s),
		PaidOffEarly: len(s) < termPeriods,
	}
	for _, row := range s {
		summary.TotalPrincipal += row.PrincipalPortion
		summary.TotalInterest += row.InterestPortion
	}
	summary.TotalPaid = summary.TotalPrincipal + summary.TotalInterest
	if final, ok := s.Final(); ok {
		summary.FinalPayment = final.Payment()
	}
	return summary
}

// Calculation bundles everything a caller renders for one loan.
type Calculation struct {
	Terms       LoanTerms `json:"terms"`
	Installment float64   `json:"installment"`
	Negotiated  bool      `json:"negotiated"`
	Schedule    Schedule  `json:"rows"`
	Summary     Summary   `json:"summary"`
}

// Calculate solves the installment and generates the schedule in one call.
// A non-nil installment replaces the solved one. A non-empty startDate
// produces due dates.
func (g *Generator) Calculate(terms LoanTerms, installment *float64, startDate string) (Calculation, error) {
	var (
		amount float64
		err    error
	)
	if installment != nil {
		amount = *installment
	} else {
		amount, err = g.ComputeInstallment(terms)
		if err != nil {
			return Calculation{}, err
		}
	}

	var schedule Schedule
	if startDate != "" {
		schedule, err = g.GenerateDatedSchedule(terms, amount, startDate)
	} else {
		schedule, err = g.GenerateSchedule(terms, amount)
	}
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		Terms:       terms,
		Installment: amount,
		Negotiated:  installment != nil,
		Schedule:    schedule,
		Summary:     schedule.Summary(amount, terms.TermPeriods),
	}, nil
}
