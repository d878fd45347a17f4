// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"github.com/iwvelando/loan-amortization/pkg/output"
)

// FindResult finds a loan result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []output.Result, name string) *output.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// CheckScheduleConsistency returns a description of every way the schedule
// breaks the amortization rules: continuous balances, no increase in
// balance while the installment covers interest, and a zero final balance.
func CheckScheduleConsistency(schedule amortization.Schedule, principal float64) []string {
	var problems []string
	if len(schedule) == 0 {
		return []string{"schedule is empty"}
	}
	if !mathutil.WithinTolerance(schedule[0].StartingBalance, principal, 1e-9) {
		problems = append(problems, "first starting balance does not equal the principal")
	}
	for i, row := range schedule {
		if row.Period != i+1 {
			problems = append(problems, "periods are not numbered consecutively")
		}
		if i > 0 && row.StartingBalance != schedule[i-1].EndingBalance {
			problems = append(problems, "starting balance does not carry over from the previous period")
		}
		if row.EndingBalance < 0 {
			problems = append(problems, "ending balance is negative")
		}
		if row.PrincipalPortion >= 0 && row.EndingBalance > row.StartingBalance {
			problems = append(problems, "balance increased in a period that repaid principal")
		}
	}
	if final, _ := schedule.Final(); final.EndingBalance != 0 {
		problems = append(problems, "final ending balance is not zero")
	}
	return problems
}
