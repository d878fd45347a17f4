// Package output provides utilities for formatting and displaying amortization results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/format"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
)

// Result is one named calculation ready for rendering.
type Result struct {
	Name string `json:"name"`
	amortization.Calculation
}

// Write renders results in the named output format.
func Write(w io.Writer, outputFormat string, results []Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []Result) error {
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		terms := result.Terms
		header := fmt.Sprintf("--- Schedule for %s ---\n", result.Name) +
			fmt.Sprintf("Principal %s at %s over %d months, installment %s\n",
				format.Currency(terms.Principal), format.Percent(terms.AnnualRatePercent),
				terms.TermPeriods, format.Currency(result.Installment)) +
			"Period | Due     | Starting Balance | Interest | Principal | Payment | Ending Balance\n" +
			"______ | _______ | ________________ | ________ | _________ | _______ | ______________\n"
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}

		for _, row := range result.Schedule {
			due := row.DueDate
			if due == "" {
				due = "-"
			}
			if _, err := fmt.Fprintf(w, "%d | %s | %s | %s | %s | %s | %s\n",
				row.Period, due,
				format.Currency(row.StartingBalance),
				format.Currency(row.InterestPortion),
				format.Currency(row.PrincipalPortion),
				format.Currency(row.Payment()),
				format.Currency(row.EndingBalance),
			); err != nil {
				return err
			}
		}

		summary := result.Summary
		footer := fmt.Sprintf("Total interest %s, total paid %s over %d periods",
			format.Currency(summary.TotalInterest), format.Currency(summary.TotalPaid), summary.Periods)
		if summary.PaidOffEarly {
			footer += fmt.Sprintf(" (repaid ahead of the %d month term)", terms.TermPeriods)
		}
		if _, err := fmt.Fprintln(w, footer); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{
	"loan", "period", "due date", "starting balance", "interest", "principal", "payment", "ending balance",
}

// CsvFormat outputs in comma-separated value format, one line per period.
func CsvFormat(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for _, row := range result.Schedule {
			record := []string{
				result.Name,
				strconv.Itoa(row.Period),
				row.DueDate,
				amount(row.StartingBalance),
				amount(row.InterestPortion),
				amount(row.PrincipalPortion),
				amount(row.Payment()),
				amount(row.EndingBalance),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering as a string.
func CsvString(results []Result) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", fmt.Errorf("failed to render CSV: %w", err)
	}
	return buf.String(), nil
}

// JSONFormat outputs the results as an indented JSON array.
func JSONFormat(w io.Writer, results []Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func amount(v float64) string {
	return strconv.FormatFloat(mathutil.RoundToCent(v), 'f', constants.DecimalPlaces, 64)
}
