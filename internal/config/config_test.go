package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"go.uber.org/zap"
)

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("testdata", "loans.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("expected csv output, got %q", conf.Output.Format)
	}
	if len(conf.Loans) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(conf.Loans))
	}

	first := conf.Loans[0]
	if first.Name != "group loan" || first.Principal != 100000 || first.AnnualRatePercent != 12 ||
		first.TermPeriods != 24 || first.StartDate != "2025-01" {
		t.Errorf("unexpected first loan %+v", first)
	}
	if first.Installment != nil {
		t.Errorf("expected no installment override, got %v", *first.Installment)
	}

	negotiated := conf.Loans[2]
	if negotiated.Installment == nil || *negotiated.Installment != 600 {
		t.Errorf("expected installment override of 600, got %v", negotiated.Installment)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
loans:
  - name: reader loan
    principal: 5000
    annualRatePercent: 10
    termPeriods: 1
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if len(conf.Loans) != 1 || conf.Loans[0].Name != "reader loan" {
		t.Fatalf("unexpected loans %+v", conf.Loans)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("loans: [unterminated")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoanTerms(t *testing.T) {
	tests := []struct {
		name    string
		loan    Loan
		field   string
		wantErr bool
	}{
		{name: "Valid", loan: Loan{Principal: 1000, AnnualRatePercent: 5, TermPeriods: 12}},
		{name: "Fractional term", loan: Loan{Principal: 1000, AnnualRatePercent: 5, TermPeriods: 12.5}, field: amortization.FieldTermPeriods, wantErr: true},
		{name: "Zero principal", loan: Loan{Principal: 0, AnnualRatePercent: 5, TermPeriods: 12}, field: amortization.FieldPrincipal, wantErr: true},
		{name: "Negative rate", loan: Loan{Principal: 1000, AnnualRatePercent: -1, TermPeriods: 12}, field: amortization.FieldAnnualRatePercent, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := tt.loan.Terms()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Terms() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if terms.TermPeriods != 12 {
					t.Errorf("expected 12 periods, got %d", terms.TermPeriods)
				}
				return
			}
			var termsErr *amortization.InvalidLoanTermsError
			if !errors.As(err, &termsErr) || termsErr.Field != tt.field {
				t.Errorf("expected invalid %s, got %v", tt.field, err)
			}
		})
	}
}

func TestProcessLoans(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("testdata", "loans.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := conf.ProcessLoans(zap.NewNop())
	if err != nil {
		t.Fatalf("ProcessLoans() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	group := results[0]
	if group.Name != "group loan" || group.Installment != 4707.35 || len(group.Schedule) != 24 {
		t.Errorf("unexpected group loan result: installment %v, %d rows", group.Installment, len(group.Schedule))
	}
	if group.Schedule[0].DueDate != "2025-01" || group.Schedule[23].DueDate != "2026-12" {
		t.Errorf("unexpected due dates %s..%s", group.Schedule[0].DueDate, group.Schedule[23].DueDate)
	}

	if results[1].Installment != 100 {
		t.Errorf("interest free installment = %v, expected 100", results[1].Installment)
	}

	negotiated := results[2]
	if !negotiated.Negotiated || negotiated.Installment != 600 {
		t.Errorf("expected negotiated installment 600, got %v", negotiated.Installment)
	}
	if !negotiated.Summary.PaidOffEarly || len(negotiated.Schedule) != 2 {
		t.Errorf("expected early payoff after 2 periods, got %d rows", len(negotiated.Schedule))
	}
}

func TestProcessLoansInvalidLoan(t *testing.T) {
	conf := Configuration{Loans: []Loan{
		{Name: "ok", Principal: 1000, AnnualRatePercent: 5, TermPeriods: 12},
		{Name: "broken", Principal: 1000, AnnualRatePercent: 5, TermPeriods: 0},
	}}

	results, err := conf.ProcessLoans(nil)
	if err == nil {
		t.Fatal("expected error for invalid loan")
	}
	if results != nil {
		t.Errorf("expected no partial results, got %d", len(results))
	}
	if !strings.Contains(err.Error(), "loan broken") {
		t.Errorf("error should name the loan, got %v", err)
	}
	if !errors.Is(err, amortization.ErrInvalidLoanTerms) {
		t.Errorf("expected wrapped ErrInvalidLoanTerms, got %v", err)
	}
}

func TestValidateConfiguration(t *testing.T) {
	low, high, exact := 50.0, 600.0, 88.85
	conf := Configuration{Loans: []Loan{
		{Name: "dup", Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12},
		{Name: "dup", Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12},
		{Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12},
		{Name: "balloon", Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12, Installment: &low},
		{Name: "early", Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12, Installment: &high},
		{Name: "exact", Principal: 1000, AnnualRatePercent: 12, TermPeriods: 12, Installment: &exact},
		{Name: "invalid", Principal: -1, AnnualRatePercent: 12, TermPeriods: 12, Installment: &high},
	}}

	warnings := conf.ValidateConfiguration()
	joined := strings.Join(warnings, "\n")

	for _, want := range []string{
		`loan name "dup" is used more than once`,
		`loan at position 3 has no name, using "loan 3"`,
		"loan balloon: installment 50.00 is below the computed 88.85",
		"loan early: installment 600.00 is above the computed 88.85",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing warning %q in:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "loan exact") || strings.Contains(joined, "loan invalid") {
		t.Errorf("unexpected warning in:\n%s", joined)
	}
	if len(warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d:\n%s", len(warnings), joined)
	}
}

func TestValidateConfigurationEmpty(t *testing.T) {
	warnings := (&Configuration{}).ValidateConfiguration()
	if len(warnings) != 1 || warnings[0] != "configuration contains no loans" {
		t.Errorf("unexpected warnings %v", warnings)
	}
}
