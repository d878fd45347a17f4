package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
)

func testResults(t *testing.T) []Result {
	t.Helper()
	g := amortization.NewGenerator(nil)
	calc, err := g.Calculate(amortization.LoanTerms{Principal: 1200, AnnualRatePercent: 12, TermPeriods: 3}, nil, "2025-01")
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	return []Result{{Name: "group loan", Calculation: calc}}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testResults(t)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"--- Schedule for group loan ---",
		"Principal $1,200.00 at 12.00% over 3 months, installment $408.03",
		"Period | Due     | Starting Balance | Interest | Principal | Payment | Ending Balance",
		"1 | 2025-01 | $1,200.00 | $12.00 | $396.03 | $408.03 | $803.97",
		"| $0.00\n",
		"Total interest",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "repaid ahead") {
		t.Error("did not expect early repayment note")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, testResults(t)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header %v", records[0])
	}
	expected := []string{"group loan", "1", "2025-01", "1200.00", "12.00", "396.03", "408.03", "803.97"}
	for i := range expected {
		if records[1][i] != expected[i] {
			t.Errorf("column %d = %q, expected %q", i, records[1][i], expected[i])
		}
	}
	if records[3][7] != "0.00" {
		t.Errorf("final ending balance = %q, expected 0.00", records[3][7])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	results := testResults(t)
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	csvString, err := CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if csvString != buf.String() {
		t.Error("CsvString should match CsvFormat output")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCsvFormatWriteError(t *testing.T) {
	if err := CsvFormat(failingWriter{}, testResults(t)); err == nil {
		t.Fatal("expected write error to be returned")
	}
}

func TestCsvAmountsRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{2.675, "2.68"},
		{1.005, "1.01"},
		{803.9666, "803.97"},
		{-0.0001, "0.00"},
	}

	for _, tt := range tests {
		if result := amount(tt.value); result != tt.expected {
			t.Errorf("amount(%v) = %q, expected %q", tt.value, result, tt.expected)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testResults(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 result, got %d", len(decoded))
	}
	if decoded[0]["name"] != "group loan" {
		t.Errorf("unexpected name %v", decoded[0]["name"])
	}
	if decoded[0]["installment"] != 408.03 {
		t.Errorf("unexpected installment %v", decoded[0]["installment"])
	}
	rows, ok := decoded[0]["rows"].([]interface{})
	if !ok || len(rows) != 3 {
		t.Errorf("expected 3 rows, got %v", decoded[0]["rows"])
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}
