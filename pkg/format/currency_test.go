package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Small amount", 4.1, "$4.10"},
		{"Thousands", 4707.35, "$4,707.35"},
		{"Millions", 1234567.891, "$1,234,567.89"},
		{"Negative", -1234.5, "-$1,234.50"},
		{"Negative rounding to zero", -0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Currency(tt.amount); result != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if result := Percent(12); result != "12.00%" {
		t.Errorf("Percent(12) = %q, expected 12.00%%", result)
	}
}
