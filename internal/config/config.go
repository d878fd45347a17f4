// Package config defines the data structures related to the batch
// configuration and includes functions for loading and processing it.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a batch of loan calculations.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Loans   []Loan        `yaml:"loans"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Loan is one set of loan terms to calculate. TermPeriods is decoded as a
// number so that a fractional term is reported rather than truncated.
type Loan struct {
	Name              string   `yaml:"name" mapstructure:"name"`
	Principal         float64  `yaml:"principal" mapstructure:"principal"`
	AnnualRatePercent float64  `yaml:"annualRatePercent" mapstructure:"annualRatePercent"`
	TermPeriods       float64  `yaml:"termPeriods" mapstructure:"termPeriods"`
	Installment       *float64 `yaml:"installment,omitempty" mapstructure:"installment"`
	StartDate         string   `yaml:"startDate,omitempty" mapstructure:"startDate"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// e.g. an uploaded request body.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// Terms converts the loan into validated engine input.
func (loan Loan) Terms() (amortization.LoanTerms, error) {
	termPeriods, err := amortization.TermPeriodsFromFloat(loan.TermPeriods)
	if err != nil {
		return amortization.LoanTerms{}, err
	}
	terms := amortization.LoanTerms{
		Principal:         loan.Principal,
		AnnualRatePercent: loan.AnnualRatePercent,
		TermPeriods:       termPeriods,
	}
	if err := terms.Validate(); err != nil {
		return amortization.LoanTerms{}, err
	}
	return terms, nil
}
