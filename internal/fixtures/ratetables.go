package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ==========================================
// REFERENCE RATE TABLES
// ==========================================

//go:embed ratetables.yaml
var referenceRateTables []byte

// rateFile is the YAML layout of a rate table file. Amounts are quoted
// strings so they never pass through float64.
type rateFile struct {
	Tables []rateTable `yaml:"tables"`
}

type rateTable struct {
	Kind          string    `yaml:"kind"`
	EffectiveDate string    `yaml:"effective_date"`
	Brackets      []rateRow `yaml:"brackets"`
}

type rateRow struct {
	RangeStart      string  `yaml:"range_start"`
	RangeEnd        *string `yaml:"range_end"`
	EmployeeShare   string  `yaml:"employee_share"`
	EmployerShare   string  `yaml:"employer_share"`
	EmployeeRate    string  `yaml:"employee_rate"`
	EmployerRate    string  `yaml:"employer_rate"`
	PremiumRate     string  `yaml:"premium_rate"`
	MinContribution string  `yaml:"min_contribution"`
	MaxContribution string  `yaml:"max_contribution"`
	BaseTax         string  `yaml:"base_tax"`
	TaxRate         string  `yaml:"tax_rate"`
}

// ReferenceRateTables returns the brackets compiled into the binary.
func ReferenceRateTables() ([]ratetable.Bracket, error) {
	return ParseRateTables(referenceRateTables)
}

// LoadRateTablesFile reads brackets from a YAML file laid out like the
// embedded reference tables.
func LoadRateTablesFile(path string) ([]ratetable.Bracket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate table file: %w", err)
	}
	return ParseRateTables(data)
}

func ParseRateTables(data []byte) ([]ratetable.Bracket, error) {
	var file rateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate tables: %w", err)
	}

	var brackets []ratetable.Bracket
	for _, table := range file.Tables {
		kind, err := ratetable.ParseKind(table.Kind)
		if err != nil {
			return nil, err
		}
		effective, err := time.Parse("2006-01-02", table.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("%s table: invalid effective_date %q: %w", kind, table.EffectiveDate, err)
		}

		for i, row := range table.Brackets {
			b, err := row.toBracket(kind, effective)
			if err != nil {
				return nil, fmt.Errorf("%s table effective %s, bracket %d: %w", kind, table.EffectiveDate, i+1, err)
			}
			brackets = append(brackets, b)
		}
	}

	return brackets, nil
}

func (r rateRow) toBracket(kind ratetable.Kind, effective time.Time) (ratetable.Bracket, error) {
	b := ratetable.Bracket{Kind: kind, EffectiveDate: effective}

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"range_start", r.RangeStart, &b.RangeStart},
		{"employee_share", r.EmployeeShare, &b.EmployeeShare},
		{"employer_share", r.EmployerShare, &b.EmployerShare},
		{"employee_rate", r.EmployeeRate, &b.EmployeeRate},
		{"employer_rate", r.EmployerRate, &b.EmployerRate},
		{"premium_rate", r.PremiumRate, &b.PremiumRate},
		{"min_contribution", r.MinContribution, &b.MinContribution},
		{"max_contribution", r.MaxContribution, &b.MaxContribution},
		{"base_tax", r.BaseTax, &b.BaseTax},
		{"tax_rate", r.TaxRate, &b.TaxRate},
	}
	for _, f := range fields {
		d, err := parseAmount(f.value)
		if err != nil {
			return ratetable.Bracket{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = d
	}

	if r.RangeEnd != nil {
		end, err := parseAmount(*r.RangeEnd)
		if err != nil {
			return ratetable.Bracket{}, fmt.Errorf("range_end: %w", err)
		}
		b.RangeEnd = decimal.NewNullDecimal(end)
	}

	return b, nil
}

// parseAmount treats an absent amount as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
