package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-ph/internal/domain/ratetable"
	"github.com/cmlabs-hris/payroll-ph/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rateTableRepository struct {
	db *database.DB
}

func NewRateTableRepository(db *database.DB) ratetable.RateTableRepository {
	return &rateTableRepository{db: db}
}

func (r *rateTableRepository) ListBrackets(ctx context.Context) ([]ratetable.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, kind, range_start, range_end,
			   employee_share, employer_share, employee_rate, employer_rate,
			   premium_rate, min_contribution, max_contribution,
			   base_tax, tax_rate, effective_date, created_at
		FROM rate_brackets
		ORDER BY kind, effective_date, range_start
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate brackets: %w", err)
	}
	defer rows.Close()

	var brackets []ratetable.Bracket
	for rows.Next() {
		var b ratetable.Bracket
		if err := rows.Scan(
			&b.ID, &b.Kind, &b.RangeStart, &b.RangeEnd,
			&b.EmployeeShare, &b.EmployerShare, &b.EmployeeRate, &b.EmployerRate,
			&b.PremiumRate, &b.MinContribution, &b.MaxContribution,
			&b.BaseTax, &b.TaxRate, &b.EffectiveDate, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rate bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate brackets: %w", err)
	}

	return brackets, nil
}

// CreateBrackets inserts brackets in one batch. Callers wanting atomicity run
// it inside a transaction.
func (r *rateTableRepository) CreateBrackets(ctx context.Context, brackets []ratetable.Bracket) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rate_brackets (
			kind, range_start, range_end,
			employee_share, employer_share, employee_rate, employer_rate,
			premium_rate, min_contribution, max_contribution,
			base_tax, tax_rate, effective_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, b := range brackets {
		batch.Queue(query,
			b.Kind, b.RangeStart, b.RangeEnd,
			b.EmployeeShare, b.EmployerShare, b.EmployeeRate, b.EmployerRate,
			b.PremiumRate, b.MinContribution, b.MaxContribution,
			b.BaseTax, b.TaxRate, b.EffectiveDate,
		)
	}

	var br pgx.BatchResults
	switch conn := q.(type) {
	case pgx.Tx:
		br = conn.SendBatch(ctx, batch)
	default:
		br = r.db.SendBatch(ctx, batch)
	}
	defer br.Close()

	for range brackets {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert rate bracket: %w", err)
		}
	}

	return nil
}
