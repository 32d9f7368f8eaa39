package ratetable

import "context"

// RateTableRepository loads statutory rate brackets from storage.
type RateTableRepository interface {
	// ListBrackets returns every bracket of every kind and effective date
	ListBrackets(ctx context.Context) ([]Bracket, error)

	// CreateBrackets inserts a complete table version
	CreateBrackets(ctx context.Context, brackets []Bracket) error
}
