package repository

import (
	"context"

	"loan-calculator/domain"
)

// LoanRepository records completed calculations.
type LoanRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
}

// NopLoanRepository discards every record.
type NopLoanRepository struct{}

func (NopLoanRepository) Save(context.Context, domain.CalculationRecord) error { return nil }
