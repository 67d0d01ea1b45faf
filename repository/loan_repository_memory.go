package repository

import (
	"context"
	"sync"

	"loan-calculator/domain"
)

// LoanRepositoryMemory is an in-memory implementation of LoanRepository.
type LoanRepositoryMemory struct {
	mu   sync.Mutex
	data []domain.CalculationRecord
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{
		data: []domain.CalculationRecord{},
	}
}

// Save stores the calculation record in memory.
func (r *LoanRepositoryMemory) Save(
	ctx context.Context,
	record domain.CalculationRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	return nil
}

// Records returns a copy of the stored records in insertion order.
func (r *LoanRepositoryMemory) Records() []domain.CalculationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.CalculationRecord, len(r.data))
	copy(out, r.data)
	return out
}
