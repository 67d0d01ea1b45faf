package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loan-calculator/domain"
	"loan-calculator/events"
	"loan-calculator/logging"
	"loan-calculator/money"
	"loan-calculator/repository"
)

type LoanService struct {
	repo      repository.LoanRepository
	publisher events.Publisher
	logger    *logging.Logger
	now       func() time.Time
}

// NewLoanService creates a new LoanService. A nil publisher or logger falls
// back to a no-op implementation.
func NewLoanService(
	repo repository.LoanRepository,
	publisher events.Publisher,
	logger *logging.Logger,
) *LoanService {
	if repo == nil {
		repo = repository.NopLoanRepository{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoanService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(logging.ComponentLoan),
		now:       time.Now,
	}
}

func checkBounds(req domain.LoanRequest) error {
	if err := ValidateRequest(req.Principal, req.AnnualRatePercent, req.TermMonths); err != nil {
		return err
	}
	if req.Principal > MaxLoanAmount {
		return fmt.Errorf("%w: principal exceeds the maximum of %s",
			domain.ErrInvalidInput, money.Plain(MaxLoanAmount))
	}
	if req.AnnualRatePercent > MaxInterestRate {
		return fmt.Errorf("%w: annual rate exceeds the maximum of %s",
			domain.ErrInvalidInput, money.Percent(MaxInterestRate))
	}
	if req.TermMonths > MaxTermMonths {
		return fmt.Errorf("%w: term exceeds the maximum of %d months",
			domain.ErrInvalidInput, MaxTermMonths)
	}
	return nil
}

// Calculate runs the amortization for req and records the outcome. Failing
// to record or publish never fails the calculation.
func (s *LoanService) Calculate(
	ctx context.Context,
	req domain.LoanRequest,
) (domain.AmortizationResult, error) {
	if err := checkBounds(req); err != nil {
		return domain.AmortizationResult{}, err
	}

	result, err := Amortize(req)
	if err != nil {
		return domain.AmortizationResult{}, err
	}

	record := domain.CalculationRecord{
		ID:        uuid.NewString(),
		Request:   req,
		Summary:   summaryOf(result),
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Warn("failed to save loan calculation",
			logging.FieldOperation, logging.OpRecord,
			logging.FieldError, err,
		)
	}
	if err := s.publisher.PublishCalculation(ctx, record); err != nil {
		s.logger.Warn("failed to publish loan calculation",
			logging.FieldOperation, logging.OpPublish,
			logging.FieldError, err,
		)
	}

	s.logger.Debug("loan calculated",
		logging.FieldOperation, logging.OpCalculate,
		logging.FieldPrincipal, req.Principal,
		logging.FieldRate, req.AnnualRatePercent,
		logging.FieldTerm, req.TermMonths,
	)

	return result, nil
}

// Summarize is Calculate reduced to the rounded totals.
func (s *LoanService) Summarize(
	ctx context.Context,
	req domain.LoanRequest,
) (domain.LoanSummary, error) {
	result, err := s.Calculate(ctx, req)
	if err != nil {
		return domain.LoanSummary{}, err
	}
	return summaryOf(result), nil
}

func summaryOf(result domain.AmortizationResult) domain.LoanSummary {
	return domain.LoanSummary{
		MonthlyPayment: money.Round(result.MonthlyPayment),
		TotalPayment:   money.Round(result.TotalPaid),
		TotalInterest:  money.Round(result.TotalInterest),
	}
}
