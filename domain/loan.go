package domain

import "time"

// LoanRequest is the input of a single amortization calculation.
type LoanRequest struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
}

// PaymentRow is one period of an amortization schedule.
type PaymentRow struct {
	Index            int     `json:"index"`
	Payment          float64 `json:"payment"`
	PrincipalPortion float64 `json:"principal_portion"`
	InterestPortion  float64 `json:"interest_portion"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// AmortizationResult is built fresh for every request and never mutated
// afterwards.
type AmortizationResult struct {
	MonthlyPayment float64      `json:"monthly_payment"`
	Schedule       []PaymentRow `json:"schedule"`
	TotalPaid      float64      `json:"total_paid"`
	TotalInterest  float64      `json:"total_interest"`
}

// LoanSummary is the rounded headline of a calculation.
type LoanSummary struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// CalculationRecord is an audit log entry for a completed calculation.
type CalculationRecord struct {
	ID        string
	Request   LoanRequest
	Summary   LoanSummary
	CreatedAt time.Time
}
