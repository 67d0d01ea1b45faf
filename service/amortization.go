package service

import (
	"fmt"
	"math"

	"loan-calculator/domain"
)

// MonthlyRate converts an annual nominal rate in percent to the periodic
// monthly rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// ValidateRequest checks the invariants every calculation relies on.
func ValidateRequest(principal, annualRatePercent float64, termMonths int) error {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return fmt.Errorf("%w: principal must be a positive amount", domain.ErrInvalidInput)
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return fmt.Errorf("%w: annual rate must not be negative", domain.ErrInvalidInput)
	}
	if termMonths < 1 {
		return fmt.Errorf("%w: term must be at least one month", domain.ErrInvalidInput)
	}
	if math.IsInf(growth(MonthlyRate(annualRatePercent), termMonths), 0) {
		return fmt.Errorf("%w: rate and term compound beyond a representable amount", domain.ErrInvalidInput)
	}
	return nil
}

// ComputeMonthlyPayment returns the fixed payment that amortizes principal
// over termMonths at the given annual rate.
//
// Formula: P * r * (1+r)^n / ((1+r)^n - 1). The formula is undefined at
// r = 0, so a zero-rate loan is split evenly across the term.
// (1+r)^n - 1 is evaluated with expm1/log1p so rates close to zero keep
// their precision.
func ComputeMonthlyPayment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if err := ValidateRequest(principal, annualRatePercent, termMonths); err != nil {
		return 0, err
	}
	return monthlyPayment(principal, MonthlyRate(annualRatePercent), termMonths), nil
}

func monthlyPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	g := growth(r, n)
	return principal * (r / g) * (1 + g)
}

// growth returns (1+r)^k - 1.
func growth(r float64, k int) float64 {
	return math.Expm1(float64(k) * math.Log1p(r))
}

// remainingBalance is the balance left after k payments, in closed form:
// P * ((1+r)^n - (1+r)^k) / ((1+r)^n - 1).
func remainingBalance(principal, r float64, k, n int) float64 {
	if r == 0 {
		return principal * (float64(n-k) / float64(n))
	}
	gn := growth(r, n)
	return principal * ((gn - growth(r, k)) / gn)
}

// BuildSchedule derives the month-by-month breakdown of every payment.
//
// Balances come from the closed form and never rise. Each principal portion is the drop in balance and each row's payment is
// principal plus interest. The last row pays off exactly the balance left
// after the previous row, so the final balance is exactly zero.
func BuildSchedule(principal, annualRatePercent float64, termMonths int) ([]domain.PaymentRow, error) {
	if err := ValidateRequest(principal, annualRatePercent, termMonths); err != nil {
		return nil, err
	}

	r := MonthlyRate(annualRatePercent)

	schedule := make([]domain.PaymentRow, 0, termMonths)
	previous := principal

	for i := 1; i <= termMonths; i++ {
		interest := previous * r

		balance := 0.0
		if i < termMonths {
			balance = math.Min(math.Max(remainingBalance(principal, r, i, termMonths), 0), previous)
		}
		principalPortion := previous - balance

		schedule = append(schedule, domain.PaymentRow{
			Index:            i,
			Payment:          principalPortion + interest,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			RemainingBalance: balance,
		})
		previous = balance
	}

	return schedule, nil
}

// Summarize totals the payments and the interest of a schedule.
func Summarize(schedule []domain.PaymentRow) (totalPaid, totalInterest float64) {
	for _, row := range schedule {
		totalPaid += row.Payment
		totalInterest += row.InterestPortion
	}
	return totalPaid, totalInterest
}

// Amortize runs the full calculation for a request. It either returns a
// complete result or an error wrapping domain.ErrInvalidInput, never both.
func Amortize(req domain.LoanRequest) (domain.AmortizationResult, error) {
	payment, err := ComputeMonthlyPayment(req.Principal, req.AnnualRatePercent, req.TermMonths)
	if err != nil {
		return domain.AmortizationResult{}, err
	}

	schedule, err := BuildSchedule(req.Principal, req.AnnualRatePercent, req.TermMonths)
	if err != nil {
		return domain.AmortizationResult{}, err
	}

	totalPaid, totalInterest := Summarize(schedule)

	return domain.AmortizationResult{
		MonthlyPayment: payment,
		Schedule:       schedule,
		TotalPaid:      totalPaid,
		TotalInterest:  totalInterest,
	}, nil
}
