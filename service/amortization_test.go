package service

import (
	"errors"
	"math"
	"testing"

	"loan-calculator/domain"
)

// amountTolerance is the rounding tolerance for currency values: one cent.
const amountTolerance = 0.01

func assertAmount(t *testing.T, description string, expected, actual float64) {
	t.Helper()
	if math.Abs(expected-actual) > amountTolerance {
		t.Errorf("%s: expected %.2f, got %.4f (diff: %.4f)",
			description, expected, actual, actual-expected)
	}
}

func TestComputeMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		expected  float64
	}{
		{"100k at 5% over 5 years", 100000, 5, 60, 1887.12},
		{"zero interest", 12000, 0, 12, 1000.00},
		{"single period at 12%", 1000, 12, 1, 1010.00},
		{"10k at 12% over 2 years", 10000, 12, 24, 470.73},
		{"200k at 4% over 25 years", 200000, 4, 300, 1055.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := ComputeMonthlyPayment(tt.principal, tt.rate, tt.months)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertAmount(t, "monthly payment", tt.expected, payment)
		})
	}
}

func TestComputeMonthlyPayment_SinglePeriodEqualsOneMonthOfInterest(t *testing.T) {
	for _, rate := range []float64{0, 1, 6.5, 12, 49.9} {
		payment, err := ComputeMonthlyPayment(25000, rate, 1)
		if err != nil {
			t.Fatalf("rate %.2f: unexpected error: %v", rate, err)
		}
		assertAmount(t, "single period payment", 25000*(1+MonthlyRate(rate)), payment)
	}
}

func TestComputeMonthlyPayment_TinyRates(t *testing.T) {
	for _, rate := range []float64{1e-15, 1e-12, 1e-9} {
		payment, err := ComputeMonthlyPayment(100000, rate, 60)
		if err != nil {
			t.Fatalf("rate %g: unexpected error: %v", rate, err)
		}
		if math.IsNaN(payment) || math.IsInf(payment, 0) {
			t.Fatalf("rate %g: expected a finite payment, got %v", rate, payment)
		}
		assertAmount(t, "payment near a zero rate", 100000.0/60, payment)
	}
}

func TestBuildSchedule_Invariants(t *testing.T) {
	requests := []domain.LoanRequest{
		{Principal: 100000, AnnualRatePercent: 5, TermMonths: 60},
		{Principal: 12000, AnnualRatePercent: 0, TermMonths: 12},
		{Principal: 1000, AnnualRatePercent: 12, TermMonths: 1},
		{Principal: 350000, AnnualRatePercent: 7.25, TermMonths: 360},
		{Principal: 1500.55, AnnualRatePercent: 49.99, TermMonths: 480},
		{Principal: 10000000, AnnualRatePercent: 0.01, TermMonths: 600},
		{Principal: 100000, AnnualRatePercent: 1e-15, TermMonths: 60},
		{Principal: 100000, AnnualRatePercent: 1e-12, TermMonths: 60},
		{Principal: 1e9, AnnualRatePercent: 1000, TermMonths: 60},
		{Principal: 1e9, AnnualRatePercent: 1000, TermMonths: 600},
		{Principal: MaxLoanAmount, AnnualRatePercent: MaxInterestRate, TermMonths: MaxTermMonths},
		{Principal: MaxLoanAmount, AnnualRatePercent: 1e-15, TermMonths: MaxTermMonths},
		{Principal: 1000, AnnualRatePercent: MaxInterestRate, TermMonths: MinTermMonths},
	}

	for _, req := range requests {
		schedule, err := BuildSchedule(req.Principal, req.AnnualRatePercent, req.TermMonths)
		if err != nil {
			t.Fatalf("%+v: unexpected error: %v", req, err)
		}
		payment, err := ComputeMonthlyPayment(req.Principal, req.AnnualRatePercent, req.TermMonths)
		if err != nil {
			t.Fatalf("%+v: unexpected error: %v", req, err)
		}

		if len(schedule) != req.TermMonths {
			t.Fatalf("%+v: expected %d rows, got %d", req, req.TermMonths, len(schedule))
		}

		last := schedule[len(schedule)-1]
		if last.RemainingBalance != 0 {
			t.Errorf("%+v: last balance must be exactly 0, got %v", req, last.RemainingBalance)
		}

		var principalSum float64
		previous := req.Principal
		for i, row := range schedule {
			if row.Index != i+1 {
				t.Errorf("%+v: row %d has index %d", req, i, row.Index)
			}
			for _, v := range []float64{row.Payment, row.PrincipalPortion, row.InterestPortion, row.RemainingBalance} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%+v: row %d holds a non-finite value: %+v", req, row.Index, row)
				}
			}
			if row.RemainingBalance < 0 {
				t.Errorf("%+v: row %d has a negative balance %.6f", req, row.Index, row.RemainingBalance)
			}
			if math.Abs(row.Payment-payment) > payment*1e-9 {
				t.Errorf("%+v: row %d payment %.6f drifted from the fixed payment %.6f",
					req, row.Index, row.Payment, payment)
			}
			if math.Abs(row.Payment-(row.PrincipalPortion+row.InterestPortion)) > 1e-9 {
				t.Errorf("%+v: row %d payment %.6f != principal %.6f + interest %.6f",
					req, row.Index, row.Payment, row.PrincipalPortion, row.InterestPortion)
			}
			if row.RemainingBalance > previous {
				t.Errorf("%+v: balance increased at row %d: %.6f -> %.6f",
					req, row.Index, previous, row.RemainingBalance)
			}
			previous = row.RemainingBalance
			principalSum += row.PrincipalPortion
		}
		assertAmount(t, "sum of principal portions", req.Principal, principalSum)

		if len(schedule) > 1 {
			beforeLast := schedule[len(schedule)-2].RemainingBalance
			if last.PrincipalPortion != beforeLast {
				t.Errorf("%+v: last principal %.6f must equal prior balance %.6f",
					req, last.PrincipalPortion, beforeLast)
			}
		}
	}
}

func TestBuildSchedule_ZeroRate(t *testing.T) {
	schedule, err := BuildSchedule(12000, 0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, row := range schedule {
		if row.InterestPortion != 0 {
			t.Errorf("row %d: expected no interest, got %v", row.Index, row.InterestPortion)
		}
		assertAmount(t, "zero rate payment", 1000, row.Payment)
	}
}

func TestSummarize(t *testing.T) {
	schedule := []domain.PaymentRow{
		{Index: 1, Payment: 510, PrincipalPortion: 500, InterestPortion: 10, RemainingBalance: 500},
		{Index: 2, Payment: 505, PrincipalPortion: 500, InterestPortion: 5, RemainingBalance: 0},
	}

	totalPaid, totalInterest := Summarize(schedule)
	if totalPaid != 1015 {
		t.Errorf("expected total paid 1015, got %v", totalPaid)
	}
	if totalInterest != 15 {
		t.Errorf("expected total interest 15, got %v", totalInterest)
	}

	totalPaid, totalInterest = Summarize(nil)
	if totalPaid != 0 || totalInterest != 0 {
		t.Errorf("expected zero totals for an empty schedule, got %v / %v", totalPaid, totalInterest)
	}
}

func TestAmortize_ReferenceLoan(t *testing.T) {
	result, err := Amortize(domain.LoanRequest{Principal: 100000, AnnualRatePercent: 5, TermMonths: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAmount(t, "monthly payment", 1887.12, result.MonthlyPayment)
	assertAmount(t, "total paid", 113227.40, result.TotalPaid)
	assertAmount(t, "total interest", 13227.40, result.TotalInterest)
	assertAmount(t, "total paid vs principal + interest", 100000+result.TotalInterest, result.TotalPaid)

	if len(result.Schedule) != 60 {
		t.Errorf("expected 60 rows, got %d", len(result.Schedule))
	}
}

func TestAmortize_ZeroRateLoan(t *testing.T) {
	result, err := Amortize(domain.LoanRequest{Principal: 12000, AnnualRatePercent: 0, TermMonths: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MonthlyPayment != 1000 {
		t.Errorf("expected payment 1000.00, got %v", result.MonthlyPayment)
	}
	if result.TotalInterest != 0 {
		t.Errorf("expected no interest, got %v", result.TotalInterest)
	}
	assertAmount(t, "total paid", 12000, result.TotalPaid)
}

func TestAmortize_SinglePeriod(t *testing.T) {
	result, err := Amortize(domain.LoanRequest{Principal: 5000, AnnualRatePercent: 12, TermMonths: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAmount(t, "monthly payment", 5050, result.MonthlyPayment)
	if result.Schedule[0].RemainingBalance != 0 {
		t.Errorf("expected single row to clear the balance, got %v", result.Schedule[0].RemainingBalance)
	}
}

func TestAmortize_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  domain.LoanRequest
	}{
		{"zero principal", domain.LoanRequest{Principal: 0, AnnualRatePercent: 5, TermMonths: 12}},
		{"negative principal", domain.LoanRequest{Principal: -100, AnnualRatePercent: 5, TermMonths: 12}},
		{"negative rate", domain.LoanRequest{Principal: 1000, AnnualRatePercent: -1, TermMonths: 12}},
		{"zero term", domain.LoanRequest{Principal: 1000, AnnualRatePercent: 5, TermMonths: 0}},
		{"NaN principal", domain.LoanRequest{Principal: math.NaN(), AnnualRatePercent: 5, TermMonths: 12}},
		{"infinite rate", domain.LoanRequest{Principal: 1000, AnnualRatePercent: math.Inf(1), TermMonths: 12}},
		{"rate compounding past float range", domain.LoanRequest{Principal: 1000, AnnualRatePercent: 1e6, TermMonths: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Amortize(tt.req)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if result.Schedule != nil || result.MonthlyPayment != 0 {
				t.Errorf("expected no partial result, got %+v", result)
			}
		})
	}
}

func TestAmortize_IndependentResults(t *testing.T) {
	req := domain.LoanRequest{Principal: 5000, AnnualRatePercent: 3, TermMonths: 6}

	first, err := Amortize(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Schedule[0].Payment = -1

	second, err := Amortize(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Schedule[0].Payment == -1 {
		t.Errorf("results must not share state between calls")
	}
}
