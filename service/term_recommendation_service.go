package service

import (
	"context"
	"fmt"
	"sort"

	"loan-calculator/domain"
	"loan-calculator/logging"
	"loan-calculator/money"
)

// ErrNoViableTerm is returned when every evaluated term exceeds the maximum
// monthly payment.
var ErrNoViableTerm = fmt.Errorf("%w: no term fits the maximum monthly payment", domain.ErrInvalidInput)

var preferenceWeights = map[string]struct{ interest, payment, term float64 }{
	domain.PreferenceMinimizeInterest: {0.6, 0.2, 0.2},
	domain.PreferenceMinimizePayment:  {0.2, 0.6, 0.2},
	domain.PreferenceBalanced:         {0.4, 0.4, 0.2},
}

type TermRecommendationService struct {
	logger *logging.Logger
}

func NewTermRecommendationService(logger *logging.Logger) *TermRecommendationService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TermRecommendationService{logger: logger.WithComponent(logging.ComponentLoan)}
}

func validateRecommendationInput(input domain.TermRecommendationInput) error {
	if err := ValidateRequest(input.Principal, input.AnnualRatePercent, MinTermMonths); err != nil {
		return err
	}
	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths {
		return fmt.Errorf("%w: term bounds must be at least %d month", domain.ErrInvalidInput, MinTermMonths)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return fmt.Errorf("%w: minimum term is greater than maximum term", domain.ErrInvalidInput)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return fmt.Errorf("%w: maximum term exceeds the limit of %d months", domain.ErrInvalidInput, MaxTermMonths)
	}
	if input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths {
		return fmt.Errorf("%w: term range exceeds %d months", domain.ErrInvalidInput, MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return fmt.Errorf("%w: maximum monthly payment must be positive", domain.ErrInvalidInput)
	}
	if _, ok := preferenceWeights[input.Preference]; !ok {
		return fmt.Errorf("%w: unknown preference %q", domain.ErrInvalidInput, input.Preference)
	}
	return nil
}

// RecommendTerm evaluates every term in the requested range and ranks the
// affordable ones by the caller's preference.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := validateRecommendationInput(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		if err := ctx.Err(); err != nil {
			return domain.TermRecommendationResult{}, err
		}

		result, err := Amortize(domain.LoanRequest{
			Principal:         input.Principal,
			AnnualRatePercent: input.AnnualRatePercent,
			TermMonths:        term,
		})
		if err != nil {
			s.logger.Warn("failed to evaluate term",
				logging.FieldOperation, logging.OpRecommend,
				logging.FieldTerm, term,
				logging.FieldError, err,
			)
			continue
		}

		summary := summaryOf(result)
		if summary.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: summary.MonthlyPayment,
			TotalInterest:  summary.TotalInterest,
			Score:          score(summary, input, term),
			Reason:         reasonFor(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoViableTerm
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	top := &recommendations[0]
	top.Reason = explain(*top, input, recommendations[1:])

	s.logger.Debug("term recommended",
		logging.FieldOperation, logging.OpRecommend,
		logging.FieldTerm, top.TermMonths,
	)

	return domain.TermRecommendationResult{
		RecommendedTerm: top.TermMonths,
		Recommendations: recommendations,
	}, nil
}

// score rates a term from 0 to 10 against the extremes of the range.
func score(
	summary domain.LoanSummary,
	input domain.TermRecommendationInput,
	term int,
) float64 {
	yearlyInterest := input.Principal * (input.AnnualRatePercent / 100) / 12
	minInterest := yearlyInterest * float64(input.MinTermMonths)
	maxInterest := yearlyInterest * float64(input.MaxTermMonths)
	interestRange := maxInterest - minInterest

	minPayment := input.Principal / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - minPayment

	termRange := input.MaxTermMonths - input.MinTermMonths

	var interestScore, paymentScore, termScore float64
	if interestRange > 0 {
		interestScore = 10 * (1 - (summary.TotalInterest-minInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10 * (1 - (summary.MonthlyPayment-minPayment)/paymentRange)
	}
	if termRange > 0 {
		termScore = 10 * (1 - float64(term-input.MinTermMonths)/float64(termRange))
	}

	w := preferenceWeights[input.Preference]
	return money.Round(w.interest*interestScore + w.payment*paymentScore + w.term*termScore)
}

func reasonFor(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Term optimized to minimize the total interest cost"
	case domain.PreferenceMinimizePayment:
		return "Term optimized to minimize the monthly payment"
	case domain.PreferenceBalanced:
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the given parameters"
}

func explain(
	top domain.TermRecommendation,
	input domain.TermRecommendationInput,
	alternatives []domain.TermRecommendation,
) string {
	headroom := input.MaxMonthlyPayment - top.MonthlyPayment
	reason := fmt.Sprintf("%s: %d months at %s per month (%s under your limit) with %s of total interest.",
		reasonFor(input.Preference),
		top.TermMonths,
		money.Plain(top.MonthlyPayment),
		money.Plain(headroom),
		money.Plain(top.TotalInterest),
	)

	if len(alternatives) == 0 {
		return reason
	}

	next := alternatives[0]
	diff := next.TotalInterest - top.TotalInterest
	switch {
	case diff > 0:
		reason += fmt.Sprintf(" The runner-up, %d months, costs %s more in interest.", next.TermMonths, money.Plain(diff))
	case diff < 0:
		reason += fmt.Sprintf(" The runner-up, %d months, saves %s in interest at %s per month.",
			next.TermMonths, money.Plain(-diff), money.Plain(next.MonthlyPayment))
	}
	return reason
}

