package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"loan-calculator/config"
	"loan-calculator/domain"
	"loan-calculator/money"
)

// Query parameter names shared by the form page, the charts and the downloads.
const (
	paramPrincipal = "principal"
	paramRate      = "rate"
	paramMonths    = "months"
	paramFormat    = "format"
)

func hasLoanQuery(q url.Values) bool {
	return q.Has(paramPrincipal) || q.Has(paramRate) || q.Has(paramMonths)
}

func parseAmount(q url.Values, key, label string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, label)
	}
	return v, nil
}

// parseLoanQuery reads a loan request from query parameters and checks it
// against the form limits.
func parseLoanQuery(q url.Values, form config.FormSettings) (domain.LoanRequest, error) {
	principal, err := parseAmount(q, paramPrincipal, "loan amount")
	if err != nil {
		return domain.LoanRequest{}, err
	}
	rate, err := parseAmount(q, paramRate, "annual interest rate")
	if err != nil {
		return domain.LoanRequest{}, err
	}
	months, err := strconv.Atoi(strings.TrimSpace(q.Get(paramMonths)))
	if err != nil {
		return domain.LoanRequest{}, fmt.Errorf("%w: term must be a whole number of months", domain.ErrInvalidInput)
	}

	req := domain.LoanRequest{Principal: principal, AnnualRatePercent: rate, TermMonths: months}
	if err := checkFormLimits(req, form); err != nil {
		return domain.LoanRequest{}, err
	}
	return req, nil
}

func checkFormLimits(req domain.LoanRequest, form config.FormSettings) error {
	l := form.Limits
	if req.Principal < l.MinPrincipal || req.Principal > l.MaxPrincipal {
		return fmt.Errorf("%w: loan amount must be between %s and %s", domain.ErrInvalidInput,
			money.Format(l.MinPrincipal, form.CurrencySymbol), money.Format(l.MaxPrincipal, form.CurrencySymbol))
	}
	if req.AnnualRatePercent < l.MinRate || req.AnnualRatePercent > l.MaxRate {
		return fmt.Errorf("%w: annual interest rate must be between %s and %s", domain.ErrInvalidInput,
			money.Percent(l.MinRate), money.Percent(l.MaxRate))
	}
	if req.TermMonths < l.MinTerm || req.TermMonths > l.MaxTerm {
		return fmt.Errorf("%w: term must be between %d and %d months", domain.ErrInvalidInput, l.MinTerm, l.MaxTerm)
	}
	return nil
}

func loanQuery(req domain.LoanRequest) url.Values {
	return url.Values{
		paramPrincipal: {strconv.FormatFloat(req.Principal, 'f', -1, 64)},
		paramRate:      {strconv.FormatFloat(req.AnnualRatePercent, 'f', -1, 64)},
		paramMonths:    {strconv.Itoa(req.TermMonths)},
	}
}

// userMessage turns an invalid input error into a sentence for the form page.
func userMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}
