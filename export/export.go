// Package export serializes an amortization schedule for download.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"loan-calculator/domain"
	"loan-calculator/money"
)

// ErrUnknownFormat is returned for an export format that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatXLSX, FormatCSV, FormatPDF}

// Column headers, in row field order.
var scheduleHeader = []string{"Payment #", "Payment", "Principal", "Interest", "Balance"}

// Document is everything an encoder needs: the request and its result.
type Document struct {
	Request        domain.LoanRequest
	Result         domain.AmortizationResult
	CurrencySymbol string
}

func (d Document) symbol() string {
	if d.CurrencySymbol == "" {
		return money.DefaultSymbol
	}
	return d.CurrencySymbol
}

// summaryRows is the "Concept / Value" block shared by the XLSX and PDF exports.
func (d Document) summaryRows() [][2]string {
	sym := d.symbol()
	return [][2]string{
		{"Loan Amount", money.Format(d.Request.Principal, sym)},
		{"Annual Interest Rate", money.Percent(d.Request.AnnualRatePercent)},
		{"Term (months)", fmt.Sprintf("%d", d.Request.TermMonths)},
		{"Monthly Payment", money.Format(d.Result.MonthlyPayment, sym)},
		{"Total Paid", money.Format(d.Result.TotalPaid, sym)},
		{"Total Interest", money.Format(d.Result.TotalInterest, sym)},
	}
}

// ParseFormat accepts a format name, case-insensitively, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename returns the download name for a request, e.g. loan_amortization_100000.xlsx.
func Filename(req domain.LoanRequest, f Format) string {
	return fmt.Sprintf("loan_amortization_%.0f.%s", req.Principal, f)
}

// Write encodes doc in the given format.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
