package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"loan-calculator/config"
	"loan-calculator/domain"
	"loan-calculator/export"
	"loan-calculator/logging"
	"loan-calculator/money"
	"loan-calculator/service"
	"loan-calculator/web"
)

var formatLabels = map[export.Format]string{
	export.FormatXLSX: "Excel (.xlsx)",
	export.FormatCSV:  "CSV",
	export.FormatPDF:  "PDF",
}

type formPage struct {
	Symbol    string
	Principal string
	Rate      string
	Months    string
	Limits    formLimits
	Error     string
	Result    *formResult
}

// formLimits are the input bounds rendered as HTML attribute values.
type formLimits struct {
	MinPrincipal string
	MaxPrincipal string
	MinRate      string
	MaxRate      string
	MinTerm      int
	MaxTerm      int
}

func newFormLimits(l config.FormLimits) formLimits {
	return formLimits{
		MinPrincipal: strconv.FormatFloat(l.MinPrincipal, 'f', -1, 64),
		MaxPrincipal: strconv.FormatFloat(l.MaxPrincipal, 'f', -1, 64),
		MinRate:      strconv.FormatFloat(l.MinRate, 'f', -1, 64),
		MaxRate:      strconv.FormatFloat(l.MaxRate, 'f', -1, 64),
		MinTerm:      l.MinTerm,
		MaxTerm:      l.MaxTerm,
	}
}

type formResult struct {
	LoanAmount     string
	MonthlyPayment string
	TotalPaid      string
	TotalInterest  string
	ChartsHref     template.URL
	Downloads      []download
	Rows           []formRow
}

type download struct {
	Label string
	Href  template.URL
}

type formRow struct {
	Index     int
	Payment   string
	Principal string
	Interest  string
	Balance   string
}

// FormHandler serves the calculator page.
type FormHandler struct {
	loans     *service.LoanService
	form      config.FormSettings
	templates *template.Template
}

func NewFormHandler(loans *service.LoanService, form config.FormSettings) (*FormHandler, error) {
	templates, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &FormHandler{loans: loans, form: form, templates: templates}, nil
}

func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	page := formPage{
		Symbol:    h.form.CurrencySymbol,
		Principal: strconv.FormatFloat(h.form.Defaults.Principal, 'f', -1, 64),
		Rate:      strconv.FormatFloat(h.form.Defaults.AnnualRatePercent, 'f', -1, 64),
		Months:    strconv.Itoa(h.form.Defaults.TermMonths),
		Limits:    newFormLimits(h.form.Limits),
	}

	if !hasLoanQuery(q) {
		h.render(w, r, http.StatusOK, page)
		return
	}

	page.Principal = q.Get(paramPrincipal)
	page.Rate = q.Get(paramRate)
	page.Months = q.Get(paramMonths)

	req, err := parseLoanQuery(q, h.form)
	if err != nil {
		page.Error = userMessage(err)
		h.render(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	result, err := h.loans.Calculate(r.Context(), req)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, r, err)
			return
		}
		page.Error = userMessage(err)
		h.render(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	page.Result = h.buildResult(req, result)
	h.render(w, r, http.StatusOK, page)
}

func (h *FormHandler) buildResult(req domain.LoanRequest, result domain.AmortizationResult) *formResult {
	sym := h.form.CurrencySymbol
	query := loanQuery(req)

	out := &formResult{
		LoanAmount:     money.Format(req.Principal, sym),
		MonthlyPayment: money.Format(result.MonthlyPayment, sym),
		TotalPaid:      money.Format(result.TotalPaid, sym),
		TotalInterest:  money.Format(result.TotalInterest, sym),
		ChartsHref:     template.URL("/loan/charts?" + query.Encode()),
		Rows:           make([]formRow, 0, len(result.Schedule)),
	}

	for _, f := range export.Formats {
		q := loanQuery(req)
		q.Set(paramFormat, string(f))
		out.Downloads = append(out.Downloads, download{
			Label: formatLabels[f],
			Href:  template.URL("/loan/export?" + q.Encode()),
		})
	}

	for _, row := range result.Schedule {
		out.Rows = append(out.Rows, formRow{
			Index:     row.Index,
			Payment:   money.Format(row.Payment, sym),
			Principal: money.Format(row.PrincipalPortion, sym),
			Interest:  money.Format(row.InterestPortion, sym),
			Balance:   money.Format(row.RemainingBalance, sym),
		})
	}
	return out
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, page formPage) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		logging.FromContext(r.Context()).Error("index template execution failed",
			logging.FieldError, err,
			"template", "index.html",
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
