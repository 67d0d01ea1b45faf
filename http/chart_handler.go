package http

import (
	"bytes"
	"net/http"

	"loan-calculator/chart"
	"loan-calculator/config"
	"loan-calculator/service"
)

type ChartHandler struct {
	form config.FormSettings
}

func NewChartHandler(form config.FormSettings) *ChartHandler {
	return &ChartHandler{form: form}
}

// Charts renders the balance and composition charts for the query's loan.
func (h *ChartHandler) Charts(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := parseLoanQuery(r.URL.Query(), h.form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := service.Amortize(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderPage(&buf, "Loan Charts", result.Schedule, h.form.CurrencySymbol); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
