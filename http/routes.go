package http

import (
	"net/http"
)

// Handlers groups every handler served by the application.
type Handlers struct {
	Form               *FormHandler
	Loan               *LoanHandler
	TermRecommendation *TermRecommendationHandler
	Chart              *ChartHandler
	Export             *ExportHandler
}

// NewMux registers the routes. Everything under /loan/ is rate limited per client.
func NewMux(h Handlers, limiter *RateLimiter) *http.ServeMux {
	limited := func(fn http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, fn)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Form.Index)
	mux.HandleFunc("/healthz", Health)

	mux.Handle("/loan/calculate", limited(h.Loan.CalculateLoan))
	mux.Handle("/loan/schedule", limited(h.Loan.Schedule))
	mux.Handle("/loan/recommend-term", limited(h.TermRecommendation.RecommendTerm))
	mux.Handle("/loan/charts", limited(h.Chart.Charts))
	mux.Handle("/loan/export", limited(h.Export.Download))

	return mux
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
