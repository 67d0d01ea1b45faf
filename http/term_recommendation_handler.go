package http

import (
	"net/http"
	"strings"

	"loan-calculator/domain"
	"loan-calculator/logging"
	"loan-calculator/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
}

func NewTermRecommendationHandler(service *service.TermRecommendationService) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	logger := logging.FromContext(r.Context())

	var input domain.TermRecommendationInput
	if err := decodeJSON(w, r, &input); err != nil {
		logger.Warn("failed to decode request body", logging.FieldError, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		logger.Warn("failed to recommend term",
			logging.FieldOperation, logging.OpRecommend,
			logging.FieldError, err,
		)
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}
