package http

import (
	"fmt"
	"net/http"
	"strconv"

	"loan-calculator/config"
	"loan-calculator/export"
	"loan-calculator/logging"
	"loan-calculator/service"
)

type ExportHandler struct {
	exports *service.ExportService
	form    config.FormSettings
}

func NewExportHandler(exports *service.ExportService, form config.FormSettings) *ExportHandler {
	return &ExportHandler{exports: exports, form: form}
}

// Download serves the schedule as a file attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get(paramFormat))
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := parseLoanQuery(q, h.form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := h.exports.Render(r.Context(), req, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("export served",
		logging.FieldOperation, logging.OpExport,
		logging.FieldFormat, string(format),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(req, format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
