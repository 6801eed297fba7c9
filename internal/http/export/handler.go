package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/granja/internal/http/respond"
	"github.com/MrJamesThe3rd/granja/internal/report"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/inventory.xlsx", h.workbook)
}

// workbook renders the report as of ?date=YYYY-MM-DD, today by default.
func (h *Handler) workbook(w http.ResponseWriter, r *http.Request) {
	today := h.now()

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, today.Location())
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		today = t
	}

	// Buffered so a failure halfway does not leave a truncated download.
	var buf bytes.Buffer
	if err := h.svc.Write(r.Context(), &buf, today); err != nil {
		slog.Error("failed to build report", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"inventario_%s.xlsx\"", today.Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
