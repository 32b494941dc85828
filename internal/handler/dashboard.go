package handler

import (
	"net/http"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/period"
)

func (h *Handler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// por padrão, a janela cobre os últimos 30 dias
	windowEnd := h.clock.Now()
	windowStart := windowEnd.AddDate(0, 0, -30)

	if v, err := time.Parse(dateLayout, q.Get("start")); err == nil {
		windowStart = v
	}
	if v, err := time.Parse(dateLayout, q.Get("end")); err == nil {
		// inclui o dia final inteiro
		windowEnd = v.AddDate(0, 0, 1)
	}

	if windowEnd.Before(windowStart) {
		h.errorResponse(w, r, "a data final da janela não pode ser anterior à inicial")
		return
	}

	periods, err := h.repository.ListMacroPeriodsCreatedBetween(windowStart, windowEnd)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	dashboard := period.BuildDashboard(periods, h.clock, windowEnd)

	h.successResponse(w, r, "métricas obtidas com sucesso", dashboard)
}
