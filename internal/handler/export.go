package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

var exportHeader = []string{
	"macro_periodo_id",
	"medico",
	"crm",
	"status",
	"prioridade",
	"unidade",
	"cidade",
	"data",
	"turno",
	"horario_inicio",
	"horario_fim",
	"bloco",
}

func exportRows(p *domain.MacroPeriod, doctor *domain.Doctor) [][]string {
	rows := make([][]string, 0, len(p.Selections))
	for _, sel := range p.Selections {
		unitName := ""
		unitCity := ""
		if alloc := p.AllocationByID(sel.AllocationID); alloc != nil {
			unitName = alloc.UnitName
			unitCity = alloc.UnitCity
		}

		customStart := ""
		customEnd := ""
		if sel.Slot.Custom != nil {
			customStart = sel.Slot.Custom.Start
			customEnd = sel.Slot.Custom.End
		}

		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			doctor.Name,
			doctor.CRM,
			string(p.Status),
			string(p.Priority),
			unitName,
			unitCity,
			sel.Date.Format("2006-01-02"),
			string(sel.Slot.Kind),
			customStart,
			customEnd,
			sel.BlockID,
		})
	}
	return rows
}

func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, filename string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		h.logInternalServerError(r, err)
		return
	}
	if err := cw.WriteAll(rows); err != nil {
		h.logInternalServerError(r, err)
		return
	}
}

func (h *Handler) ExportMacroPeriodCSV(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)

	doctor, err := h.repository.GetDoctorByID(p.DoctorID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	filename := fmt.Sprintf("macro-periodo-%d.csv", p.ID)
	h.writeCSV(w, r, filename, exportRows(p, doctor))
}

func (h *Handler) ExportMacroPeriodsBatchCSV(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rows := [][]string{}
	for _, id := range req.IDs {
		p, err := h.repository.GetMacroPeriodByID(id)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		doctor, err := h.repository.GetDoctorByID(p.DoctorID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		rows = append(rows, exportRows(p, doctor)...)
	}

	filename := fmt.Sprintf("macro-periodos-%s.csv", time.Now().Format("2006-01-02"))
	h.writeCSV(w, r, filename, rows)
}
