package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
	"github.com/vitalis-saude/macro-periodos/backend/internal/period"
)

func (h *Handler) GetPublicMacroPeriod(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(PublicMacroPeriodCtx).(*domain.MacroPeriod)

	// registra a primeira visualização do link, uma única vez
	viewed, err := h.repository.HasAuditEvent(p.ID, domain.EventLinkViewed)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !viewed {
		event := &domain.AuditEvent{
			MacroPeriodID: p.ID,
			Kind:          domain.EventLinkViewed,
			CreatedBy:     "doctor",
		}
		if err := h.repository.InsertAuditEvent(event); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "macro período obtido com sucesso", struct {
		*domain.MacroPeriod
		CanEdit bool `json:"canEdit"`
	}{
		MacroPeriod: p,
		CanEdit:     period.CanDoctorEdit(p.Status),
	})
}

func (h *Handler) SubmitDoctorResponse(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(PublicMacroPeriodCtx).(*domain.MacroPeriod)

	var req struct {
		Selections []struct {
			AllocationID int64  `json:"allocationID" validate:"required"`
			Date         string `json:"date" validate:"required"`
			PartOfDay    string `json:"partOfDay" validate:"required,oneof=FULL_DAY MORNING AFTERNOON CUSTOM"`
			CustomStart  string `json:"customStart"`
			CustomEnd    string `json:"customEnd"`
			BlockID      string `json:"blockID"`
		} `json:"selections" validate:"dive"`
		Confirm bool `json:"confirm"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	selections := make([]domain.Selection, 0, len(req.Selections))
	for _, s := range req.Selections {
		date, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			h.errorResponse(w, r, "data de seleção inválida")
			return
		}

		var slot domain.Slot
		if domain.SlotKind(s.PartOfDay) == domain.SlotCustom {
			slot, err = domain.NewCustomSlot(s.CustomStart, s.CustomEnd)
		} else {
			slot, err = domain.NewSlot(domain.SlotKind(s.PartOfDay))
		}
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		selections = append(selections, domain.Selection{
			AllocationID: s.AllocationID,
			Date:         date,
			Slot:         slot,
			BlockID:      s.BlockID,
		})
	}

	result, err := h.submitter.Submit(p, selections, req.Confirm, "doctor")
	if err != nil {
		var lockedErr *period.LockedError
		switch {
		case errors.As(err, &lockedErr):
			h.errorResponse(w, r, lockedErr.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "o macro período foi alterado por outra operação, recarregue a página")
		default:
			// erro de validação das seleções, devolvido ao médico como está
			h.errorResponse(w, r, err.Error())
		}
		return
	}

	h.successResponse(w, r, "resposta registrada com sucesso", result)
}
