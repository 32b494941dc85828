package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (h *Handler) GetAllUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.repository.GetAllUnits()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de unidades obtida com sucesso", units)
}

func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unit := r.Context().Value(UnitCtx).(*domain.Unit)
	h.successResponse(w, r, "unidade obtida com sucesso", unit)
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string              `json:"name" validate:"required"`
		City   string              `json:"city" validate:"required"`
		Shifts *domain.ShiftConfig `json:"shifts"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	unit := &domain.Unit{
		Name:   req.Name,
		City:   req.City,
		Shifts: domain.DefaultShiftConfig(),
	}

	if req.Shifts != nil {
		if err := req.Shifts.Morning.Validate(); err != nil {
			h.errorResponse(w, r, "horário da manhã inválido")
			return
		}
		if err := req.Shifts.Afternoon.Validate(); err != nil {
			h.errorResponse(w, r, "horário da tarde inválido")
			return
		}
		unit.Shifts = *req.Shifts
	}

	if err := h.repository.CreateUnit(unit); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "units_name_city_key":
			h.badRequest(w, r, errors.New("já existe uma unidade com esse nome nessa cidade"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "unidade criada com sucesso", unit)
}

func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   *string             `json:"name"`
		City   *string             `json:"city"`
		Shifts *domain.ShiftConfig `json:"shifts"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	unit := r.Context().Value(UnitCtx).(*domain.Unit)

	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.City != nil {
		unit.City = *req.City
	}
	if req.Shifts != nil {
		if err := req.Shifts.Morning.Validate(); err != nil {
			h.errorResponse(w, r, "horário da manhã inválido")
			return
		}
		if err := req.Shifts.Afternoon.Validate(); err != nil {
			h.errorResponse(w, r, "horário da tarde inválido")
			return
		}
		unit.Shifts = *req.Shifts
	}

	if err := h.repository.UpdateUnit(unit); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "falha ao atualizar a unidade, tente novamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "unidade atualizada com sucesso", unit)
}

func (h *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	unit := r.Context().Value(UnitCtx).(*domain.Unit)

	if err := h.repository.DeleteUnit(unit.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			// a unidade ainda aparece em alocações de macro períodos
			h.errorResponse(w, r, "a unidade está vinculada a macro períodos e não pode ser removida")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "unidade removida com sucesso", nil)
}
