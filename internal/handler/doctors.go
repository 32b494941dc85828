package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (h *Handler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("onlyActive") == "true"

	doctors, err := h.repository.GetAllDoctors(onlyActive)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de médicos obtida com sucesso", doctors)
}

func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor := r.Context().Value(DoctorCtx).(*domain.Doctor)
	h.successResponse(w, r, "médico obtido com sucesso", doctor)
}

func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		CRM   string `json:"crm" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	doctor := &domain.Doctor{
		Name:   req.Name,
		Email:  req.Email,
		CRM:    req.CRM,
		Active: true,
	}

	if err := h.repository.CreateDoctor(doctor); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "doctors_crm_key":
				h.badRequest(w, r, errors.New("CRM já cadastrado"))
			case pgErr.ConstraintName == "doctors_email_key":
				h.badRequest(w, r, errors.New("e-mail já cadastrado"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "médico criado com sucesso", doctor)
}

func (h *Handler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   *string `json:"name"`
		Email  *string `json:"email" validate:"omitempty,email"`
		CRM    *string `json:"crm"`
		Active *bool   `json:"active"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	doctor := r.Context().Value(DoctorCtx).(*domain.Doctor)

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.CRM != nil {
		doctor.CRM = *req.CRM
	}
	if req.Active != nil {
		doctor.Active = *req.Active
	}

	if err := h.repository.UpdateDoctor(doctor); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "doctors_crm_key":
				h.badRequest(w, r, errors.New("CRM já cadastrado"))
			case pgErr.ConstraintName == "doctors_email_key":
				h.badRequest(w, r, errors.New("e-mail já cadastrado"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "falha ao atualizar o médico, tente novamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "médico atualizado com sucesso", doctor)
}

func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	doctor := r.Context().Value(DoctorCtx).(*domain.Doctor)

	if err := h.repository.DeleteDoctor(doctor.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			h.errorResponse(w, r, "o médico possui macro períodos e não pode ser removido")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "médico removido com sucesso", nil)
}
