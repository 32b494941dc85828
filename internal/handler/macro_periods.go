package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
	"github.com/vitalis-saude/macro-periodos/backend/internal/period"
	"github.com/vitalis-saude/macro-periodos/backend/internal/repository"
	"github.com/vitalis-saude/macro-periodos/backend/internal/utils"
)

func repositoryFilterFromQuery(r *http.Request) repository.MacroPeriodFilter {
	q := r.URL.Query()

	filter := repository.MacroPeriodFilter{
		Status:         domain.MacroPeriodStatus(q.Get("status")),
		SortByDaysOpen: q.Get("sortBy") == "daysOpen",
	}

	if v, err := strconv.ParseInt(q.Get("doctorID"), 10, 64); err == nil {
		filter.DoctorID = v
	}
	if v, err := strconv.ParseInt(q.Get("unitID"), 10, 64); err == nil {
		filter.UnitID = v
	}
	if v, err := time.Parse(dateLayout, q.Get("createdFrom")); err == nil {
		filter.CreatedFrom = &v
	}
	if v, err := time.Parse(dateLayout, q.Get("createdTo")); err == nil {
		filter.CreatedTo = &v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	return filter
}

const dateLayout = "2006-01-02"

func (h *Handler) publicLink(token string) string {
	return fmt.Sprintf("%s/responder/%s", h.config.FrontendURL, token)
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (h *Handler) CreateMacroPeriod(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		DoctorID    int64  `json:"doctorID" validate:"required"`
		StartDate   string `json:"startDate" validate:"required"`
		EndDate     string `json:"endDate" validate:"required"`
		Priority    string `json:"priority" validate:"omitempty,oneof=BAIXA NORMAL ALTA URGENTE"`
		Deadline    string `json:"deadline"`
		Allocations []struct {
			UnitID    int64 `json:"unitID" validate:"required"`
			TotalDays int32 `json:"totalDays" validate:"required,min=1"`
		} `json:"allocations" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "data inicial inválida")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "data final inválida")
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse(dateLayout, req.Deadline)
		if err != nil {
			h.errorResponse(w, r, "prazo de resposta inválido")
			return
		}
		deadline = &d
	}

	doctor, err := h.repository.GetDoctorByID(req.DoctorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "médico não encontrado")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !doctor.Active {
		h.errorResponse(w, r, "o médico está inativo")
		return
	}

	allocations := make([]domain.UnitAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		unit, err := h.repository.GetUnitByID(a.UnitID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, fmt.Sprintf("unidade %d não encontrada", a.UnitID))
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		allocations = append(allocations, domain.UnitAllocation{
			UnitID:    unit.ID,
			UnitName:  unit.Name,
			UnitCity:  unit.City,
			TotalDays: a.TotalDays,
		})
	}

	token, err := utils.GeneratePublicToken()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	p, err := domain.NewMacroPeriod(doctor.ID, startDate, endDate, domain.Priority(req.Priority), deadline, myInfo.Username, token, allocations)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	p.DoctorName = doctor.Name

	event := &domain.AuditEvent{
		Kind: domain.EventCreated,
		Payload: map[string]any{
			"priority":    string(p.Priority),
			"total_units": len(p.Allocations),
		},
		CreatedBy: myInfo.Username,
	}

	if err := h.repository.CreateMacroPeriod(p, event); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// envia o convite com o link público ao médico
	deadlineText := ""
	if p.Deadline != nil {
		deadlineText = p.Deadline.Format("02/01/2006")
	}

	mailMessage := domain.MailMessage{
		Type: "invitation",
		To:   doctor.Email,
		Data: domain.InvitationMailData{
			DoctorName: doctor.Name,
			StartDate:  p.StartDate.Format("02/01/2006"),
			EndDate:    p.EndDate.Format("02/01/2006"),
			Deadline:   deadlineText,
			Link:       h.publicLink(p.PublicToken),
		},
	}

	if err := h.publishMail(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "macro período criado com sucesso", p)
}

// macroPeriodListItem anexa as métricas derivadas que a listagem exibe.
type macroPeriodListItem struct {
	*domain.MacroPeriod
	DaysOpen       *int `json:"daysOpen"`
	TimeToResponse *int `json:"timeToResponse"`
}

func (h *Handler) ListMacroPeriods(w http.ResponseWriter, r *http.Request) {
	filter := repositoryFilterFromQuery(r)

	periods, err := h.repository.ListMacroPeriods(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	items := make([]macroPeriodListItem, 0, len(periods))
	for _, p := range periods {
		items = append(items, macroPeriodListItem{
			MacroPeriod:    p,
			DaysOpen:       period.DaysOpen(p, h.clock),
			TimeToResponse: period.TimeToResponse(p),
		})
	}

	h.successResponse(w, r, "lista de macro períodos obtida com sucesso", items)
}

func (h *Handler) GetMacroPeriod(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)

	events, err := h.repository.GetAuditEvents(p.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "macro período obtido com sucesso", struct {
		*domain.MacroPeriod
		DaysOpen       *int                 `json:"daysOpen"`
		TimeToResponse *int                 `json:"timeToResponse"`
		AuditEvents    []*domain.AuditEvent `json:"auditEvents"`
	}{
		MacroPeriod:    p,
		DaysOpen:       period.DaysOpen(p, h.clock),
		TimeToResponse: period.TimeToResponse(p),
		AuditEvents:    events,
	})
}

func (h *Handler) UnlockMacroPeriod(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.applyStatusAction(p, period.ActionUnlock, myInfo.Username); err != nil {
		h.statusActionError(w, r, err)
		return
	}

	// avisa o médico que o período foi liberado para edição
	doctor, err := h.repository.GetDoctorByID(p.DoctorID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "unlocked",
		To:   doctor.Email,
		Data: domain.UnlockedMailData{
			DoctorName: doctor.Name,
			StartDate:  p.StartDate.Format("02/01/2006"),
			EndDate:    p.EndDate.Format("02/01/2006"),
			Link:       h.publicLink(p.PublicToken),
		},
	}

	if err := h.publishMail(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "edição liberada com sucesso", p)
}

func (h *Handler) ConfirmMacroPeriod(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.applyStatusAction(p, period.ActionConfirm, myInfo.Username); err != nil {
		h.statusActionError(w, r, err)
		return
	}

	h.successResponse(w, r, "macro período confirmado com sucesso", p)
}

func (h *Handler) CancelMacroPeriod(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if err := h.applyStatusAction(p, period.ActionCancel, myInfo.Username); err != nil {
		h.statusActionError(w, r, err)
		return
	}

	h.successResponse(w, r, "macro período cancelado com sucesso", p)
}

func (h *Handler) applyStatusAction(p *domain.MacroPeriod, action period.Action, actor string) error {
	next, err := period.Transition(p.Status, action)
	if err != nil {
		return err
	}

	previous := p.Status
	p.Status = next

	event := &domain.AuditEvent{
		MacroPeriodID: p.ID,
		Kind:          period.EventForAction(action),
		Payload: map[string]any{
			"from": string(previous),
			"to":   string(next),
		},
		CreatedBy: actor,
	}

	if err := h.repository.UpdateMacroPeriodStatus(p, event); err != nil {
		p.Status = previous
		return err
	}

	return nil
}

func (h *Handler) statusActionError(w http.ResponseWriter, r *http.Request, err error) {
	var lockedErr *period.LockedError
	switch {
	case errors.As(err, &lockedErr):
		h.errorResponse(w, r, lockedErr.Error())
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "o macro período foi alterado por outra operação, tente novamente")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) UpdateMacroPeriodAllocations(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// fora de AGUARDANDO a edição exige um token de edição administrativa
	if !period.CanAdminEditAllocations(p.Status) {
		token := r.Header.Get("X-Admin-Edit-Token")
		if token == "" {
			h.errorResponse(w, r, "o macro período não permite mais editar as alocações")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
		defer cancel()

		stored, err := h.redisClient.Get(ctx, fmt.Sprintf("admin_edit_%d", p.ID)).Result()
		if err != nil || stored != token {
			h.errorResponse(w, r, "token de edição administrativa inválido ou expirado")
			return
		}
	}

	var req struct {
		Allocations []struct {
			UnitID    int64 `json:"unitID" validate:"required"`
			TotalDays int32 `json:"totalDays" validate:"required,min=1"`
		} `json:"allocations" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	allocations := make([]domain.UnitAllocation, 0, len(req.Allocations))
	for i, a := range req.Allocations {
		unit, err := h.repository.GetUnitByID(a.UnitID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, fmt.Sprintf("unidade %d não encontrada", a.UnitID))
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		allocations = append(allocations, domain.UnitAllocation{
			MacroPeriodID: p.ID,
			UnitID:        unit.ID,
			UnitName:      unit.Name,
			UnitCity:      unit.City,
			TotalDays:     a.TotalDays,
			OrderPosition: int32(i + 1),
		})
	}

	event := &domain.AuditEvent{
		MacroPeriodID: p.ID,
		Kind:          domain.EventUpdated,
		Payload: map[string]any{
			"total_units": len(allocations),
		},
		CreatedBy: myInfo.Username,
	}

	if err := h.repository.ReplaceAllocations(p, allocations, event); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "o macro período foi alterado por outra operação, tente novamente")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "alocações atualizadas com sucesso", p)
}

func (h *Handler) EnableAdminEdit(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		EvidenceID int64  `json:"evidenceID" validate:"required"`
		Reason     string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// a evidência precisa existir e pertencer a este macro período
	evidence, err := h.repository.GetAdminEditEvidenceByID(req.EvidenceID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "evidência não encontrada")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if evidence.MacroPeriodID != p.ID {
		h.errorResponse(w, r, "a evidência não pertence a este macro período")
		return
	}

	token, err := utils.GeneratePublicToken()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	expiration := time.Duration(h.config.AdminEdit.TokenExpiration) * time.Second

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Set(ctx, fmt.Sprintf("admin_edit_%d", p.ID), token, expiration).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	event := &domain.AuditEvent{
		MacroPeriodID: p.ID,
		Kind:          domain.EventAdminEdit,
		Payload: map[string]any{
			"evidence_id": req.EvidenceID,
			"reason":      req.Reason,
		},
		CreatedBy: myInfo.Username,
	}

	if err := h.repository.InsertAuditEvent(event); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "edição administrativa liberada com sucesso", struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}{
		Token:     token,
		ExpiresAt: h.clock.Now().Add(expiration),
	})
}
