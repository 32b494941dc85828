package domain

import (
	"errors"
	"fmt"
	"time"
)

type MacroPeriodStatus string

const (
	StatusAguardando     MacroPeriodStatus = "AGUARDANDO"
	StatusRespondido     MacroPeriodStatus = "RESPONDIDO"
	StatusEdicaoLiberada MacroPeriodStatus = "EDICAO_LIBERADA"
	StatusConfirmado     MacroPeriodStatus = "CONFIRMADO"
	StatusCancelado      MacroPeriodStatus = "CANCELADO"
	StatusExpirado       MacroPeriodStatus = "EXPIRADO"
)

type Priority string

const (
	PriorityBaixa   Priority = "BAIXA"
	PriorityNormal  Priority = "NORMAL"
	PriorityAlta    Priority = "ALTA"
	PriorityUrgente Priority = "URGENTE"
)

// UnitAllocation indica quantos dias distintos uma unidade exige dentro de um
// macro período. UnitName e UnitCity são preenchidos pelo repository via join.
type UnitAllocation struct {
	ID            int64  `json:"id"`
	MacroPeriodID int64  `json:"macroPeriodID"`
	UnitID        int64  `json:"unitID"`
	UnitName      string `json:"unitName"`
	UnitCity      string `json:"unitCity"`
	TotalDays     int32  `json:"totalDays"`
	OrderPosition int32  `json:"orderPosition"`
}

type MacroPeriod struct {
	ID          int64             `json:"id"`
	DoctorID    int64             `json:"doctorID"`
	DoctorName  string            `json:"doctorName"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	Status      MacroPeriodStatus `json:"status"`
	Priority    Priority          `json:"priority"`
	Deadline    *time.Time        `json:"deadline"`
	PublicToken string            `json:"publicToken"`
	CreatedAt   time.Time         `json:"createdAt"`
	CreatedBy   string            `json:"createdBy"`
	RespondedAt *time.Time        `json:"respondedAt"`
	Allocations []UnitAllocation  `json:"allocations"`
	Selections  []Selection       `json:"selections"`
	Version     int32             `json:"-"`
}

// NewMacroPeriod monta um macro período já validado. Campos de request nunca
// são copiados diretamente para o agregado fora deste construtor.
func NewMacroPeriod(doctorID int64, startDate, endDate time.Time, priority Priority, deadline *time.Time, createdBy string, publicToken string, allocations []UnitAllocation) (*MacroPeriod, error) {
	if endDate.Before(startDate) {
		return nil, errors.New("a data final não pode ser anterior à data inicial")
	}
	if len(allocations) == 0 {
		return nil, errors.New("o macro período precisa de pelo menos uma unidade")
	}
	for i, alloc := range allocations {
		if alloc.TotalDays <= 0 {
			return nil, fmt.Errorf("a unidade na posição %d precisa exigir pelo menos 1 dia", i+1)
		}
		allocations[i].OrderPosition = int32(i + 1)
	}
	if priority == "" {
		priority = PriorityNormal
	}

	return &MacroPeriod{
		DoctorID:    doctorID,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      StatusAguardando,
		Priority:    priority,
		Deadline:    deadline,
		PublicToken: publicToken,
		CreatedBy:   createdBy,
		Allocations: allocations,
	}, nil
}

// AllocationByID procura uma alocação pelo id dentro do agregado.
func (p *MacroPeriod) AllocationByID(id int64) *UnitAllocation {
	for i := range p.Allocations {
		if p.Allocations[i].ID == id {
			return &p.Allocations[i]
		}
	}
	return nil
}
