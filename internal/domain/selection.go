package domain

import (
	"errors"
	"fmt"
	"time"
)

type SlotKind string

const (
	SlotFullDay   SlotKind = "FULL_DAY"
	SlotMorning   SlotKind = "MORNING"
	SlotAfternoon SlotKind = "AFTERNOON"
	SlotCustom    SlotKind = "CUSTOM"
)

// ClockRange é um intervalo de relógio no formato "HH:MM".
type ClockRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (cr ClockRange) Validate() error {
	start, err := time.Parse("15:04", cr.Start)
	if err != nil {
		return fmt.Errorf("horário inicial %q inválido", cr.Start)
	}
	end, err := time.Parse("15:04", cr.End)
	if err != nil {
		return fmt.Errorf("horário final %q inválido", cr.End)
	}
	if !end.After(start) {
		return errors.New("o horário final deve ser posterior ao horário inicial")
	}
	return nil
}

// Slot é a cobertura de tempo de uma seleção. Somente a variante CUSTOM
// carrega um intervalo de relógio; os construtores garantem isso.
type Slot struct {
	Kind   SlotKind    `json:"kind"`
	Custom *ClockRange `json:"custom,omitempty"`
}

func NewSlot(kind SlotKind) (Slot, error) {
	switch kind {
	case SlotFullDay, SlotMorning, SlotAfternoon:
		return Slot{Kind: kind}, nil
	case SlotCustom:
		return Slot{}, errors.New("o turno CUSTOM exige horário inicial e final")
	default:
		return Slot{}, fmt.Errorf("turno %q inválido", kind)
	}
}

func NewCustomSlot(start, end string) (Slot, error) {
	cr := ClockRange{Start: start, End: end}
	if err := cr.Validate(); err != nil {
		return Slot{}, err
	}
	return Slot{Kind: SlotCustom, Custom: &cr}, nil
}

// Selection é uma entrada de disponibilidade de um dia submetida pelo médico.
// BlockID vazio significa que a seleção não participa de nenhum bloco.
type Selection struct {
	ID            int64     `json:"id"`
	MacroPeriodID int64     `json:"macroPeriodID"`
	AllocationID  int64     `json:"allocationID"`
	Date          time.Time `json:"date"`
	Slot          Slot      `json:"slot"`
	BlockID       string    `json:"blockID,omitempty"`
}
