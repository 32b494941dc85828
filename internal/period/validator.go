package period

import (
	"fmt"
	"sort"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

// civilDate normaliza um instante para a meia-noite UTC do dia correspondente,
// de forma que seleções sejam comparadas sempre por dia de calendário.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ValidateSelections aplica as regras de admissibilidade sobre a lista
// candidata, na ordem: data dentro do período, alocação existente, conflito no
// mesmo dia, contiguidade de blocos e cota de dias por unidade. A primeira
// regra violada interrompe a validação.
//
// Lacuna conhecida: turnos CUSTOM podem se repetir no mesmo dia e não são
// cruzados com MORNING/AFTERNOON nem entre si.
func ValidateSelections(p *domain.MacroPeriod, selections []domain.Selection) error {
	start := civilDate(p.StartDate)
	end := civilDate(p.EndDate)

	// 1. toda data deve cair dentro de [start, end]
	for _, sel := range selections {
		date := civilDate(sel.Date)
		if date.Before(start) || date.After(end) {
			return fmt.Errorf("a data %s está fora do período permitido", dateKey(sel.Date))
		}
	}

	// 2. toda seleção deve referenciar uma alocação do período
	allocIDs := make(map[int64]bool, len(p.Allocations))
	for _, alloc := range p.Allocations {
		allocIDs[alloc.ID] = true
	}
	for _, sel := range selections {
		if !allocIDs[sel.AllocationID] {
			return fmt.Errorf("seleção referencia uma unidade inexistente no período (id %d)", sel.AllocationID)
		}
	}

	// 3. conflitos no mesmo dia
	byDate := make(map[string][]domain.SlotKind)
	for _, sel := range selections {
		key := dateKey(sel.Date)
		byDate[key] = append(byDate[key], sel.Slot.Kind)
	}
	for key, kinds := range byDate {
		counts := make(map[domain.SlotKind]int)
		for _, kind := range kinds {
			counts[kind]++
		}
		if counts[domain.SlotFullDay] > 0 && len(kinds) > 1 {
			return fmt.Errorf("data %s: FULL_DAY não pode coexistir com outros turnos no mesmo dia", key)
		}
		for kind, count := range counts {
			if count > 1 && kind != domain.SlotCustom {
				return fmt.Errorf("data %s: turno %s duplicado", key, kind)
			}
		}
	}

	// 4. datas de um mesmo bloco devem ser consecutivas
	blocks := make(map[string]map[string]time.Time)
	for _, sel := range selections {
		if sel.BlockID == "" {
			continue
		}
		if blocks[sel.BlockID] == nil {
			blocks[sel.BlockID] = make(map[string]time.Time)
		}
		date := civilDate(sel.Date)
		blocks[sel.BlockID][dateKey(date)] = date
	}
	for blockID, dates := range blocks {
		sorted := make([]time.Time, 0, len(dates))
		for _, date := range dates {
			sorted = append(sorted, date)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
		for i := 0; i+1 < len(sorted); i++ {
			if !sorted[i].AddDate(0, 0, 1).Equal(sorted[i+1]) {
				return fmt.Errorf("o bloco %s possui datas não consecutivas", blockID)
			}
		}
	}

	// 5. cada unidade deve ter exatamente o número exigido de dias distintos
	daysByAlloc := make(map[int64]map[string]bool)
	for _, sel := range selections {
		if daysByAlloc[sel.AllocationID] == nil {
			daysByAlloc[sel.AllocationID] = make(map[string]bool)
		}
		daysByAlloc[sel.AllocationID][dateKey(sel.Date)] = true
	}
	for _, alloc := range p.Allocations {
		got := len(daysByAlloc[alloc.ID])
		if got != int(alloc.TotalDays) {
			return fmt.Errorf("a unidade %s exige %d dias, mas foram selecionados %d", alloc.UnitName, alloc.TotalDays, got)
		}
	}

	return nil
}
