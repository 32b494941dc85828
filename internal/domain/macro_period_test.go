package domain

import (
	"testing"
	"time"
)

func TestNewMacroPeriod(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	allocs := []UnitAllocation{{UnitID: 1, TotalDays: 3}, {UnitID: 2, TotalDays: 2}}

	p, err := NewMacroPeriod(7, start, end, "", nil, "admin@vitalis", "tok123", allocs)
	if err != nil {
		t.Fatalf("construção válida deveria funcionar: %v", err)
	}
	if p.Status != StatusAguardando {
		t.Errorf("estado inicial deveria ser AGUARDANDO, veio %s", p.Status)
	}
	if p.Priority != PriorityNormal {
		t.Errorf("prioridade vazia deveria virar NORMAL, veio %s", p.Priority)
	}
	if p.Allocations[0].OrderPosition != 1 || p.Allocations[1].OrderPosition != 2 {
		t.Error("as alocações deveriam receber a posição de exibição na ordem recebida")
	}
}

func TestNewMacroPeriod_DataFinalAnterior(t *testing.T) {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if _, err := NewMacroPeriod(7, start, end, PriorityNormal, nil, "admin", "tok", []UnitAllocation{{UnitID: 1, TotalDays: 1}}); err == nil {
		t.Fatal("data final anterior à inicial deveria ser rejeitada")
	}
}

func TestNewMacroPeriod_SemUnidades(t *testing.T) {
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewMacroPeriod(7, d, d, PriorityNormal, nil, "admin", "tok", nil); err == nil {
		t.Fatal("macro período sem unidades deveria ser rejeitado")
	}
}

func TestNewMacroPeriod_CotaNaoPositiva(t *testing.T) {
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewMacroPeriod(7, d, d, PriorityNormal, nil, "admin", "tok", []UnitAllocation{{UnitID: 1, TotalDays: 0}}); err == nil {
		t.Fatal("cota de dias não positiva deveria ser rejeitada")
	}
}
