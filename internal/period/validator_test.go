package period

import (
	"strings"
	"testing"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func date(day int) time.Time {
	return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)
}

func testPeriod(totalDays int32) *domain.MacroPeriod {
	return &domain.MacroPeriod{
		ID:        1,
		StartDate: date(1),
		EndDate:   date(10),
		Status:    domain.StatusAguardando,
		Allocations: []domain.UnitAllocation{
			{ID: 10, UnitID: 1, UnitName: "Hospital Central", TotalDays: totalDays},
		},
	}
}

func sel(day int, kind domain.SlotKind) domain.Selection {
	return domain.Selection{AllocationID: 10, Date: date(day), Slot: domain.Slot{Kind: kind}}
}

func selBlock(day int, blockID string) domain.Selection {
	s := sel(day, domain.SlotFullDay)
	s.BlockID = blockID
	return s
}

func TestValidateSelections_Aceita(t *testing.T) {
	p := testPeriod(3)
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(2, domain.SlotFullDay), sel(3, domain.SlotFullDay)}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("validação deveria aceitar: %v", err)
	}
}

func TestValidateSelections_DataForaDoPeriodo(t *testing.T) {
	p := testPeriod(1)
	sels := []domain.Selection{sel(11, domain.SlotFullDay)}

	err := ValidateSelections(p, sels)
	if err == nil {
		t.Fatal("data fora do período deveria ser rejeitada")
	}
	if !strings.Contains(err.Error(), "2026-02-11") {
		t.Errorf("erro deveria citar a data ofensora, veio: %v", err)
	}
}

func TestValidateSelections_AlocacaoInexistente(t *testing.T) {
	p := testPeriod(1)
	s := sel(1, domain.SlotFullDay)
	s.AllocationID = 999

	err := ValidateSelections(p, []domain.Selection{s})
	if err == nil {
		t.Fatal("alocação inexistente deveria ser rejeitada")
	}
	if !strings.Contains(err.Error(), "999") {
		t.Errorf("erro deveria citar o id inválido, veio: %v", err)
	}
}

func TestValidateSelections_FullDayComOutroTurno(t *testing.T) {
	p := testPeriod(1)
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(1, domain.SlotMorning)}

	if err := ValidateSelections(p, sels); err == nil {
		t.Fatal("FULL_DAY junto de outro turno no mesmo dia deveria ser rejeitado")
	}
}

func TestValidateSelections_MorningDuplicado(t *testing.T) {
	p := testPeriod(1)
	sels := []domain.Selection{sel(1, domain.SlotMorning), sel(1, domain.SlotMorning)}

	if err := ValidateSelections(p, sels); err == nil {
		t.Fatal("dois MORNING no mesmo dia deveriam ser rejeitados")
	}
}

func TestValidateSelections_MorningComAfternoon(t *testing.T) {
	p := testPeriod(1)
	sels := []domain.Selection{sel(1, domain.SlotMorning), sel(1, domain.SlotAfternoon)}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("MORNING e AFTERNOON podem coexistir: %v", err)
	}
}

// lacuna documentada: CUSTOM pode se repetir no mesmo dia
func TestValidateSelections_CustomDuplicadoAceito(t *testing.T) {
	p := testPeriod(1)
	a, _ := domain.NewCustomSlot("08:00", "10:00")
	b, _ := domain.NewCustomSlot("14:00", "16:00")
	sels := []domain.Selection{
		{AllocationID: 10, Date: date(1), Slot: a},
		{AllocationID: 10, Date: date(1), Slot: b},
	}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("dois CUSTOM no mesmo dia são aceitos hoje: %v", err)
	}
}

func TestValidateSelections_BlocoNaoConsecutivo(t *testing.T) {
	p := testPeriod(2)
	sels := []domain.Selection{selBlock(1, "b1"), selBlock(3, "b1")}

	err := ValidateSelections(p, sels)
	if err == nil {
		t.Fatal("bloco com lacuna entre datas deveria ser rejeitado")
	}
	if !strings.Contains(err.Error(), "b1") {
		t.Errorf("erro deveria citar o bloco, veio: %v", err)
	}
}

func TestValidateSelections_BlocoForaDeOrdem(t *testing.T) {
	p := testPeriod(3)
	// três dias consecutivos submetidos embaralhados
	sels := []domain.Selection{selBlock(3, "b1"), selBlock(1, "b1"), selBlock(2, "b1")}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("bloco consecutivo deveria ser aceito em qualquer ordem: %v", err)
	}
}

func TestValidateSelections_SemBlocoNaoExigeContiguidade(t *testing.T) {
	p := testPeriod(2)
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(5, domain.SlotFullDay)}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("seleções sem bloco não exigem contiguidade: %v", err)
	}
}

func TestValidateSelections_CotaInsuficiente(t *testing.T) {
	p := testPeriod(3)
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(2, domain.SlotFullDay)}

	err := ValidateSelections(p, sels)
	if err == nil {
		t.Fatal("cota de dias não atingida deveria ser rejeitada")
	}
	if !strings.Contains(err.Error(), "Hospital Central") || !strings.Contains(err.Error(), "3") || !strings.Contains(err.Error(), "2") {
		t.Errorf("erro deveria citar unidade e contagens, veio: %v", err)
	}
}

func TestValidateSelections_CotaExcedida(t *testing.T) {
	p := testPeriod(2)
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(2, domain.SlotFullDay), sel(3, domain.SlotFullDay)}

	if err := ValidateSelections(p, sels); err == nil {
		t.Fatal("cota de dias excedida deveria ser rejeitada")
	}
}

func TestValidateSelections_CotaContaDiasDistintos(t *testing.T) {
	p := testPeriod(2)
	// dois turnos no mesmo dia contam como um único dia
	sels := []domain.Selection{
		sel(1, domain.SlotMorning),
		sel(1, domain.SlotAfternoon),
		sel(2, domain.SlotFullDay),
	}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("dias distintos deveriam satisfazer a cota: %v", err)
	}
}

func TestValidateSelections_MultiplasUnidades(t *testing.T) {
	p := testPeriod(1)
	p.Allocations = append(p.Allocations, domain.UnitAllocation{ID: 20, UnitID: 2, UnitName: "Clínica Norte", TotalDays: 2})

	sels := []domain.Selection{
		sel(1, domain.SlotFullDay),
		{AllocationID: 20, Date: date(2), Slot: domain.Slot{Kind: domain.SlotFullDay}},
		{AllocationID: 20, Date: date(3), Slot: domain.Slot{Kind: domain.SlotFullDay}},
	}

	if err := ValidateSelections(p, sels); err != nil {
		t.Fatalf("cotas por unidade deveriam ser avaliadas de forma independente: %v", err)
	}
}
