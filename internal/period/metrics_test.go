package period

import (
	"testing"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func TestDaysOpen(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)}

	p := testPeriod(1)
	p.CreatedAt = time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	got := DaysOpen(p, clock)
	if got == nil || *got != 7 {
		t.Errorf("esperava 7 dias em aberto, veio %v", got)
	}

	p.Status = domain.StatusRespondido
	if DaysOpen(p, clock) != nil {
		t.Error("período respondido não tem dias em aberto")
	}
}

func TestTimeToResponse(t *testing.T) {
	p := testPeriod(1)
	p.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	if TimeToResponse(p) != nil {
		t.Error("período sem resposta não tem tempo até resposta")
	}

	respondedAt := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)
	p.RespondedAt = &respondedAt

	got := TimeToResponse(p)
	if got == nil || *got != 3 {
		t.Errorf("esperava 3 dias até a resposta, veio %v", got)
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	respondedAt := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	periods := []*domain.MacroPeriod{
		{ID: 1, DoctorID: 1, DoctorName: "Dra. Ana", Status: domain.StatusAguardando, CreatedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 2, DoctorID: 1, DoctorName: "Dra. Ana", Status: domain.StatusRespondido, CreatedAt: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), RespondedAt: &respondedAt},
		{ID: 3, DoctorID: 2, DoctorName: "Dr. Bruno", Status: domain.StatusConfirmado, CreatedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), RespondedAt: &respondedAt},
		{ID: 4, DoctorID: 2, DoctorName: "Dr. Bruno", Status: domain.StatusCancelado, CreatedAt: time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)},
	}

	d := BuildDashboard(periods, clock, now)

	if d.Totals.Total != 4 || d.Totals.Aguardando != 1 || d.Totals.Respondido != 1 || d.Totals.Confirmado != 1 || d.Totals.Cancelado != 1 {
		t.Errorf("totais incorretos: %+v", d.Totals)
	}
	// o período 1 aguarda há 8 dias
	if d.Totals.Urgentes != 1 {
		t.Errorf("esperava 1 período urgente, veio %d", d.Totals.Urgentes)
	}
	// 2 respondidos (respondido + confirmado) em 4
	if d.Metrics.ResponseRate != 50.0 {
		t.Errorf("esperava taxa de resposta 50.0, veio %v", d.Metrics.ResponseRate)
	}
	if len(d.WeeklyTrend) != 4 {
		t.Fatalf("esperava 4 semanas de tendência, veio %d", len(d.WeeklyTrend))
	}
	if len(d.ByDoctor) != 2 {
		t.Fatalf("esperava análise de 2 médicos, veio %d", len(d.ByDoctor))
	}
	// Dra. Ana tem a pendência urgente, deve vir primeiro
	if d.ByDoctor[0].DoctorName != "Dra. Ana" || d.ByDoctor[0].Urgent != 1 {
		t.Errorf("ordenação por urgência incorreta: %+v", d.ByDoctor[0])
	}
}
