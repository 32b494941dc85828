package period

import (
	"errors"
	"testing"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeStore struct {
	applied     bool
	failWith    error
	selections  []domain.Selection
	status      domain.MacroPeriodStatus
	respondedAt *time.Time
	event       *domain.AuditEvent
}

func (s *fakeStore) ApplySubmission(periodID int64, version int32, selections []domain.Selection, status domain.MacroPeriodStatus, respondedAt *time.Time, event *domain.AuditEvent) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.applied = true
	s.selections = selections
	s.status = status
	s.respondedAt = respondedAt
	s.event = event
	return nil
}

var testNow = time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

func newSubmitter(store *fakeStore) *Submitter {
	return NewSubmitter(store, fixedClock{now: testNow})
}

func validSelections() []domain.Selection {
	return []domain.Selection{
		sel(1, domain.SlotFullDay),
		sel(2, domain.SlotFullDay),
		sel(3, domain.SlotFullDay),
	}
}

func TestSubmit_PrimeiraRespostaConfirmada(t *testing.T) {
	store := &fakeStore{}
	p := testPeriod(3)

	res, err := newSubmitter(store).Submit(p, validSelections(), true, "doctor")
	if err != nil {
		t.Fatalf("submissão válida deveria ser aceita: %v", err)
	}

	if res.Status != domain.StatusRespondido {
		t.Errorf("esperava status RESPONDIDO, veio %s", res.Status)
	}
	if res.EventKind != domain.EventResponded {
		t.Errorf("primeira resposta deveria gerar evento RESPONDED, veio %s", res.EventKind)
	}
	if p.RespondedAt == nil || !p.RespondedAt.Equal(testNow) {
		t.Errorf("primeira resposta deveria carimbar responded_at com o relógio injetado")
	}
	if !store.applied {
		t.Fatal("a submissão aceita deveria ter sido aplicada no store")
	}
	if store.event == nil || store.event.Payload["total_selections"] != 3 {
		t.Errorf("evento de auditoria deveria registrar o total de seleções")
	}
	dates, ok := store.event.Payload["dates"].([]string)
	if !ok || len(dates) != 3 || dates[0] != "2026-02-01" {
		t.Errorf("evento de auditoria deveria listar as datas em ordem, veio %v", store.event.Payload["dates"])
	}
}

func TestSubmit_ReenvioMantemRespondedAt(t *testing.T) {
	store := &fakeStore{}
	p := testPeriod(3)
	original := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	p.Status = domain.StatusEdicaoLiberada
	p.RespondedAt = &original

	res, err := newSubmitter(store).Submit(p, validSelections(), true, "doctor")
	if err != nil {
		t.Fatalf("reenvio válido deveria ser aceito: %v", err)
	}

	if res.EventKind != domain.EventUpdated {
		t.Errorf("reenvio deveria gerar evento UPDATED, veio %s", res.EventKind)
	}
	if p.RespondedAt == nil || !p.RespondedAt.Equal(original) {
		t.Error("reenvio não deveria alterar o responded_at original")
	}
	if res.Status != domain.StatusRespondido {
		t.Errorf("reenvio confirmado deveria travar em RESPONDIDO, veio %s", res.Status)
	}
}

func TestSubmit_RascunhoNaoAlteraStatus(t *testing.T) {
	store := &fakeStore{}
	p := testPeriod(3)

	res, err := newSubmitter(store).Submit(p, validSelections(), false, "doctor")
	if err != nil {
		t.Fatalf("rascunho válido deveria ser aceito: %v", err)
	}

	if res.Status != domain.StatusAguardando {
		t.Errorf("rascunho deveria manter o status, veio %s", res.Status)
	}
	if res.EventKind != domain.EventDraftSaved {
		t.Errorf("rascunho deveria gerar evento DRAFT_SAVED, veio %s", res.EventKind)
	}
	if p.RespondedAt != nil {
		t.Error("rascunho não deveria carimbar responded_at")
	}
}

func TestSubmit_StatusBloqueadoRejeitaAntesDeValidar(t *testing.T) {
	for _, status := range []domain.MacroPeriodStatus{domain.StatusRespondido, domain.StatusConfirmado, domain.StatusCancelado, domain.StatusExpirado} {
		store := &fakeStore{}
		p := testPeriod(3)
		p.Status = status

		// seleções propositalmente inválidas: o bloqueio vem primeiro
		_, err := newSubmitter(store).Submit(p, nil, true, "doctor")
		var lockedErr *LockedError
		if !errors.As(err, &lockedErr) {
			t.Errorf("status %s deveria rejeitar como bloqueado, veio: %v", status, err)
		}
		if store.applied {
			t.Errorf("status %s: nada deveria ter sido aplicado", status)
		}
	}
}

func TestSubmit_ValidacaoFalhaNaoMuta(t *testing.T) {
	store := &fakeStore{}
	p := testPeriod(3)
	// apenas 2 dias para uma cota de 3
	sels := []domain.Selection{sel(1, domain.SlotFullDay), sel(2, domain.SlotFullDay)}

	_, err := newSubmitter(store).Submit(p, sels, true, "doctor")
	if err == nil {
		t.Fatal("cota não atingida deveria ser rejeitada")
	}
	if store.applied {
		t.Error("submissão rejeitada não deveria tocar o store")
	}
	if p.Status != domain.StatusAguardando {
		t.Errorf("status deveria permanecer AGUARDANDO, veio %s", p.Status)
	}
	if p.RespondedAt != nil {
		t.Error("responded_at não deveria ter sido carimbado")
	}
}

func TestSubmit_FalhaDoStoreNaoMutaAgregado(t *testing.T) {
	storeErr := errors.New("conexão perdida")
	store := &fakeStore{failWith: storeErr}
	p := testPeriod(3)

	_, err := newSubmitter(store).Submit(p, validSelections(), true, "doctor")
	if !errors.Is(err, storeErr) {
		t.Fatalf("falha do store deveria ser propagada, veio: %v", err)
	}
	if p.Status != domain.StatusAguardando {
		t.Errorf("falha do store não deveria avançar o status, veio %s", p.Status)
	}
	if p.RespondedAt != nil {
		t.Error("falha do store não deveria carimbar responded_at")
	}
}

func TestSubmit_SubstituiConjuntoInteiro(t *testing.T) {
	store := &fakeStore{}
	p := testPeriod(3)
	p.Selections = []domain.Selection{sel(9, domain.SlotFullDay)}

	_, err := newSubmitter(store).Submit(p, validSelections(), false, "doctor")
	if err != nil {
		t.Fatalf("submissão válida deveria ser aceita: %v", err)
	}

	if len(store.selections) != 3 {
		t.Fatalf("o store deveria receber exatamente a lista candidata, veio %d itens", len(store.selections))
	}
	for _, s := range store.selections {
		if s.MacroPeriodID != p.ID {
			t.Error("as seleções aplicadas deveriam apontar para o período")
		}
	}
	if len(p.Selections) != 3 {
		t.Error("o agregado deveria refletir o novo conjunto de seleções")
	}
}
