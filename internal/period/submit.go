package period

import (
	"sort"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

// Clock isola a leitura de "agora" para que respostas e métricas derivadas
// sejam determinísticas em teste.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Store aplica o resultado de uma submissão aceita. A implementação deve
// executar tudo em uma única transação: apagar as seleções antigas, inserir as
// novas, atualizar status/responded_at e anexar o evento de auditoria.
type Store interface {
	ApplySubmission(periodID int64, version int32, selections []domain.Selection, status domain.MacroPeriodStatus, respondedAt *time.Time, event *domain.AuditEvent) error
}

// Submitter orquestra a submissão do médico: rejeita antes de mutar, muta de
// forma atômica quando aceita.
type Submitter struct {
	store Store
	clock Clock
}

func NewSubmitter(store Store, clock Clock) *Submitter {
	return &Submitter{store: store, clock: clock}
}

type SubmissionResult struct {
	Status    domain.MacroPeriodStatus `json:"status"`
	EventKind domain.EventKind         `json:"eventKind"`
}

// Submit valida e aplica a lista candidata de seleções. O conjunto anterior é
// substituído por inteiro: o que não for reenviado deixa de existir.
func (s *Submitter) Submit(p *domain.MacroPeriod, selections []domain.Selection, confirm bool, actor string) (*SubmissionResult, error) {
	if !CanDoctorEdit(p.Status) {
		return nil, &LockedError{Status: p.Status}
	}

	if err := ValidateSelections(p, selections); err != nil {
		return nil, err
	}

	newStatus := p.Status
	respondedAt := p.RespondedAt
	var eventKind domain.EventKind

	if confirm {
		if p.Status == domain.StatusAguardando {
			// primeira resposta: carimba o momento
			now := s.clock.Now()
			respondedAt = &now
			eventKind = domain.EventResponded
		} else {
			eventKind = domain.EventUpdated
		}
		newStatus = domain.StatusRespondido
	} else {
		// rascunho: status permanece como está
		eventKind = domain.EventDraftSaved
	}

	for i := range selections {
		selections[i].MacroPeriodID = p.ID
	}

	event := &domain.AuditEvent{
		MacroPeriodID: p.ID,
		Kind:          eventKind,
		CreatedBy:     actor,
		Payload: map[string]any{
			"total_selections": len(selections),
			"dates":            selectionDates(selections),
		},
	}

	if err := s.store.ApplySubmission(p.ID, p.Version, selections, newStatus, respondedAt, event); err != nil {
		return nil, err
	}

	p.Status = newStatus
	p.RespondedAt = respondedAt
	p.Selections = selections
	p.Version++

	return &SubmissionResult{Status: newStatus, EventKind: eventKind}, nil
}

func selectionDates(selections []domain.Selection) []string {
	seen := make(map[string]bool, len(selections))
	dates := make([]string, 0, len(selections))
	for _, sel := range selections {
		key := dateKey(sel.Date)
		if !seen[key] {
			seen[key] = true
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)
	return dates
}
