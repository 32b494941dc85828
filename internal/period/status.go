package period

import (
	"fmt"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

// Action é uma transição administrativa sobre o status de um macro período.
type Action string

const (
	ActionUnlock  Action = "unlock"
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// LockedError indica que o status atual não permite a operação.
type LockedError struct {
	Status domain.MacroPeriodStatus
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("o período está bloqueado para edição (status atual: %s)", e.Status)
}

// Transition é o único lugar que define a tabela de transições de status.
// Todo caminho que altera o status de um macro período passa por aqui.
func Transition(current domain.MacroPeriodStatus, action Action) (domain.MacroPeriodStatus, error) {
	switch action {
	case ActionUnlock:
		if current == domain.StatusRespondido || current == domain.StatusConfirmado {
			return domain.StatusEdicaoLiberada, nil
		}
	case ActionConfirm:
		if current == domain.StatusRespondido || current == domain.StatusEdicaoLiberada {
			return domain.StatusConfirmado, nil
		}
	case ActionCancel:
		// cancelamento é incondicional
		return domain.StatusCancelado, nil
	default:
		return "", fmt.Errorf("ação %q desconhecida", action)
	}

	return "", &LockedError{Status: current}
}

// EventForAction devolve o tipo de evento de auditoria de cada transição.
func EventForAction(action Action) domain.EventKind {
	switch action {
	case ActionUnlock:
		return domain.EventUnlocked
	case ActionConfirm:
		return domain.EventConfirmed
	default:
		return domain.EventCancelled
	}
}

// CanDoctorEdit indica se a submissão do médico é aceita no status atual.
func CanDoctorEdit(status domain.MacroPeriodStatus) bool {
	return status == domain.StatusAguardando || status == domain.StatusEdicaoLiberada
}

// CanAdminEditAllocations indica se o administrador pode trocar o conjunto de
// unidades do período. Fora de AGUARDANDO a troca exige o fluxo de evidência.
func CanAdminEditAllocations(status domain.MacroPeriodStatus) bool {
	return status == domain.StatusAguardando
}
