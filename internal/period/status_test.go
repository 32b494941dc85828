package period

import (
	"errors"
	"testing"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name    string
		current domain.MacroPeriodStatus
		action  Action
		want    domain.MacroPeriodStatus
		wantErr bool
	}{
		{"unlock de respondido", domain.StatusRespondido, ActionUnlock, domain.StatusEdicaoLiberada, false},
		{"unlock de confirmado", domain.StatusConfirmado, ActionUnlock, domain.StatusEdicaoLiberada, false},
		{"unlock de aguardando é conflito", domain.StatusAguardando, ActionUnlock, "", true},
		{"unlock de cancelado é conflito", domain.StatusCancelado, ActionUnlock, "", true},
		{"confirm de respondido", domain.StatusRespondido, ActionConfirm, domain.StatusConfirmado, false},
		{"confirm de edição liberada", domain.StatusEdicaoLiberada, ActionConfirm, domain.StatusConfirmado, false},
		{"confirm de aguardando é conflito", domain.StatusAguardando, ActionConfirm, "", true},
		{"cancel é incondicional", domain.StatusAguardando, ActionCancel, domain.StatusCancelado, false},
		{"cancel de confirmado", domain.StatusConfirmado, ActionCancel, domain.StatusCancelado, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.current, tc.action)
			if tc.wantErr {
				if err == nil {
					t.Fatal("transição deveria ser rejeitada")
				}
				var lockedErr *LockedError
				if !errors.As(err, &lockedErr) {
					t.Fatalf("erro deveria ser LockedError, veio: %v", err)
				}
				if lockedErr.Status != tc.current {
					t.Errorf("LockedError deveria carregar o status atual %s, veio %s", tc.current, lockedErr.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("transição deveria ser aceita: %v", err)
			}
			if got != tc.want {
				t.Errorf("esperava status %s, veio %s", tc.want, got)
			}
		})
	}
}

func TestTransition_AcaoDesconhecida(t *testing.T) {
	if _, err := Transition(domain.StatusAguardando, Action("explode")); err == nil {
		t.Fatal("ação desconhecida deveria ser rejeitada")
	}
}

func TestCanDoctorEdit(t *testing.T) {
	editable := map[domain.MacroPeriodStatus]bool{
		domain.StatusAguardando:     true,
		domain.StatusEdicaoLiberada: true,
		domain.StatusRespondido:     false,
		domain.StatusConfirmado:     false,
		domain.StatusCancelado:      false,
		domain.StatusExpirado:       false,
	}

	for status, want := range editable {
		if got := CanDoctorEdit(status); got != want {
			t.Errorf("CanDoctorEdit(%s) = %v, esperava %v", status, got, want)
		}
	}
}

func TestCanAdminEditAllocations(t *testing.T) {
	if !CanAdminEditAllocations(domain.StatusAguardando) {
		t.Error("edição administrativa deveria ser permitida em AGUARDANDO")
	}
	for _, status := range []domain.MacroPeriodStatus{domain.StatusRespondido, domain.StatusEdicaoLiberada, domain.StatusConfirmado, domain.StatusCancelado} {
		if CanAdminEditAllocations(status) {
			t.Errorf("edição administrativa não deveria ser permitida em %s", status)
		}
	}
}

func TestEventForAction(t *testing.T) {
	if EventForAction(ActionUnlock) != domain.EventUnlocked {
		t.Error("unlock deveria gerar evento UNLOCKED")
	}
	if EventForAction(ActionConfirm) != domain.EventConfirmed {
		t.Error("confirm deveria gerar evento CONFIRMED")
	}
	if EventForAction(ActionCancel) != domain.EventCancelled {
		t.Error("cancel deveria gerar evento CANCELLED")
	}
}
