package domain

import "testing"

func TestNewSlot(t *testing.T) {
	for _, kind := range []SlotKind{SlotFullDay, SlotMorning, SlotAfternoon} {
		slot, err := NewSlot(kind)
		if err != nil {
			t.Errorf("NewSlot(%s) deveria funcionar: %v", kind, err)
		}
		if slot.Custom != nil {
			t.Errorf("turno %s não deveria carregar horários", kind)
		}
	}
}

func TestNewSlot_CustomExigeHorarios(t *testing.T) {
	if _, err := NewSlot(SlotCustom); err == nil {
		t.Fatal("CUSTOM sem horários deveria ser rejeitado")
	}
	if _, err := NewSlot("NOITE"); err == nil {
		t.Fatal("turno desconhecido deveria ser rejeitado")
	}
}

func TestNewCustomSlot(t *testing.T) {
	slot, err := NewCustomSlot("08:30", "11:00")
	if err != nil {
		t.Fatalf("intervalo válido deveria funcionar: %v", err)
	}
	if slot.Kind != SlotCustom || slot.Custom == nil {
		t.Fatal("o construtor deveria produzir a variante CUSTOM com o intervalo")
	}
	if slot.Custom.Start != "08:30" || slot.Custom.End != "11:00" {
		t.Errorf("intervalo preservado incorretamente: %+v", slot.Custom)
	}
}

func TestNewCustomSlot_Invalido(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"horário inicial inválido", "8h", "11:00"},
		{"horário final inválido", "08:00", "25:00"},
		{"fim antes do início", "14:00", "12:00"},
		{"fim igual ao início", "14:00", "14:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCustomSlot(tc.start, tc.end); err == nil {
				t.Errorf("NewCustomSlot(%q, %q) deveria ser rejeitado", tc.start, tc.end)
			}
		})
	}
}
