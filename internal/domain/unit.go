package domain

import "time"

// ShiftConfig define os horários padrão de manhã e tarde de uma unidade.
type ShiftConfig struct {
	Morning   ClockRange `json:"morning"`
	Afternoon ClockRange `json:"afternoon"`
}

func DefaultShiftConfig() ShiftConfig {
	return ShiftConfig{
		Morning:   ClockRange{Start: "08:00", End: "12:00"},
		Afternoon: ClockRange{Start: "13:00", End: "17:00"},
	}
}

type Unit struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	City      string      `json:"city"`
	Shifts    ShiftConfig `json:"shifts"`
	CreatedAt time.Time   `json:"createdAt"`
	Version   int32       `json:"-"`
}
