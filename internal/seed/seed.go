package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
	"github.com/vitalis-saude/macro-periodos/backend/internal/repository"
	"github.com/vitalis-saude/macro-periodos/backend/internal/utils"
)

var unitFixtures = []domain.Unit{
	{Name: "Hospital Central", City: "São Paulo", Shifts: domain.DefaultShiftConfig()},
	{Name: "UPA Zona Norte", City: "São Paulo", Shifts: domain.DefaultShiftConfig()},
	{Name: "Clínica Vida", City: "Campinas", Shifts: domain.DefaultShiftConfig()},
	{Name: "Hospital Regional", City: "Santos", Shifts: domain.ShiftConfig{
		Morning:   domain.ClockRange{Start: "07:00", End: "12:00"},
		Afternoon: domain.ClockRange{Start: "13:00", End: "19:00"},
	}},
	{Name: "Policlínica Bela Vista", City: "Sorocaba", Shifts: domain.DefaultShiftConfig()},
}

var doctorFixtures = []domain.Doctor{
	{Name: "Ana Carolina Souza", Email: "ana.souza@example.com.br", CRM: "CRM/SP 123456", Active: true},
	{Name: "Bruno Lima", Email: "bruno.lima@example.com.br", CRM: "CRM/SP 234567", Active: true},
	{Name: "Carla Mendes", Email: "carla.mendes@example.com.br", CRM: "CRM/SP 345678", Active: true},
	{Name: "Diego Ferreira", Email: "diego.ferreira@example.com.br", CRM: "CRM/SP 456789", Active: true},
	{Name: "Elisa Rocha", Email: "elisa.rocha@example.com.br", CRM: "CRM/SP 567890", Active: false},
}

// SeedUnits insere as unidades de exemplo, ignorando as que já existirem.
func SeedUnits(repo *repository.Repository) {
	cnt := 0
	for i := range unitFixtures {
		unit := unitFixtures[i]
		if err := repo.CreateUnit(&unit); err != nil {
			slog.Error("não foi possível inserir a unidade", "name", unit.Name, "error", err)
			continue
		}
		cnt++
	}
	slog.Info("unidades inseridas com sucesso", "count", cnt)
}

// SeedDoctors insere os médicos de exemplo, ignorando os que já existirem.
func SeedDoctors(repo *repository.Repository) {
	cnt := 0
	for i := range doctorFixtures {
		doctor := doctorFixtures[i]
		if err := repo.CreateDoctor(&doctor); err != nil {
			slog.Error("não foi possível inserir o médico", "name", doctor.Name, "error", err)
			continue
		}
		cnt++
	}
	slog.Info("médicos inseridos com sucesso", "count", cnt)
}

// SeedMacroPeriods cria n macro períodos aleatórios usando os médicos ativos e
// as unidades já cadastrados.
func SeedMacroPeriods(repo *repository.Repository, n int) {
	doctors, err := repo.GetAllDoctors(true)
	if err != nil {
		slog.Error("não foi possível listar os médicos", "error", err)
		return
	}
	if len(doctors) == 0 {
		slog.Error("nenhum médico ativo cadastrado, rode a operação de médicos antes")
		return
	}

	units, err := repo.GetAllUnits()
	if err != nil {
		slog.Error("não foi possível listar as unidades", "error", err)
		return
	}
	if len(units) == 0 {
		slog.Error("nenhuma unidade cadastrada, rode a operação de unidades antes")
		return
	}

	priorities := []domain.Priority{domain.PriorityBaixa, domain.PriorityNormal, domain.PriorityAlta, domain.PriorityUrgente}

	cnt := 0
	for i := 0; i < n; i++ {
		doctor := doctors[rand.Intn(len(doctors))]

		startDate := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, rand.Intn(30))
		endDate := startDate.AddDate(0, 0, 14+rand.Intn(14))
		deadline := startDate.AddDate(0, 0, -2)

		// de uma a três unidades por período
		totalUnits := 1 + rand.Intn(min(3, len(units)))
		picked := rand.Perm(len(units))[:totalUnits]
		allocations := make([]domain.UnitAllocation, 0, totalUnits)
		for _, idx := range picked {
			allocations = append(allocations, domain.UnitAllocation{
				UnitID:    units[idx].ID,
				TotalDays: int32(1 + rand.Intn(4)),
			})
		}

		token, err := utils.GeneratePublicToken()
		if err != nil {
			slog.Error("não foi possível gerar o token público", "error", err)
			continue
		}

		p, err := domain.NewMacroPeriod(doctor.ID, startDate, endDate, priorities[rand.Intn(len(priorities))], &deadline, "seed", token, allocations)
		if err != nil {
			slog.Error("não foi possível montar o macro período", "error", err)
			continue
		}

		event := &domain.AuditEvent{
			Kind:      domain.EventCreated,
			CreatedBy: "seed",
			Payload: map[string]any{
				"priority":    string(p.Priority),
				"total_units": len(p.Allocations),
			},
		}

		if err := repo.CreateMacroPeriod(p, event); err != nil {
			slog.Error("não foi possível inserir o macro período", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("macro períodos inseridos com sucesso", "count", cnt)
}
