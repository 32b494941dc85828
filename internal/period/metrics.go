package period

import (
	"math"
	"sort"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

// urgentAfterDays marca como urgente um período aguardando há pelo menos este
// número de dias.
const urgentAfterDays = 3

// DaysOpen devolve há quantos dias o período aguarda resposta, ou nil se o
// período já saiu de AGUARDANDO.
func DaysOpen(p *domain.MacroPeriod, clock Clock) *int {
	if p.Status != domain.StatusAguardando {
		return nil
	}
	days := int(clock.Now().Sub(p.CreatedAt).Hours() / 24)
	return &days
}

// TimeToResponse devolve quantos dias o médico levou para responder, ou nil se
// ainda não houve resposta.
func TimeToResponse(p *domain.MacroPeriod) *int {
	if p.RespondedAt == nil {
		return nil
	}
	days := int(p.RespondedAt.Sub(p.CreatedAt).Hours() / 24)
	return &days
}

type DashboardTotals struct {
	Total          int `json:"total"`
	Aguardando     int `json:"aguardando"`
	Respondido     int `json:"respondido"`
	EdicaoLiberada int `json:"edicaoLiberada"`
	Confirmado     int `json:"confirmado"`
	Cancelado      int `json:"cancelado"`
	Urgentes       int `json:"urgentes"`
}

type DashboardMetrics struct {
	ResponseRate     float64 `json:"taxaResposta"`
	MeanResponseDays float64 `json:"tempoMedioResposta"`
}

type WeeklyTrendEntry struct {
	Period string `json:"periodo"`
	Total  int    `json:"total"`
}

type DoctorAnalysis struct {
	DoctorID          int64    `json:"doctorID"`
	DoctorName        string   `json:"doctorName"`
	TotalRequests     int      `json:"totalSolicitacoes"`
	TotalResponded    int      `json:"totalRespondidas"`
	ResponseRate      float64  `json:"taxaResposta"`
	MeanResponseDays  *float64 `json:"tempoMedioResposta"`
	Waiting           int      `json:"aguardando"`
	Urgent            int      `json:"urgentes"`
	LastResponse      *string  `json:"ultimaResposta"`
	DaysSinceResponse *int     `json:"diasDesdeUltimaResposta"`
}

type Dashboard struct {
	Totals      DashboardTotals  `json:"totais"`
	Metrics     DashboardMetrics `json:"metricas"`
	WeeklyTrend []WeeklyTrendEntry `json:"tendenciaSemanal"`
	ByDoctor    []DoctorAnalysis `json:"analisePorMedico"`
}

// BuildDashboard agrega métricas sobre os períodos criados dentro da janela
// analisada. Recebe os agregados já carregados para permanecer puro.
func BuildDashboard(periods []*domain.MacroPeriod, clock Clock, windowEnd time.Time) *Dashboard {
	d := &Dashboard{}
	now := clock.Now()

	var responseDaysSum float64
	var responded int

	for _, p := range periods {
		d.Totals.Total++
		switch p.Status {
		case domain.StatusAguardando:
			d.Totals.Aguardando++
			if int(now.Sub(p.CreatedAt).Hours()/24) >= urgentAfterDays {
				d.Totals.Urgentes++
			}
		case domain.StatusRespondido:
			d.Totals.Respondido++
		case domain.StatusEdicaoLiberada:
			d.Totals.EdicaoLiberada++
		case domain.StatusConfirmado:
			d.Totals.Confirmado++
		case domain.StatusCancelado:
			d.Totals.Cancelado++
		}

		if p.RespondedAt != nil {
			responded++
			responseDaysSum += p.RespondedAt.Sub(p.CreatedAt).Hours() / 24
		}
	}

	answered := d.Totals.Respondido + d.Totals.Confirmado + d.Totals.EdicaoLiberada
	if d.Totals.Total > 0 {
		d.Metrics.ResponseRate = round1(float64(answered) / float64(d.Totals.Total) * 100)
	}
	if responded > 0 {
		d.Metrics.MeanResponseDays = round1(responseDaysSum / float64(responded))
	}

	d.WeeklyTrend = weeklyTrend(periods, windowEnd)
	d.ByDoctor = analyzeByDoctor(periods, now)

	return d
}

func weeklyTrend(periods []*domain.MacroPeriod, windowEnd time.Time) []WeeklyTrendEntry {
	trend := make([]WeeklyTrendEntry, 0, 4)
	for i := 3; i >= 0; i-- {
		weekEnd := civilDate(windowEnd).AddDate(0, 0, -i*7)
		weekStart := weekEnd.AddDate(0, 0, -6)

		count := 0
		for _, p := range periods {
			created := civilDate(p.CreatedAt)
			if !created.Before(weekStart) && !created.After(weekEnd) {
				count++
			}
		}

		trend = append(trend, WeeklyTrendEntry{
			Period: weekStart.Format("02/01") + " - " + weekEnd.Format("02/01"),
			Total:  count,
		})
	}
	return trend
}

func analyzeByDoctor(periods []*domain.MacroPeriod, now time.Time) []DoctorAnalysis {
	byDoctor := make(map[int64][]*domain.MacroPeriod)
	for _, p := range periods {
		byDoctor[p.DoctorID] = append(byDoctor[p.DoctorID], p)
	}

	analyses := make([]DoctorAnalysis, 0, len(byDoctor))
	for doctorID, ps := range byDoctor {
		a := DoctorAnalysis{DoctorID: doctorID, DoctorName: ps[0].DoctorName, TotalRequests: len(ps)}

		var responseDaysSum float64
		var lastResponse *time.Time
		for _, p := range ps {
			if p.RespondedAt != nil {
				a.TotalResponded++
				responseDaysSum += p.RespondedAt.Sub(p.CreatedAt).Hours() / 24
				if lastResponse == nil || p.RespondedAt.After(*lastResponse) {
					lastResponse = p.RespondedAt
				}
			}
			if p.Status == domain.StatusAguardando {
				a.Waiting++
				if int(now.Sub(p.CreatedAt).Hours()/24) >= urgentAfterDays {
					a.Urgent++
				}
			}
		}

		a.ResponseRate = round1(float64(a.TotalResponded) / float64(a.TotalRequests) * 100)
		if a.TotalResponded > 0 {
			mean := round1(responseDaysSum / float64(a.TotalResponded))
			a.MeanResponseDays = &mean
		}
		if lastResponse != nil {
			formatted := lastResponse.Format(time.RFC3339)
			a.LastResponse = &formatted
			days := int(now.Sub(*lastResponse).Hours() / 24)
			a.DaysSinceResponse = &days
		}

		analyses = append(analyses, a)
	}

	// médicos com mais pendências urgentes primeiro
	sort.Slice(analyses, func(i, j int) bool {
		if analyses[i].Urgent != analyses[j].Urgent {
			return analyses[i].Urgent > analyses[j].Urgent
		}
		if analyses[i].Waiting != analyses[j].Waiting {
			return analyses[i].Waiting > analyses[j].Waiting
		}
		return analyses[i].DoctorID < analyses[j].DoctorID
	})

	return analyses
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
