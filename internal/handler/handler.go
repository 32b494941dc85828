package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_br_translations "github.com/go-playground/validator/v10/translations/pt_BR"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/vitalis-saude/macro-periodos/backend/internal/config"
	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
	"github.com/vitalis-saude/macro-periodos/backend/internal/period"
	"github.com/vitalis-saude/macro-periodos/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	submitter   *period.Submitter
	clock       period.Clock

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)
	trans, _ := uni.GetTranslator("pt_BR")
	if err := pt_br_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	clock := period.SystemClock{}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		submitter:   period.NewSubmitter(repo, clock),
		clock:       clock,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// autenticação
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// superfície pública do médico, acessada pelo token do link
	h.Mux.Route("/public/macro-period/{token}", func(r chi.Router) {
		r.Use(h.publicMacroPeriod)
		r.Get("/", h.GetPublicMacroPeriod)
		r.Post("/response", h.SubmitDoctorResponse)
	})

	// as APIs abaixo exigem login
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdministrador}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.GetAllUnits)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Post("/", h.CreateUnit)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.unit)
				r.Get("/", h.GetUnit)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Patch("/", h.UpdateUnit)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Delete("/", h.DeleteUnit)
			})
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", h.GetAllDoctors)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Post("/", h.CreateDoctor)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.doctor)
				r.Get("/", h.GetDoctor)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Patch("/", h.UpdateDoctor)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Delete("/", h.DeleteDoctor)
			})
		})

		r.Route("/macro-periods", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdministrador})).Post("/", h.CreateMacroPeriod)
			r.Get("/", h.ListMacroPeriods)
			r.Get("/metrics/dashboard", h.GetDashboardMetrics)
			r.Post("/export-batch.csv", h.ExportMacroPeriodsBatchCSV)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.macroPeriod)
				r.Get("/", h.GetMacroPeriod)
				r.Get("/export.csv", h.ExportMacroPeriodCSV)
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdministrador}))
					r.Patch("/", h.UpdateMacroPeriodAllocations)
					r.Post("/unlock", h.UnlockMacroPeriod)
					r.Post("/confirm", h.ConfirmMacroPeriod)
					r.Post("/cancel", h.CancelMacroPeriod)
					r.Post("/enable-admin-edit", h.EnableAdminEdit)
					r.Post("/evidences", h.UploadAdminEditEvidence)
					r.Get("/evidences", h.GetAdminEditEvidences)
				})
			})
		})
	})
}
