package handler

import (
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/config"
	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/repository"
)

type MailPublisher interface {
	Publish(msg domain.MailMessage) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailQueue   MailPublisher
	redisClient *redis.Client
	rateLimiter *RateLimiter
	proxies     []netip.Prefix
	engine      *availability.Engine

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailQueue MailPublisher, rdb *redis.Client, engine *availability.Engine) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	proxies, err := cfg.TrustedProxies()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailQueue:   mailQueue,
		redisClient: rdb,
		rateLimiter: NewRateLimiter(rdb, cfg.RateLimit.BookingsPerWindow, secondsToDuration(cfg.RateLimit.WindowSeconds), "rl:bookings"),
		engine:      engine,
		proxies:     proxies,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// customer booking flow
	h.Mux.Get("/services", h.GetActiveServices)
	h.Mux.Get("/availability", h.GetAvailability)
	h.Mux.Route("/bookings", func(r chi.Router) {
		r.With(h.rateLimit).Post("/", h.CreateBooking)
		r.Get("/{reference}", h.GetBookingByReference)
	})

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	ownerOnly := h.RequiredRole([]domain.Role{domain.RoleOwner})

	h.Mux.Route("/admin", func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/admins", func(r chi.Router) {
			r.Use(ownerOnly)
			r.Post("/", h.CreateAdmin)
			r.Get("/", h.GetAllAdmins)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.adminInfo)
				r.Get("/", h.GetAdmin)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateAdmin)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteAdmin)
				r.Patch("/password", h.UpdateAdminPassword)
			})
		})

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.GetAllWorkers)
			r.With(ownerOnly).Post("/", h.CreateWorker)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.worker)
				r.Get("/", h.GetWorker)
				r.With(ownerOnly).Patch("/", h.UpdateWorker)
				r.With(ownerOnly).Delete("/", h.DeleteWorker)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.GetAllServices)
			r.With(ownerOnly).Post("/", h.CreateService)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.service)
				r.Get("/", h.GetService)
				r.With(ownerOnly).Patch("/", h.UpdateService)
				r.With(ownerOnly).Delete("/", h.DeleteService)
			})
		})

		r.Route("/category-restrictions", func(r chi.Router) {
			r.Get("/", h.GetAllCategoryRestrictions)
			r.With(ownerOnly).Put("/{category}", h.ReplaceCategoryRestriction)
		})

		r.Route("/day-off-rules", func(r chi.Router) {
			r.Get("/", h.GetAllDayOffRules)
			r.With(ownerOnly).Post("/", h.CreateDayOffRule)
			r.With(ownerOnly).Delete("/{id}", h.DeleteDayOffRule)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.GetBookings)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.booking)
				r.Get("/", h.GetBooking)
				r.Patch("/status", h.UpdateBookingStatus)
			})
		})

		r.Get("/audit-logs", h.GetAuditLogs)
	})
}
