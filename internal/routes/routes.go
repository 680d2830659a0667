package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/auth"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/config"
	domainAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/appointment"
	domainBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/barber"
	domainReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/review"
	domainUser "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/domain/user"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/handlers"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/lock"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/infra/storage"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/logging"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/timezone"
	ucAccount "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/account"
	ucAppointment "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/appointment"
	ucBarber "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/barber"
	ucReview "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/review"
)

// Deps is everything the router needs from the outside. Clock, Logger,
// Objects and RateLimiter may be nil.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  timezone.Clock

	Appointments domainAppointment.Repository
	Barbers      domainBarber.Repository
	Reviews      domainReview.Repository
	Users        domainUser.Repository

	Audit       *audit.Dispatcher
	AuditReader audit.Reader
	Locker      lock.Locker
	Objects     storage.ObjectStore
	RateLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	clock := d.Clock
	if clock == nil {
		clock = timezone.SystemClock()
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// ======================================================
	// USE CASES
	// ======================================================
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	accounts := ucAccount.NewAccounts(d.Users, tokens, d.Audit, cfg.VerifyEmailDomain)

	createAppointmentUC := ucAppointment.NewCreateAppointment(d.Appointments, d.Audit, cfg.Timezone)
	getAppointmentUC := ucAppointment.NewGetAppointment(d.Appointments)
	listAppointmentsUC := ucAppointment.NewListAppointments(d.Appointments, cfg.Timezone)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(d.Appointments, d.Audit, cfg.Timezone)
	updateStatusUC := ucAppointment.NewUpdateStatus(d.Appointments, d.Audit, clock)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(d.Appointments, d.Audit, clock)

	profiles := ucBarber.NewProfiles(d.Barbers, d.Locker, d.Audit)
	uploadAvatarUC := ucBarber.NewUploadAvatar(d.Barbers, d.Objects, d.Audit)
	startServiceUC := ucBarber.NewStartService(d.Appointments, d.Locker, d.Audit, clock)
	finishServiceUC := ucBarber.NewFinishService(d.Appointments, d.Locker, d.Audit, clock)
	nextAvailableUC := ucBarber.NewNextAvailable(d.Appointments, clock)
	pendingQueueUC := ucBarber.NewPendingQueue(d.Appointments)
	toggleShopUC := ucBarber.NewToggleShop(d.Appointments, d.Audit)

	aggregator := ucReview.NewAggregator(d.Reviews, d.Locker)
	reviews := ucReview.NewReviews(d.Reviews, aggregator, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(accounts)
	userHandler := handlers.NewUserHandler(accounts)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
		updateAppointmentUC,
		updateStatusUC,
		cancelAppointmentUC,
	)

	barberHandler := handlers.NewBarberHandler(
		profiles,
		uploadAvatarUC,
		startServiceUC,
		finishServiceUC,
		nextAvailableUC,
		pendingQueueUC,
		toggleShopUC,
	)

	reviewHandler := handlers.NewReviewHandler(reviews)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditReader)

	authMW := middleware.AuthMiddleware(tokens, accounts)
	elevated := middleware.RequireElevated()

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		credentials := authGroup.Group("")
		if d.RateLimiter != nil {
			credentials.Use(middleware.RateLimit(d.RateLimiter))
		}
		credentials.POST("/register", authHandler.Register)
		credentials.POST("/login", authHandler.Login)
		credentials.POST("/refresh", authHandler.Refresh)

		authGroup.POST("/logout", authMW, authHandler.Logout)
		authGroup.GET("/me", authMW, authHandler.Me)
	}

	r.GET("/barbers", barberHandler.List)
	r.GET("/barbers/:id", barberHandler.Get)
	r.GET("/barbers/:id/next-available", barberHandler.NextAvailable)
	r.GET("/reviews/barber/:barberId", reviewHandler.ListByBarber)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	api := r.Group("/")
	api.Use(authMW)
	{
		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments", appointmentHandler.List)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PUT("/appointments/:id", appointmentHandler.Update)
		api.DELETE("/appointments/:id", appointmentHandler.Cancel)

		api.POST("/reviews", reviewHandler.Create)
		api.GET("/reviews/user/:userId", reviewHandler.ListByUser)
		api.PUT("/reviews/:id", reviewHandler.Update)
		api.DELETE("/reviews/:id", reviewHandler.Delete)
	}

	// ======================================================
	// BARBERS AND ADMINS
	// ======================================================
	staff := r.Group("/")
	staff.Use(authMW, elevated)
	{
		staff.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

		staff.POST("/barbers", barberHandler.Create)
		staff.PUT("/barbers/:id", barberHandler.Update)
		staff.DELETE("/barbers/:id", barberHandler.Delete)
		staff.POST("/barbers/:id/avatar", barberHandler.UploadAvatar)
		staff.POST("/barbers/:id/start-appointment", barberHandler.StartService)
		staff.PATCH("/barbers/:id/finish-appointment", barberHandler.FinishService)
		staff.GET("/barbers/:id/pending-queue", barberHandler.PendingQueue)
		staff.PATCH("/barbers/:id/toggle-status", barberHandler.ToggleShop)
		staff.POST("/barbers/:id/recompute-rating", reviewHandler.RecomputeRating)

		staff.GET("/users", userHandler.List)
		staff.PATCH("/users/:id/role", userHandler.SetRole)

		staff.GET("/audit-logs", auditLogsHandler.List)
	}
}
