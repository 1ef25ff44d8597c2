package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/audit"
	"github.com/navarro-barbers/agenda-api/internal/cache"
	"github.com/navarro-barbers/agenda-api/internal/config"
	"github.com/navarro-barbers/agenda-api/internal/handlers"
	infraRepo "github.com/navarro-barbers/agenda-api/internal/infra/repository"
	"github.com/navarro-barbers/agenda-api/internal/middleware"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
	ucAppointment "github.com/navarro-barbers/agenda-api/internal/usecase/appointment"
)

type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Config    *config.Config
	Logger    *zap.Logger
	NotifyCfg *notify.Config
	Sender    notify.Sender
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewAppointmentGormRepository(deps.DB)

	availabilityCache := cache.NewAvailabilityCache(
		deps.Redis,
		deps.Config.AvailabilityCacheTTL,
		deps.Logger,
	)

	auditLogger := audit.New(deps.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger, deps.Logger)

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(repo, availabilityCache)
	bookUC := ucAppointment.NewBook(repo, availabilityCache, deps.Sender, auditDispatcher)
	rescheduleUC := ucAppointment.NewReschedule(repo, availabilityCache, auditDispatcher)
	cancelUC := ucAppointment.NewCancel(repo, availabilityCache, auditDispatcher)
	completeUC := ucAppointment.NewComplete(repo, auditDispatcher)
	listUC := ucAppointment.NewListAppointments(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Config)
	userHandler := handlers.NewUserHandler(deps.DB)
	barberHandler := handlers.NewBarberHandler(deps.DB)
	serviceHandler := handlers.NewServiceHandler(deps.DB)
	businessHandler := handlers.NewBusinessHandler(deps.DB, deps.NotifyCfg)
	availabilityHandler := handlers.NewAvailabilityHandler(getAvailabilityUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		rescheduleUC,
		cancelUC,
		completeUC,
		listUC,
	)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		api.GET("/barbers", barberHandler.List)
		api.GET("/services", serviceHandler.List)
		api.GET("/availability/:barberId", availabilityHandler.Get)
		api.POST("/appointments", appointmentHandler.Create)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Config))
		{
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/barber/:barberId", appointmentHandler.ListByBarber)
			secured.PATCH("/appointments/:id", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			admin := secured.Group("/")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.PATCH("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)

				admin.POST("/services", serviceHandler.Create)
				admin.PATCH("/services/:id", serviceHandler.Update)

				admin.GET("/business", businessHandler.List)
				admin.PUT("/business", businessHandler.Update)
			}
		}
	}
}
