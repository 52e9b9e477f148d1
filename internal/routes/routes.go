package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/config"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/handlers"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/middleware"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) {
	booker := scheduling.NewBooker(scheduling.NewGormStore(db), logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db, booker)
	appointmentHandler := handlers.NewAppointmentHandler(db, booker)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Patient listing for doctors and admins (checked in handler)
			userRoutes.GET("/patients", userHandler.GetPatients)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Doctor profile and availability routes
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.PUT("/profile", middleware.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.UpdateDoctorProfile)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.GET("/:id/slots", doctorHandler.GetDoctorSlots)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Patients book for themselves
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			// All authenticated users get their own appointments (role scoping in handler)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			// Specific appointment access (involved parties or admin, checked in handler)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Role-gated field updates (authorization inside the lifecycle manager)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)

			// Soft cancellation by the owning patient or an admin
			appointmentRoutes.DELETE("/:id", appointmentHandler.CancelAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
