package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tokens"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	tokenStore := tokens.NewStore(tokens.NewClient(cfg))
	mail := mailer.New(cfg)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	bookAppointmentUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	editAppointmentUC := ucAppointment.NewEditAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(
		appointmentRepo,
		auditDispatcher,
	)

	eligibleDoctorsUC := ucAppointment.NewListEligibleDoctors(
		appointmentRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, tokenStore, mail)
	meHandler := handlers.NewMeHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		bookAppointmentUC,
		editAppointmentUC,
		cancelAppointmentUC,
		eligibleDoctorsUC,
	)

	doctorAppointmentHandler := handlers.NewDoctorAppointmentHandler(
		db,
		updateStatusUC,
	)

	doctorHandler := handlers.NewDoctorHandler(db, auditDispatcher)
	patientHandler := handlers.NewPatientHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/confirm-email", authHandler.ConfirmEmail)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)
		api.POST("/auth/resend-confirmation", authHandler.ResendConfirmation)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateProfile)
			secured.POST("/me/change-password", meHandler.ChangePassword)

			// ------------------------------
			// PACIENTE — consultas
			// ------------------------------
			patient := secured.Group("/appointments")
			patient.Use(middleware.RequireRole(models.RolePatient))
			{
				patient.GET("", appointmentHandler.List)
				patient.POST("", appointmentHandler.Create)
				patient.PUT("/:id", appointmentHandler.Edit)
				patient.DELETE("/:id", appointmentHandler.Delete)
				patient.GET("/doctors", appointmentHandler.EligibleDoctors)
			}

			// ------------------------------
			// MÉDICO — fila de consultas
			// ------------------------------
			doctor := secured.Group("/doctor/appointments")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.GET("", doctorAppointmentHandler.List)
				doctor.PATCH("/:id/status", doctorAppointmentHandler.UpdateStatus)
			}

			// ------------------------------
			// ADMIN — médicos / pacientes / audit
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/doctors", doctorHandler.List)
				admin.POST("/doctors", doctorHandler.Create)
				admin.PUT("/doctors/:id", doctorHandler.Update)
				admin.DELETE("/doctors/:id", doctorHandler.Delete)

				admin.GET("/patients", patientHandler.List)
				admin.PUT("/patients/:id", patientHandler.Update)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
