package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/config"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/handlers"
	infraRepo "github.com/klinik/clinic-scheduler/internal/infra/repository"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	"github.com/klinik/clinic-scheduler/internal/timezone"
	ucAgent "github.com/klinik/clinic-scheduler/internal/usecase/agent"
	ucAppointment "github.com/klinik/clinic-scheduler/internal/usecase/appointment"
	ucPayment "github.com/klinik/clinic-scheduler/internal/usecase/payment"
	ucReport "github.com/klinik/clinic-scheduler/internal/usecase/report"
	ucSchedule "github.com/klinik/clinic-scheduler/internal/usecase/schedule"
)

// Deps are the process-wide singletons the routes are built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
	Audit    *audit.Dispatcher
	Locker   domain.SlotLocker
	Clock    timezone.Clock
	Location *time.Location
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	reportRepo := infraRepo.NewReportGormRepository(d.DB)
	agentRepo := infraRepo.NewAgentGormRepository(d.DB)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, d.Location)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, d.Locker, d.Audit, d.Clock, d.Location),
		ucAppointment.NewUpdateAppointment(appointmentRepo, d.Locker, d.Audit, d.Clock, d.Location),
		ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, d.Clock),
		ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit),
		ucAppointment.NewGetAppointment(appointmentRepo),
		listAppointmentsUC,
		ucAppointment.NewClientAppointments(appointmentRepo, listAppointmentsUC),
		ucAppointment.NewGetAvailability(appointmentRepo, d.Clock, d.Location),
		d.Location,
	)

	// ======================================================
	// USE CASES: SCHEDULE
	// ======================================================
	scheduleHandler := handlers.NewScheduleHandler(
		ucSchedule.NewGetSchedule(scheduleRepo),
		ucSchedule.NewSaveAvailability(scheduleRepo, d.Audit),
		ucSchedule.NewDeleteAvailability(scheduleRepo, d.Audit),
		ucSchedule.NewSaveHoliday(scheduleRepo, d.Audit),
		ucSchedule.NewDeleteHoliday(scheduleRepo, d.Audit),
	)

	// ======================================================
	// USE CASES: PAYMENTS & REPORTS
	// ======================================================
	paymentHandler := handlers.NewPaymentHandler(
		ucPayment.NewRecordPayment(paymentRepo, d.Audit, d.Clock),
		ucPayment.NewUpdateAmount(paymentRepo, d.Audit),
		ucPayment.NewRecalculate(paymentRepo, d.Audit),
		d.Location,
	)

	reportHandler := handlers.NewReportHandler(
		ucReport.NewGetPaymentSummary(reportRepo, d.Clock, d.Location),
		ucReport.NewGetMonthlySummary(reportRepo, d.Location),
		ucReport.NewListCommissions(reportRepo, ucReport.PartyExpert, d.Location),
		ucReport.NewListCommissions(reportRepo, ucReport.PartyAgent, d.Location),
		ucReport.NewGetAgentRevenue(reportRepo),
	)

	// ======================================================
	// USE CASES: AGENTS
	// ======================================================
	agentHandler := handlers.NewAgentHandler(
		ucAgent.NewListAgents(agentRepo),
		ucAgent.NewSetParent(agentRepo, d.Audit),
		ucAgent.NewAssignClient(agentRepo, d.Audit),
		ucAgent.NewListClients(agentRepo),
		ucAgent.NewRegisterClient(agentRepo, d.Audit, d.Config.DefaultPhoneRegion),
	)

	meHandler := handlers.NewMeHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB), d.Location)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/availability/slots", appointmentHandler.AvailableSlots)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret, agentRepo))
	{
		secured.GET("/me", meHandler.GetMe)
		secured.GET("/me/clients", agentHandler.MyClients)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.POST("/appointments", appointmentHandler.Create)
		secured.GET("/appointments", appointmentHandler.List)
		secured.GET("/appointments/:id", appointmentHandler.Get)
		secured.PATCH("/appointments/:id", appointmentHandler.Update)
		secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.POST("/appointments/:id/confirm", appointmentHandler.Confirm)
		secured.POST("/appointments/:id/payment", paymentHandler.Record)

		secured.GET("/clients/:id/appointments", appointmentHandler.ListForClient)
		secured.POST("/clients", agentHandler.RegisterClient)

		// ------------------------------
		// SCHEDULE
		// ------------------------------
		secured.GET("/experts/:id/schedule", scheduleHandler.Get)
		secured.POST("/experts/:id/availability", scheduleHandler.CreateAvailability)
		secured.PUT("/experts/:id/availability/:availabilityID", scheduleHandler.UpdateAvailability)
		secured.DELETE("/availability/:availabilityID", scheduleHandler.DeleteAvailability)
		secured.POST("/experts/:id/holidays", scheduleHandler.CreateHoliday)
		secured.PUT("/experts/:id/holidays/:holidayID", scheduleHandler.UpdateHoliday)
		secured.DELETE("/holidays/:holidayID", scheduleHandler.DeleteHoliday)

		// ------------------------------
		// PAYMENTS
		// ------------------------------
		secured.GET("/payments", reportHandler.PaymentSummary)
		secured.PATCH("/payments/:id", paymentHandler.UpdateAmount)
		secured.POST("/payments/:id/recalculate", paymentHandler.Recalculate)

		// ------------------------------
		// REPORTS
		// ------------------------------
		secured.GET("/reports/monthly", reportHandler.Monthly)
		secured.GET("/reports/expert-commissions", reportHandler.ExpertCommissions)
		secured.GET("/reports/agent-commissions", reportHandler.AgentCommissions)
		secured.GET("/reports/agent-revenue", reportHandler.AgentRevenue)

		// ------------------------------
		// AGENTS
		// ------------------------------
		secured.GET("/agents", agentHandler.List)
		secured.PUT("/agents/:id/parent", agentHandler.SetParent)
		secured.GET("/agents/:id/clients", agentHandler.Clients)
		secured.PUT("/agents/:id/clients/:clientID", agentHandler.AssignClient)
		secured.DELETE("/agents/:id/clients/:clientID", agentHandler.UnassignClient)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
