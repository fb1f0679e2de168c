package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER (fila do médico)
// ======================================================

type DoctorAppointmentHandler struct {
	db *gorm.DB

	updateStatusUC *ucAppointment.UpdateAppointmentStatus
}

func NewDoctorAppointmentHandler(
	db *gorm.DB,
	updateStatusUC *ucAppointment.UpdateAppointmentStatus,
) *DoctorAppointmentHandler {
	return &DoctorAppointmentHandler{
		db:             db,
		updateStatusUC: updateStatusUC,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *DoctorAppointmentHandler) List(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextProfileID).(uint)

	status := c.Query("status")
	search := c.Query("q")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	offset := (page - 1) * limit

	q := h.db.
		Model(&models.Appointment{}).
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Joins("JOIN users AS patient_users ON patient_users.id = patients.user_id").
		Where("appointments.doctor_id = ?", doctorID)

	if status != "" {
		q = q.Where("appointments.status = ?", status)
	}

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(patient_users.full_name) LIKE ? OR LOWER(appointments.description) LIKE ? OR LOWER(appointments.status) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "appointment_count_failed", "Erro ao contar consultas.")
		return
	}

	var rows []dto.DoctorAppointmentDTO
	if err := q.
		Select("appointments.id, appointments.appointment_date, appointments.description, appointments.status, patient_users.full_name AS patient_name").
		Order("appointments.appointment_date DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {

		httperr.Internal(c, "appointment_list_failed", "Erro ao listar consultas.")
		return
	}

	c.JSON(200, gin.H{
		"page":         page,
		"limit":        limit,
		"total":        total,
		"appointments": rows,
	})
}

// ======================================================
// UPDATE STATUS (triagem)
// ======================================================

func (h *DoctorAppointmentHandler) UpdateStatus(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextProfileID).(uint)

	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.updateStatusUC.Execute(
		c.Request.Context(),
		doctorID,
		uint(appointmentID),
		req.Status,
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":     "Status atualizado.",
		"appointment": ap,
	})
}
