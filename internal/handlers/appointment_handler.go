package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER (rotas do paciente)
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	bookUC     *ucAppointment.BookAppointment
	editUC     *ucAppointment.EditAppointment
	cancelUC   *ucAppointment.CancelAppointment
	eligibleUC *ucAppointment.ListEligibleDoctors
}

func NewAppointmentHandler(
	db *gorm.DB,
	bookUC *ucAppointment.BookAppointment,
	editUC *ucAppointment.EditAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	eligibleUC *ucAppointment.ListEligibleDoctors,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		bookUC:     bookUC,
		editUC:     editUC,
		cancelUC:   cancelUC,
		eligibleUC: eligibleUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Description string `json:"description"`
}

type EditAppointmentRequest struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextProfileID).(uint)

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
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Joins("JOIN users AS doctor_users ON doctor_users.id = doctors.user_id").
		Where("appointments.patient_id = ?", patientID)

	if status != "" {
		q = q.Where("appointments.status = ?", status)
	}

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(doctor_users.full_name) LIKE ? OR LOWER(appointments.description) LIKE ? OR LOWER(appointments.status) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "appointment_count_failed", "Erro ao contar consultas.")
		return
	}

	var rows []dto.PatientAppointmentDTO
	if err := q.
		Select("appointments.id, appointments.appointment_date, appointments.description, appointments.status, doctor_users.full_name AS doctor_name").
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
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextProfileID).(uint)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	dateTime, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		PatientID:   patientID,
		DoctorID:    req.DoctorID,
		DateTime:    dateTime,
		Description: req.Description,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message":     "Consulta agendada com sucesso.",
		"appointment": ap,
	})
}

// ======================================================
// EDIT
// ======================================================

func (h *AppointmentHandler) Edit(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextProfileID).(uint)

	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	dateTime, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.editUC.Execute(c.Request.Context(), ucAppointment.EditAppointmentInput{
		AppointmentID: uint(appointmentID),
		PatientID:     patientID,
		DoctorID:      req.DoctorID,
		DateTime:      dateTime,
		Description:   req.Description,
		Status:        req.Status,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message":     "Consulta atualizada com sucesso.",
		"appointment": ap,
	})
}

// ======================================================
// DELETE (cancelamento pelo paciente)
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextProfileID).(uint)

	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	if err := h.cancelUC.Execute(c.Request.Context(), patientID, uint(appointmentID)); err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Consulta excluída com sucesso."})
}

// ======================================================
// ELIGIBLE DOCTORS (dropdown)
// ======================================================

func (h *AppointmentHandler) EligibleDoctors(c *gin.Context) {
	day, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	var keepDoctorID uint
	if keepStr := c.Query("keep"); keepStr != "" {
		keep, err := strconv.ParseUint(keepStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
			return
		}
		keepDoctorID = uint(keep)
	}

	options, err := h.eligibleUC.Execute(c.Request.Context(), day, keepDoctorID)
	if err != nil {
		httperr.Internal(c, "doctor_list_failed", "Erro ao listar médicos.")
		return
	}

	httpresp.List(c, options)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func writeAppointmentError(c *gin.Context, err error) {
	if ve, ok := httperr.AsValidation(err); ok {
		httperr.WriteValidation(c, ve)
		return
	}

	switch {
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Consulta não encontrada.")
	case httperr.IsBusiness(err, "doctor_not_found"):
		httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
	case httperr.IsBusiness(err, "patient_not_found"):
		httperr.NotFound(c, "patient_not_found", "Paciente não encontrado.")
	case httperr.IsBusiness(err, "not_appointment_owner"):
		httperr.Forbidden(c, "not_appointment_owner", "A consulta não pertence a você.")
	case httperr.IsBusiness(err, "doctor_inactive"):
		httperr.BadRequest(c, "doctor_inactive", "Médico indisponível para agendamento.")
	case httperr.IsBusiness(err, "invalid_status"):
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
	default:
		httperr.Internal(c, "internal_error", "Erro interno.")
	}
}
