package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// HANDLER (admin → pacientes)
// ======================================================

type PatientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPatientHandler(db *gorm.DB, auditD *audit.Dispatcher) *PatientHandler {
	return &PatientHandler{db: db, audit: auditD}
}

type UpdatePatientRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Gender   string `json:"gender"`
	Status   *bool  `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *PatientHandler) List(c *gin.Context) {
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
		Model(&models.Patient{}).
		Joins("JOIN users ON users.id = patients.user_id")

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ?",
			like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "patient_count_failed", "Erro ao contar pacientes.")
		return
	}

	var patients []models.Patient
	if err := q.
		Preload("User").
		Order("users.full_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "patient_list_failed", "Erro ao listar pacientes.")
		return
	}

	c.JSON(200, gin.H{
		"page":     page,
		"limit":    limit,
		"total":    total,
		"patients": patients,
	})
}

// ======================================================
// UPDATE (inclui ativar/bloquear)
// ======================================================

func (h *PatientHandler) Update(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var patient models.Patient
	if err := h.db.Preload("User").First(&patient, patientID).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Paciente não encontrado.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", patient.UserID).
		Updates(map[string]any{
			"full_name": req.FullName,
			"gender":    req.Gender,
		}).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}

	patient.Status = *req.Status

	if err := h.db.Save(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_update_patient", "Erro ao atualizar paciente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "patient_updated",
		Entity:   "patient",
		EntityID: &patient.ID,
	})

	c.JSON(200, gin.H{"message": "Paciente atualizado."})
}
