package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// ======================================================
// HANDLER (admin → médicos)
// ======================================================

type DoctorHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewDoctorHandler(db *gorm.DB, auditD *audit.Dispatcher) *DoctorHandler {
	return &DoctorHandler{db: db, audit: auditD}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateDoctorRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Gender       string `json:"gender"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	SpecialistIn string `json:"specialist_in" binding:"required"`
	Status       *bool  `json:"status"`
}

type UpdateDoctorRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Gender       string `json:"gender"`
	Password     string `json:"password"` // opcional: troca a senha se enviado
	SpecialistIn string `json:"specialist_in" binding:"required"`
	Status       *bool  `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *DoctorHandler) List(c *gin.Context) {
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
		Model(&models.Doctor{}).
		Joins("JOIN users ON users.id = doctors.user_id")

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(doctors.specialist_in) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "doctor_count_failed", "Erro ao contar médicos.")
		return
	}

	var doctors []models.Doctor
	if err := q.
		Preload("User").
		Order("users.full_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&doctors).Error; err != nil {

		httperr.Internal(c, "doctor_list_failed", "Erro ao listar médicos.")
		return
	}

	c.JSON(200, gin.H{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"doctors": doctors,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "E-mail já cadastrado.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Gender:       req.Gender,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleDoctor,

		// criado pelo admin, não passa pela confirmação
		EmailConfirmed: true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}

	doctor := models.Doctor{
		UserID:       user.ID,
		SpecialistIn: req.SpecialistIn,
		Status:       status,
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_doctor", "Erro ao criar médico.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "doctor_created",
		Entity:   "doctor",
		EntityID: &doctor.ID,
	})

	doctor.User = user
	c.JSON(201, gin.H{"doctor": doctor})
}

// ======================================================
// UPDATE
// ======================================================

func (h *DoctorHandler) Update(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Preload("User").First(&doctor, doctorID).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
		return
	}

	updates := map[string]any{
		"full_name": req.FullName,
		"gender":    req.Gender,
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
			return
		}
		updates["password_hash"] = string(hashed)
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", doctor.UserID).
		Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}

	doctor.SpecialistIn = req.SpecialistIn
	doctor.Status = *req.Status

	if err := h.db.Save(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_doctor", "Erro ao atualizar médico.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "doctor_updated",
		Entity:   "doctor",
		EntityID: &doctor.ID,
	})

	c.JSON(200, gin.H{"message": "Médico atualizado."})
}

// ======================================================
// DELETE
// ======================================================

func (h *DoctorHandler) Delete(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
		return
	}

	// médico com consultas marcadas não pode ser excluído
	var count int64
	h.db.Model(&models.Appointment{}).Where("doctor_id = ?", doctor.ID).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "doctor_has_appointments", "Médico possui consultas marcadas e não pode ser excluído.")
		return
	}

	if err := h.db.Delete(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_doctor", "Erro ao excluir médico.")
		return
	}

	if err := h.db.Delete(&models.User{}, doctor.UserID).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Erro ao excluir usuário.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "doctor_deleted",
		Entity:   "doctor",
		EntityID: &doctor.ID,
	})

	c.JSON(200, gin.H{"message": "Médico excluído."})
}
