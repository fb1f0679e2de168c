package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Patient / Doctor
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPatientByID(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&patient, id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *AppointmentGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&doctor, id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// --------------------------------------------------
// Appointment (CRUD)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Delete(ap).Error
}

// --------------------------------------------------
// ConflictLookup (consultas do motor de regras)
// --------------------------------------------------

func (r *AppointmentGormRepository) HasRecentWithDoctor(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	from time.Time,
	until time.Time,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"patient_id = ? AND doctor_id = ? AND appointment_date >= ? AND appointment_date < ?",
			patientID, doctorID, from, until,
		).
		Count(&count).Error

	return count > 0, err
}

func (r *AppointmentGormRepository) HasOtherDoctorOnDate(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	day time.Time,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"patient_id = ? AND doctor_id <> ? AND appointment_date >= ? AND appointment_date < ?",
			patientID, doctorID, day, day.AddDate(0, 0, 1),
		).
		Count(&count).Error

	return count > 0, err
}

func (r *AppointmentGormRepository) CountForDoctorOnDate(
	ctx context.Context,
	doctorID uint,
	day time.Time,
	excludeID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND appointment_date >= ? AND appointment_date < ?",
			doctorID, day, day.AddDate(0, 0, 1),
		)

	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *AppointmentGormRepository) HasExactSlot(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	at time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"patient_id = ? AND doctor_id = ? AND appointment_date = ?",
			patientID, doctorID, at,
		)

	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *AppointmentGormRepository) HasSameDoctorOnDate(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	day time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"patient_id = ? AND doctor_id = ? AND appointment_date >= ? AND appointment_date < ?",
			patientID, doctorID, day, day.AddDate(0, 0, 1),
		)

	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// --------------------------------------------------
// Eligibility
// --------------------------------------------------

// ListEligibleDoctors lista médicos ativos sem nenhuma consulta na
// data — filtro mais estrito que o limite de 10/dia do motor de
// regras, de propósito: o dropdown só oferece médicos totalmente
// livres, mantendo o médico já escolhido selecionável na edição.
func (r *AppointmentGormRepository) ListEligibleDoctors(
	ctx context.Context,
	day time.Time,
	keepDoctorID uint,
) ([]models.Doctor, error) {

	booked := r.db.
		Model(&models.Appointment{}).
		Select("doctor_id").
		Where(
			"appointment_date >= ? AND appointment_date < ?",
			day, day.AddDate(0, 0, 1),
		)

	var doctors []models.Doctor
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("doctors.status = ?", true).
		Where("doctors.id NOT IN (?) OR doctors.id = ?", booked, keepDoctorID).
		Order("users.full_name ASC").
		Find(&doctors).Error

	if err != nil {
		return nil, err
	}

	return doctors, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
