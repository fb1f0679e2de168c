package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `gorm:"uniqueIndex:idx_patient_doctor_slot;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	DoctorID uint   `gorm:"uniqueIndex:idx_patient_doctor_slot;not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	// Índice único fecha a janela de corrida entre validação e INSERT:
	// duas requisições simultâneas não conseguem gravar o mesmo slot.
	AppointmentDate time.Time `gorm:"uniqueIndex:idx_patient_doctor_slot;not null" json:"appointment_date"`

	Description string `gorm:"size:255" json:"description"`

	Status string `gorm:"size:20;default:'Pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
