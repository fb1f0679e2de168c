package dto

import "time"

type PatientAppointmentDTO struct {
	ID              uint      `json:"id"`
	DoctorName      string    `json:"doctor_name"`
	AppointmentDate time.Time `json:"appointment_date"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
}

type DoctorAppointmentDTO struct {
	ID              uint      `json:"id"`
	PatientName     string    `json:"patient_name"`
	AppointmentDate time.Time `json:"appointment_date"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
}
