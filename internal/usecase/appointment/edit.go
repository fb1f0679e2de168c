package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type EditAppointmentInput struct {
	AppointmentID uint
	PatientID     uint // quem está pedindo a edição

	DoctorID    uint
	DateTime    time.Time
	Description string
	Status      string
}

// ======================================================
// USE CASE
// ======================================================

type EditAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewEditAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EditAppointment {
	return &EditAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *EditAppointment) Execute(
	ctx context.Context,
	in EditAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	// só o paciente dono pode editar
	if ap.PatientID != in.PatientID {
		return nil, httperr.ErrBusiness("not_appointment_owner")
	}

	status, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if !doctor.Status {
		return nil, httperr.ErrBusiness("doctor_inactive")
	}

	cand := domain.Candidate{
		PatientID:   ap.PatientID,
		DoctorID:    doctor.ID,
		DateTime:    in.DateTime,
		Description: in.Description,
		ExcludeID:   ap.ID,
	}

	res, err := domain.ValidateEdit(ctx, uc.repo, cand, uc.now())
	if err != nil {
		return nil, err
	}
	if !res.Accepted() {
		return nil, httperr.ErrValidation(res.Errors)
	}

	ap.DoctorID = doctor.ID
	ap.AppointmentDate = in.DateTime
	ap.Description = in.Description
	ap.Status = string(status)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
