package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func seedEdit(repo *fakeRepo) *models.Appointment {
	seedBooking(repo)
	ap := &models.Appointment{
		ID:              7,
		PatientID:       1,
		DoctorID:        2,
		AppointmentDate: time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
		Status:          string(domain.StatusPending),
	}
	repo.appointments[ap.ID] = ap
	return ap
}

func newEditUC(repo *fakeRepo) *EditAppointment {
	uc := NewEditAppointment(repo, nil)
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestEditAppointment_Success(t *testing.T) {
	repo := newFakeRepo()
	ap := seedEdit(repo)
	uc := newEditUC(repo)

	newSlot := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	got, err := uc.Execute(context.Background(), EditAppointmentInput{
		AppointmentID: ap.ID,
		PatientID:     1,
		DoctorID:      2,
		DateTime:      newSlot,
		Description:   "Retorno",
		Status:        "Confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, newSlot, got.AppointmentDate)
	assert.Equal(t, "Retorno", got.Description)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	require.NotNil(t, repo.updated)
}

func TestEditAppointment_NotOwner(t *testing.T) {
	repo := newFakeRepo()
	ap := seedEdit(repo)
	uc := newEditUC(repo)

	_, err := uc.Execute(context.Background(), EditAppointmentInput{
		AppointmentID: ap.ID,
		PatientID:     99,
		DoctorID:      2,
		DateTime:      time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		Status:        "Pending",
	})
	assert.True(t, httperr.IsBusiness(err, "not_appointment_owner"))
	assert.Nil(t, repo.updated)
}

func TestEditAppointment_NotFound(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo)
	uc := newEditUC(repo)

	_, err := uc.Execute(context.Background(), EditAppointmentInput{
		AppointmentID: 123,
		PatientID:     1,
		DoctorID:      2,
		DateTime:      time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		Status:        "Pending",
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestEditAppointment_InvalidStatus(t *testing.T) {
	repo := newFakeRepo()
	ap := seedEdit(repo)
	uc := newEditUC(repo)

	_, err := uc.Execute(context.Background(), EditAppointmentInput{
		AppointmentID: ap.ID,
		PatientID:     1,
		DoctorID:      2,
		DateTime:      time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		Status:        "Done",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestEditAppointment_SameDoctorSameDate(t *testing.T) {
	repo := newFakeRepo()
	ap := seedEdit(repo)
	repo.sameDoctorOnDate = true
	uc := newEditUC(repo)

	_, err := uc.Execute(context.Background(), EditAppointmentInput{
		AppointmentID: ap.ID,
		PatientID:     1,
		DoctorID:      2,
		DateTime:      time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		Status:        "Pending",
	})

	ve, ok := httperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Esta consulta já existe.", ve.Fields[domain.FieldAppointmentDate])
	assert.Nil(t, repo.updated)
}
