package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var _ domain.Repository = (*fakeRepo)(nil)

var errNotFound = errors.New("record not found")

// fakeRepo implementa domain.Repository em memória para os testes de
// use case. Os campos de conflito espelham o fakeLookup do pacote de
// domínio: cada consulta do motor devolve um valor fixo.
type fakeRepo struct {
	patients     map[uint]*models.Patient
	doctors      map[uint]*models.Doctor
	appointments map[uint]*models.Appointment

	recentWithDoctor  bool
	otherDoctorOnDate bool
	countForDoctor    int64
	exactSlot         bool
	sameDoctorOnDate  bool

	created *models.Appointment
	updated *models.Appointment
	deleted *models.Appointment

	eligible []models.Doctor
	gotDay   time.Time
	gotKeep  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patients:     map[uint]*models.Patient{},
		doctors:      map[uint]*models.Doctor{},
		appointments: map[uint]*models.Appointment{},
	}
}

func (f *fakeRepo) GetPatientByID(_ context.Context, id uint) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, errNotFound
	}
	return d, nil
}

func (f *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	return ap, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(f.appointments) + 1)
	f.appointments[ap.ID] = ap
	f.created = ap
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.appointments[ap.ID] = ap
	f.updated = ap
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, ap *models.Appointment) error {
	delete(f.appointments, ap.ID)
	f.deleted = ap
	return nil
}

func (f *fakeRepo) ListEligibleDoctors(_ context.Context, day time.Time, keepDoctorID uint) ([]models.Doctor, error) {
	f.gotDay = day
	f.gotKeep = keepDoctorID
	return f.eligible, nil
}

func (f *fakeRepo) HasRecentWithDoctor(_ context.Context, _, _ uint, _, _ time.Time) (bool, error) {
	return f.recentWithDoctor, nil
}

func (f *fakeRepo) HasOtherDoctorOnDate(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
	return f.otherDoctorOnDate, nil
}

func (f *fakeRepo) CountForDoctorOnDate(_ context.Context, _ uint, _ time.Time, _ uint) (int64, error) {
	return f.countForDoctor, nil
}

func (f *fakeRepo) HasExactSlot(_ context.Context, _, _ uint, _ time.Time, _ uint) (bool, error) {
	return f.exactSlot, nil
}

func (f *fakeRepo) HasSameDoctorOnDate(_ context.Context, _, _ uint, _ time.Time, _ uint) (bool, error) {
	return f.sameDoctorOnDate, nil
}
