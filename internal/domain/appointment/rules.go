package appointment

import (
	"context"
	"time"
)

// ===============================
// Regras de agendamento
// ===============================

const (
	// Expediente da clínica: 9h às 17h (última consulta começa 16:xx)
	WorkingHourStart = 9
	WorkingHourEnd   = 17

	// Máximo de consultas por médico num mesmo dia
	MaxPerDoctorPerDay = 10

	// Carência para repetir consulta com o mesmo médico
	RebookCooldownDays = 5
)

// Nomes de campo das mensagens de validação. O front usa esses nomes
// para ancorar cada erro no campo correspondente do formulário.
const (
	FieldAppointmentDate = "appointmentDateTime"
	FieldDoctor          = "doctorId"
	FieldGlobal          = ""
)

type Candidate struct {
	PatientID   uint
	DoctorID    uint
	DateTime    time.Time
	Description string

	// ExcludeID > 0 quando é edição: a própria consulta não conflita consigo
	ExcludeID uint
}

type ValidationResult struct {
	Errors map[string]string
}

func (r ValidationResult) Accepted() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(field, message string) {
	if r.Errors == nil {
		r.Errors = map[string]string{}
	}
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
}

// ConflictLookup são as consultas pontuais que o motor de regras faz
// sobre as consultas já persistidas. Nenhuma exige varrer a tabela.
type ConflictLookup interface {
	// consultas do paciente com o mesmo médico com data em [from, until)
	HasRecentWithDoctor(ctx context.Context, patientID, doctorID uint, from, until time.Time) (bool, error)

	// consultas do paciente com outro médico na mesma data
	HasOtherDoctorOnDate(ctx context.Context, patientID, doctorID uint, day time.Time) (bool, error)

	// total de consultas do médico na data (ignorando excludeID)
	CountForDoctorOnDate(ctx context.Context, doctorID uint, day time.Time, excludeID uint) (int64, error)

	// consulta idêntica: paciente + médico + horário exato (ignorando excludeID)
	HasExactSlot(ctx context.Context, patientID, doctorID uint, at time.Time, excludeID uint) (bool, error)

	// consulta do paciente com o mesmo médico na mesma data (ignorando excludeID)
	HasSameDoctorOnDate(ctx context.Context, patientID, doctorID uint, day time.Time, excludeID uint) (bool, error)
}

// Validate aplica as regras de agendamento sobre a consulta candidata.
// Todas as regras são avaliadas — sem curto-circuito — então o resultado
// pode carregar vários erros de uma vez. `now` é injetado para o motor
// ser determinístico em teste.
func Validate(
	ctx context.Context,
	lookup ConflictLookup,
	cand Candidate,
	now time.Time,
) (ValidationResult, error) {

	var res ValidationResult

	if cand.DateTime.Weekday() == time.Sunday {
		res.add(FieldAppointmentDate, "Não é possível agendar consultas aos domingos.")
	}

	if cand.DateTime.Before(now) {
		res.add(FieldAppointmentDate, "A data da consulta não pode estar no passado.")
	}

	hour := cand.DateTime.Hour()
	if hour < WorkingHourStart || hour >= WorkingHourEnd {
		res.add(FieldAppointmentDate, "A consulta deve estar dentro do expediente (9h às 17h).")
	}

	day := DateOnly(cand.DateTime)

	// carência: [dia-5, dia) — o limite superior é exclusivo
	cooldownFrom := day.AddDate(0, 0, -RebookCooldownDays)
	recent, err := lookup.HasRecentWithDoctor(ctx, cand.PatientID, cand.DoctorID, cooldownFrom, day)
	if err != nil {
		return ValidationResult{}, err
	}
	if recent {
		res.add(FieldDoctor, "Você não pode repetir consulta com o mesmo médico em menos de 5 dias.")
	}

	otherDoctor, err := lookup.HasOtherDoctorOnDate(ctx, cand.PatientID, cand.DoctorID, day)
	if err != nil {
		return ValidationResult{}, err
	}
	if otherDoctor {
		res.add(FieldAppointmentDate, "Você já tem uma consulta com outro médico nesta data.")
	}

	count, err := lookup.CountForDoctorOnDate(ctx, cand.DoctorID, day, cand.ExcludeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if count >= MaxPerDoctorPerDay {
		res.add(FieldDoctor, "O médico já está com a agenda cheia nesta data.")
	}

	exact, err := lookup.HasExactSlot(ctx, cand.PatientID, cand.DoctorID, cand.DateTime, cand.ExcludeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if exact {
		res.add(FieldGlobal, "Você já tem uma consulta com este médico neste horário.")
	}

	return res, nil
}

// ValidateEdit aplica as regras de criação mais a regra extra da edição:
// duplicidade no nível do dia com o mesmo médico. As duas rotas têm
// conjuntos de regras distintos de propósito — unificar mudaria o
// comportamento observável.
func ValidateEdit(
	ctx context.Context,
	lookup ConflictLookup,
	cand Candidate,
	now time.Time,
) (ValidationResult, error) {

	res, err := Validate(ctx, lookup, cand, now)
	if err != nil {
		return ValidationResult{}, err
	}

	day := DateOnly(cand.DateTime)
	dup, err := lookup.HasSameDoctorOnDate(ctx, cand.PatientID, cand.DoctorID, day, cand.ExcludeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if dup {
		res.add(FieldAppointmentDate, "Esta consulta já existe.")
	}

	return res, nil
}

// DateOnly zera o componente de hora preservando o fuso
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
