package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup responde às consultas do motor de regras com valores
// fixos e grava os argumentos recebidos para inspeção.
type fakeLookup struct {
	recentWithDoctor  bool
	otherDoctorOnDate bool
	countForDoctor    int64
	exactSlot         bool
	sameDoctorOnDate  bool

	gotCooldownFrom  time.Time
	gotCooldownUntil time.Time
	gotCountExclude  uint
	gotSlotExclude   uint
	gotDupExclude    uint
}

func (f *fakeLookup) HasRecentWithDoctor(_ context.Context, _, _ uint, from, until time.Time) (bool, error) {
	f.gotCooldownFrom = from
	f.gotCooldownUntil = until
	return f.recentWithDoctor, nil
}

func (f *fakeLookup) HasOtherDoctorOnDate(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
	return f.otherDoctorOnDate, nil
}

func (f *fakeLookup) CountForDoctorOnDate(_ context.Context, _ uint, _ time.Time, excludeID uint) (int64, error) {
	f.gotCountExclude = excludeID
	return f.countForDoctor, nil
}

func (f *fakeLookup) HasExactSlot(_ context.Context, _, _ uint, _ time.Time, excludeID uint) (bool, error) {
	f.gotSlotExclude = excludeID
	return f.exactSlot, nil
}

func (f *fakeLookup) HasSameDoctorOnDate(_ context.Context, _, _ uint, _ time.Time, excludeID uint) (bool, error) {
	f.gotDupExclude = excludeID
	return f.sameDoctorOnDate, nil
}

// relógio fixo: segunda-feira, 2025-03-10 08:00
var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func candidateAt(dt time.Time) Candidate {
	return Candidate{
		PatientID:   1,
		DoctorID:    2,
		DateTime:    dt,
		Description: "Consulta de rotina",
	}
}

func TestValidate_Accepted(t *testing.T) {
	// terça-feira 10h, agenda limpa
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), &fakeLookup{}, cand, testNow)
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Empty(t, res.Errors)
}

func TestValidate_Sunday(t *testing.T) {
	cand := candidateAt(time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), &fakeLookup{}, cand, testNow)
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.Equal(t, "Não é possível agendar consultas aos domingos.", res.Errors[FieldAppointmentDate])
}

func TestValidate_Past(t *testing.T) {
	cand := candidateAt(time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), &fakeLookup{}, cand, testNow)
	require.NoError(t, err)
	assert.Equal(t, "A data da consulta não pode estar no passado.", res.Errors[FieldAppointmentDate])
}

func TestValidate_WorkingHours(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		minute   int
		accepted bool
	}{
		{"antes do expediente", 8, 59, false},
		{"abertura", 9, 0, true},
		{"última consulta do dia", 16, 59, true},
		{"fechamento", 17, 0, false},
		{"noite", 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := candidateAt(time.Date(2025, 3, 11, tt.hour, tt.minute, 0, 0, time.UTC))

			res, err := Validate(context.Background(), &fakeLookup{}, cand, testNow)
			require.NoError(t, err)

			if tt.accepted {
				assert.True(t, res.Accepted())
			} else {
				assert.Equal(t, "A consulta deve estar dentro do expediente (9h às 17h).", res.Errors[FieldAppointmentDate])
			}
		})
	}
}

func TestValidate_CooldownWindow(t *testing.T) {
	lookup := &fakeLookup{recentWithDoctor: true}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Você não pode repetir consulta com o mesmo médico em menos de 5 dias.", res.Errors[FieldDoctor])

	// janela [dia-5, dia): consulta no dia-5 ainda bloqueia, no dia-6 não
	assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), lookup.gotCooldownFrom)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), lookup.gotCooldownUntil)
}

// windowLookup responde a carência a partir de uma consulta anterior
// concreta, respeitando o intervalo [from, until) recebido.
type windowLookup struct {
	fakeLookup
	previous time.Time
}

func (w *windowLookup) HasRecentWithDoctor(_ context.Context, _, _ uint, from, until time.Time) (bool, error) {
	return !w.previous.Before(from) && w.previous.Before(until), nil
}

func TestValidate_CooldownBoundary(t *testing.T) {
	// consulta anterior numa quinta-feira; o limite inferior da janela
	// é inclusivo, então X+5 ainda bloqueia e X+6 é o primeiro dia livre
	previous := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)
	lookup := &windowLookup{previous: previous}

	for _, offset := range []int{4, 5} {
		cand := candidateAt(previous.AddDate(0, 0, offset))
		res, err := Validate(context.Background(), lookup, cand, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Você não pode repetir consulta com o mesmo médico em menos de 5 dias.", res.Errors[FieldDoctor])
	}

	accepted := candidateAt(previous.AddDate(0, 0, 6))
	res, err := Validate(context.Background(), lookup, accepted, testNow)
	require.NoError(t, err)
	assert.True(t, res.Accepted())
}

func TestValidate_OtherDoctorSameDate(t *testing.T) {
	lookup := &fakeLookup{otherDoctorOnDate: true}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Você já tem uma consulta com outro médico nesta data.", res.Errors[FieldAppointmentDate])
}

func TestValidate_DoctorCapacity(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		accepted bool
	}{
		{"penúltima vaga", 8, true},
		{"última vaga", 9, true},
		{"agenda cheia", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{countForDoctor: tt.count}
			cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

			res, err := Validate(context.Background(), lookup, cand, testNow)
			require.NoError(t, err)

			if tt.accepted {
				assert.True(t, res.Accepted())
			} else {
				assert.Equal(t, "O médico já está com a agenda cheia nesta data.", res.Errors[FieldDoctor])
			}
		})
	}
}

func TestValidate_ExactSlotIsGlobalError(t *testing.T) {
	lookup := &fakeLookup{exactSlot: true}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Você já tem uma consulta com este médico neste horário.", res.Errors[FieldGlobal])
}

func TestValidate_NoShortCircuit(t *testing.T) {
	// domingo passado fora do expediente, com carência e agenda cheia:
	// todas as regras são avaliadas e cada campo guarda o primeiro erro
	lookup := &fakeLookup{recentWithDoctor: true, countForDoctor: 10}
	cand := candidateAt(time.Date(2025, 3, 2, 7, 0, 0, 0, time.UTC))

	res, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	assert.Len(t, res.Errors, 2)
	assert.Equal(t, "Não é possível agendar consultas aos domingos.", res.Errors[FieldAppointmentDate])
	assert.Equal(t, "Você não pode repetir consulta com o mesmo médico em menos de 5 dias.", res.Errors[FieldDoctor])
}

func TestValidate_Deterministic(t *testing.T) {
	lookup := &fakeLookup{otherDoctorOnDate: true, exactSlot: true}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	first, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	second, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate_ExcludeIDReachesLookups(t *testing.T) {
	lookup := &fakeLookup{}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))
	cand.ExcludeID = 42

	_, err := Validate(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	assert.Equal(t, uint(42), lookup.gotCountExclude)
	assert.Equal(t, uint(42), lookup.gotSlotExclude)
}

func TestValidateEdit_SameDoctorSameDate(t *testing.T) {
	lookup := &fakeLookup{sameDoctorOnDate: true}
	cand := candidateAt(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))
	cand.ExcludeID = 7

	res, err := ValidateEdit(context.Background(), lookup, cand, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Esta consulta já existe.", res.Errors[FieldAppointmentDate])
	assert.Equal(t, uint(7), lookup.gotDupExclude)
}

func TestValidateEdit_CarriesCreateRules(t *testing.T) {
	// a rota de edição aplica todas as regras da criação também
	cand := candidateAt(time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))

	res, err := ValidateEdit(context.Background(), &fakeLookup{}, cand, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Não é possível agendar consultas aos domingos.", res.Errors[FieldAppointmentDate])
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	at := time.Date(2025, 3, 11, 15, 42, 7, 123, loc)
	day := DateOnly(at)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), day)
	assert.Equal(t, loc, day.Location())
}
