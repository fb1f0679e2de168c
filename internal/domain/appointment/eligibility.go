package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// DoctorOption é um item do dropdown de médicos disponíveis
type DoctorOption struct {
	DoctorID uint   `json:"doctor_id"`
	Label    string `json:"label"`
}

// BuildOptions monta o rótulo exibido no formulário de agendamento
func BuildOptions(doctors []models.Doctor) []DoctorOption {
	options := make([]DoctorOption, 0, len(doctors))
	for _, d := range doctors {
		options = append(options, DoctorOption{
			DoctorID: d.ID,
			Label:    fmt.Sprintf("%s - %s", d.User.FullName, d.SpecialistIn),
		})
	}
	return options
}
