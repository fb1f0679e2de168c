package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type ListEligibleDoctors struct {
	repo domain.Repository
}

func NewListEligibleDoctors(repo domain.Repository) *ListEligibleDoctors {
	return &ListEligibleDoctors{repo: repo}
}

// Execute monta o dropdown de médicos para a data. keepDoctorID
// mantém o médico já escolhido na lista durante a edição, mesmo
// que ele já tenha consulta no dia.
func (uc *ListEligibleDoctors) Execute(
	ctx context.Context,
	day time.Time,
	keepDoctorID uint,
) ([]domain.DoctorOption, error) {

	doctors, err := uc.repo.ListEligibleDoctors(ctx, domain.DateOnly(day), keepDoctorID)
	if err != nil {
		return nil, err
	}

	return domain.BuildOptions(doctors), nil
}
