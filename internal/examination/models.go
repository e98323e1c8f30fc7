package examination

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// Details are the optional parts of a visit shared by create and update.
type Details struct {
	GestationalAgeWeeks *int `json:"gestational_age_weeks" validate:"omitempty,min=0,max=45"`
	Vitals
	Presentation          *string `json:"presentation" validate:"omitempty,max=50"`
	Lie                   *string `json:"lie" validate:"omitempty,max=50"`
	ProblemList           *string `json:"problem_list"`
	DeliveryPlan          *string `json:"delivery_plan"`
	AdmissionInstructions *string `json:"admission_instructions"`
	Notes                 *string `json:"notes"`
	NextAppointment       *string `json:"next_appointment" validate:"omitempty,datetime=2006-01-02"`
}

// Examination is a provider visit log entry. RiskStatus is derived on read.
type Examination struct {
	ID             int64   `json:"id"`
	MotherID       int64   `json:"mother_id"`
	MotherCustomID string  `json:"mother_custom_id"`
	MotherName     string  `json:"mother_name"`
	ProviderID     *int64  `json:"provider_id,omitempty"`
	ProviderName   *string `json:"provider_name"`
	VisitDate      string  `json:"visit_date"`
	Details
	Status     appointment.Status `json:"status"`
	RiskStatus Risk               `json:"risk_status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}

type CreateExaminationRequest struct {
	VisitDate string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	Details
}

func (r *CreateExaminationRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateExaminationRequest struct {
	VisitDate *string             `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
	Status    *appointment.Status `json:"status"`
	Details
}

func (r *UpdateExaminationRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return validation.Struct(r)
}

type PaginatedExaminationResponse struct {
	Examinations []Examination  `json:"examinations"`
	Pagination   pagination.Meta `json:"pagination"`
}
