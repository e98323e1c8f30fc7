package mothers

import (
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// NextOfKin is the mother's emergency contact.
type NextOfKin struct {
	Name           string `json:"name,omitempty" validate:"omitempty,max=150"`
	Relationship   string `json:"relationship,omitempty" validate:"omitempty,max=50"`
	Address        string `json:"address,omitempty" validate:"omitempty,max=255"`
	PhoneNumber    string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Occupation     string `json:"occupation,omitempty" validate:"omitempty,max=100"`
	EducationLevel string `json:"education_level,omitempty" validate:"omitempty,max=50"`
}

// Biodata is the demographic part of a mother's registration.
type Biodata struct {
	DateOfBirth    *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Religion       string  `json:"religion,omitempty" validate:"omitempty,max=50"`
	EthnicGroup    string  `json:"ethnic_group,omitempty" validate:"omitempty,max=50"`
	MaritalStatus  string  `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed separated"`
	EducationLevel string  `json:"education_level,omitempty" validate:"omitempty,max=50"`
	Occupation     string  `json:"occupation,omitempty" validate:"omitempty,max=100"`
}

// Mother is a registered patient account together with her profile.
type Mother struct {
	ID          int64      `json:"id"`
	CustomID    string     `json:"custom_id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Address     string     `json:"address,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Biodata
	NextOfKin NextOfKin `json:"next_of_kin"`
}

// CreateMotherRequest registers a mother.
type CreateMotherRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	FirstName   string `json:"first_name" validate:"required,max=150"`
	LastName    string `json:"last_name" validate:"required,max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Biodata
	NextOfKin NextOfKin `json:"next_of_kin"`
}

func (r *CreateMotherRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	return validation.Struct(r)
}

// UpdateMotherRequest is a partial update; nil fields are left unchanged.
type UpdateMotherRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=255"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Religion       *string `json:"religion,omitempty" validate:"omitempty,max=50"`
	EthnicGroup    *string `json:"ethnic_group,omitempty" validate:"omitempty,max=50"`
	MaritalStatus  *string `json:"marital_status,omitempty" validate:"omitempty,oneof=single married divorced widowed separated"`
	EducationLevel *string `json:"education_level,omitempty" validate:"omitempty,max=50"`
	Occupation     *string `json:"occupation,omitempty" validate:"omitempty,max=100"`

	NextOfKinName           *string `json:"nok_name,omitempty" validate:"omitempty,max=150"`
	NextOfKinRelationship   *string `json:"nok_relationship,omitempty" validate:"omitempty,max=50"`
	NextOfKinAddress        *string `json:"nok_address,omitempty" validate:"omitempty,max=255"`
	NextOfKinPhone          *string `json:"nok_phone,omitempty" validate:"omitempty,max=20"`
	NextOfKinOccupation     *string `json:"nok_occupation,omitempty" validate:"omitempty,max=100"`
	NextOfKinEducationLevel *string `json:"nok_education_level,omitempty" validate:"omitempty,max=50"`
}

func (r *UpdateMotherRequest) Validate() error {
	return validation.Struct(r)
}

// ListFilter narrows the mother listing. From and To bound the registration
// date, both inclusive.
type ListFilter struct {
	Search string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// PaginatedMotherListResponse represents a paginated list of mothers
type PaginatedMotherListResponse struct {
	Mothers    []Mother        `json:"mothers"`
	Pagination pagination.Meta `json:"pagination"`
}
