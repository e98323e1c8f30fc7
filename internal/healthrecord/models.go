package healthrecord

import (
	"fmt"
	"reflect"
	"time"

	"dario.cat/mergo"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/validation"
)

// Fields are the editable parts of a health record. Every field is optional.
type Fields struct {
	BloodGroup        *string  `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Genotype          *string  `json:"genotype" validate:"omitempty,oneof=AA AS SS AC SC CC"`
	HeightCm          *float64 `json:"height_cm" validate:"omitempty,gt=0,lt=300"`
	Allergies         *string  `json:"allergies"`
	ChronicConditions *string  `json:"chronic_conditions"`
	Gravidity         *int     `json:"gravidity" validate:"omitempty,min=0,max=30"`
	Parity            *int     `json:"parity" validate:"omitempty,min=0,max=30"`
	LMP               *string  `json:"lmp" validate:"omitempty,datetime=2006-01-02"`
	EDD               *string  `json:"edd" validate:"omitempty,datetime=2006-01-02"`
	Medications       *string  `json:"medications"`
	FamilyPlanning    *string  `json:"family_planning"`
	PreviousIllness   *string  `json:"previous_illness"`
	PreviousSurgery   *string  `json:"previous_surgery"`
	FamilyHistory     *string  `json:"family_history"`
	InfertilityStatus *string  `json:"infertility_status"`
	FatherBloodGroup  *string  `json:"father_blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	MotherRhesus      *string  `json:"mother_rhesus" validate:"omitempty,oneof=positive negative"`
	FatherRhesus      *string  `json:"father_rhesus" validate:"omitempty,oneof=positive negative"`
	HepatitisBStatus  *string  `json:"hepatitis_b_status" validate:"omitempty,oneof=positive negative unknown"`
	VDRLStatus        *string  `json:"vdrl_status" validate:"omitempty,oneof=positive negative unknown"`
	RVSStatus         *string  `json:"rvs_status" validate:"omitempty,oneof=positive negative unknown"`
	HbBooking         *float64 `json:"hb_booking" validate:"omitempty,gt=0,lt=25"`
	Hb28Weeks         *float64 `json:"hb_28_weeks" validate:"omitempty,gt=0,lt=25"`
	Hb36Weeks         *float64 `json:"hb_36_weeks" validate:"omitempty,gt=0,lt=25"`
	Ultrasound1Date   *string  `json:"ultrasound1_date" validate:"omitempty,datetime=2006-01-02"`
	Ultrasound1Result *string  `json:"ultrasound1_result"`
	Ultrasound2Date   *string  `json:"ultrasound2_date" validate:"omitempty,datetime=2006-01-02"`
	Ultrasound2Result *string  `json:"ultrasound2_result"`
	PapSmearDate      *string  `json:"pap_smear_date" validate:"omitempty,datetime=2006-01-02"`
	PapSmearComments  *string  `json:"pap_smear_comments"`
}

func (f *Fields) Validate() error {
	return validation.Struct(f)
}

// Merge overwrites the fields of f that are set in patch. A set field
// replaces the pointer itself, so explicit zero values such as a parity of
// 0 are kept and f never shares storage with the previous record.
func (f *Fields) Merge(patch Fields) error {
	if err := mergo.Merge(f, patch, mergo.WithOverride, mergo.WithTransformers(setPointers{})); err != nil {
		return fmt.Errorf("merge health record: %w", err)
	}
	return nil
}

// setPointers makes mergo assign non-nil pointer fields instead of merging
// into the values they point at.
type setPointers struct{}

func (setPointers) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t.Kind() != reflect.Ptr {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !src.IsNil() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}

// HealthRecord is a mother's single active antenatal record.
type HealthRecord struct {
	ID       int64 `json:"id"`
	MotherID int64 `json:"mother_id"`
	Fields
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Pregnancy is an entry of the obstetric history.
type Pregnancy struct {
	ID       int64 `json:"id"`
	MotherID int64 `json:"mother_id"`
	PregnancyFields
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type PregnancyFields struct {
	Year           *int     `json:"year" validate:"omitempty,min=1950,max=2100"`
	PlaceOfBirth   *string  `json:"place_of_birth" validate:"omitempty,max=150"`
	GestationWeeks *int     `json:"gestation_weeks" validate:"omitempty,min=1,max=45"`
	ModeOfDelivery *string  `json:"mode_of_delivery" validate:"omitempty,oneof=svd caesarean assisted"`
	LabourDuration *string  `json:"labour_duration" validate:"omitempty,max=50"`
	Outcome        *string  `json:"outcome" validate:"omitempty,oneof=live_birth stillbirth miscarriage abortion neonatal_death"`
	BirthWeightKg  *float64 `json:"birth_weight_kg" validate:"omitempty,gt=0,lt=10"`
	Complications  *string  `json:"complications"`
}

func (f *PregnancyFields) Validate() error {
	return validation.Struct(f)
}

// OwnRecord is what a mother sees of her own history.
type OwnRecord struct {
	Record        *HealthRecord `json:"health_record"`
	Pregnancies   []Pregnancy   `json:"previous_pregnancies"`
	PregnancyWeek *int          `json:"pregnancy_week,omitempty"`
}
