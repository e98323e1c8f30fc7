package examination

import "strings"

type Risk string

const (
	RiskNormal Risk = "Normal"
	RiskHigh   Risk = "High"
	// RiskUnknown is shown when a mother has no examination yet.
	RiskUnknown Risk = "Unknown"
)

// Vitals are the clinical readings risk is derived from.
type Vitals struct {
	BPSystolic      *int     `json:"bp_systolic" validate:"omitempty,min=40,max=300"`
	BPDiastolic     *int     `json:"bp_diastolic" validate:"omitempty,min=20,max=200"`
	WeightKg        *float64 `json:"weight_kg" validate:"omitempty,gt=0,lt=400"`
	TemperatureC    *float64 `json:"temperature_c" validate:"omitempty,min=30,max=45"`
	PulseRate       *int     `json:"pulse_rate" validate:"omitempty,min=20,max=250"`
	RespiratoryRate *int     `json:"respiratory_rate" validate:"omitempty,min=5,max=80"`
	FundalHeightCm  *float64 `json:"fundal_height_cm" validate:"omitempty,min=0,max=60"`
	FetalHeartRate  *int     `json:"fetal_heart_rate" validate:"omitempty,min=50,max=250"`
	UrineProtein    *string  `json:"urine_protein" validate:"omitempty,max=10"`
	UrineGlucose    *string  `json:"urine_glucose" validate:"omitempty,max=10"`
	Oedema          *string  `json:"oedema" validate:"omitempty,max=20"`
}

type riskRule struct {
	reason string
	fires  func(v Vitals) bool
}

// Rules only ever escalate. There is no intermediate level.
var riskRules = []riskRule{
	{"hypertension", func(v Vitals) bool {
		return v.BPSystolic != nil && v.BPDiastolic != nil && (*v.BPSystolic >= 140 || *v.BPDiastolic >= 90)
	}},
	{"oedema", func(v Vitals) bool {
		if v.Oedema == nil {
			return false
		}
		o := strings.ToLower(*v.Oedema)
		return o == "moderate" || o == "severe"
	}},
	{"proteinuria", func(v Vitals) bool {
		return v.UrineProtein != nil && (*v.UrineProtein == "++" || *v.UrineProtein == "+++")
	}},
}

// RiskReasons lists the rules that fired for v, in evaluation order.
func RiskReasons(v Vitals) []string {
	var reasons []string
	for _, rule := range riskRules {
		if rule.fires(v) {
			reasons = append(reasons, rule.reason)
		}
	}
	return reasons
}

// AssessRisk is High when any rule fires, Normal otherwise.
func AssessRisk(v Vitals) Risk {
	for _, rule := range riskRules {
		if rule.fires(v) {
			return RiskHigh
		}
	}
	return RiskNormal
}
