package dashboard

import (
	"time"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
)

// ProviderMetrics counts visits relative to today in the clinic time zone.
type ProviderMetrics struct {
	TotalMothers  int `json:"total_mothers"`
	UpcomingToday int `json:"upcoming_today"`
	UpcomingWeek  int `json:"upcoming_week"`
	Missed        int `json:"missed"`
}

// Visit is an examination row as shown on the provider dashboard.
type Visit struct {
	ID              int64   `json:"id"`
	MotherCustomID  string  `json:"mother_custom_id"`
	MotherName      string  `json:"mother_name"`
	ProviderName    *string `json:"provider_name"`
	VisitDate       string  `json:"visit_date"`
	NextAppointment *string `json:"next_appointment"`
	Status          string  `json:"status"`
}

type RecentMother struct {
	ID        int64     `json:"id"`
	CustomID  string    `json:"custom_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone_number,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProviderDashboard struct {
	Metrics             ProviderMetrics `json:"metrics"`
	Upcoming            []Visit         `json:"upcoming_appointments"`
	RecentVisits        []Visit         `json:"recent_visits"`
	RecentMothers       []RecentMother  `json:"recent_mothers"`
	UnreadNotifications int             `json:"unread_notifications"`
}

// NextVisit is the mother's next scheduled examination.
type NextVisit struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	ProviderName *string `json:"provider_name"`
	Notes        string  `json:"notes"`
}

type HealthSummary struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	LastVisit     *string `json:"last_visit"`
	PregnancyWeek *int    `json:"pregnancy_week"`
	RiskStatus    string  `json:"risk_status"`
}

type MotherDashboard struct {
	NextAppointment *NextVisit                  `json:"next_appointment"`
	Notifications   []notification.Notification `json:"notifications"`
	HealthSummary   HealthSummary               `json:"health_summary"`
}

type AdminDashboard struct {
	TotalMothers      int `json:"total_mothers"`
	TotalProviders    int `json:"total_providers"`
	TotalAppointments int `json:"total_appointments"`
	TotalExaminations int `json:"total_examinations"`
}
