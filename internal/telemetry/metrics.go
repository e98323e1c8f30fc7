package telemetry

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Clinic metrics
	AppointmentTotal metric.Int64Counter
	ExaminationTotal metric.Int64Counter
	HighRiskTotal    metric.Int64Counter
	RemindersSent    metric.Int64Counter
	EmergencyAlerts  metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics against the global meter provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/WailSalutem-Health-Care/maternal-care-service")
	m := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.HTTPRequestsTotal, "http_server_requests_total", "Total number of HTTP requests", "{request}"},
		{&m.AppointmentTotal, "appointment_operations_total", "Appointment operations by kind", "{operation}"},
		{&m.ExaminationTotal, "examination_operations_total", "Examination operations by kind", "{operation}"},
		{&m.HighRiskTotal, "high_risk_examinations_total", "Examinations assessed as high risk", "{examination}"},
		{&m.RemindersSent, "reminders_sent_total", "ANC visit reminders dispatched by kind", "{reminder}"},
		{&m.EmergencyAlerts, "emergency_alerts_total", "Emergency alerts raised by mothers", "{alert}"},
		{&m.AuthFailuresTotal, "auth_failures_total", "Total number of authentication failures", "{failure}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	if m.HTTPDurationMs, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.PermissionCheckDuration, err = meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	log.Info().Msg("✓ Custom metrics initialized")
	return m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

// RecordAppointmentOperation records an appointment operation (created, status_changed, ...)
func (m *Metrics) RecordAppointmentOperation(ctx context.Context, operation, source string) {
	if m == nil {
		return
	}
	m.AppointmentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("source", source),
	))
}

// RecordExaminationOperation records an examination operation
func (m *Metrics) RecordExaminationOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.ExaminationTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordHighRisk counts an examination assessed as High
func (m *Metrics) RecordHighRisk(ctx context.Context) {
	if m == nil {
		return
	}
	m.HighRiskTotal.Add(ctx, 1)
}

// RecordReminderSent counts a dispatched reminder
func (m *Metrics) RecordReminderSent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.RemindersSent.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordEmergencyAlert counts an emergency alert
func (m *Metrics) RecordEmergencyAlert(ctx context.Context) {
	if m == nil {
		return
	}
	m.EmergencyAlerts.Add(ctx, 1)
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m == nil {
		return
	}
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
