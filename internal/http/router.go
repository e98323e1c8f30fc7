package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/activity"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/appointment"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/dashboard"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/examination"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/healthrecord"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/mothers"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/settings"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/telemetry"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/users"
)

// ServiceName is reported by /health and used as the tracing server name.
const ServiceName = "maternal-care-service"

// Deps are the process-wide collaborators the router wires into handlers.
// Publisher and Metrics may be nil.
type Deps struct {
	DB             *sql.DB
	Verifier       *auth.Verifier
	Permissions    auth.Permissions
	Publisher      messaging.PublisherInterface
	Metrics        *telemetry.Metrics
	Timezone       *time.Location
	AllowedOrigins []string
}

// SetupRouter initializes all routes for the application
func SetupRouter(deps Deps) http.Handler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}

	activityService := activity.NewService(activity.NewRepository(deps.DB))
	settingsService := settings.NewService(settings.NewRepository(deps.DB), deps.Timezone)

	userRepo := users.NewRepository(deps.DB)
	userService := users.NewService(userRepo, publisher, activityService)

	motherService := mothers.NewService(mothers.NewRepository(deps.DB, userRepo), publisher, activityService)

	recordService := healthrecord.NewService(healthrecord.NewRepository(deps.DB), motherService, activityService, settingsService)

	examService := examination.NewService(examination.NewRepository(deps.DB), motherService, publisher, activityService, deps.Metrics)

	notificationService := notification.NewService(notification.NewRepository(deps.DB), userRepo, publisher, deps.Metrics)

	appointmentService := appointment.NewService(appointment.Deps{
		Repo:      appointment.NewRepository(deps.DB),
		Accounts:  userRepo,
		Notifier:  notificationService,
		Locations: settingsService,
		Publisher: publisher,
		Activity:  activityService,
		Metrics:   deps.Metrics,
	})

	dashboardService := dashboard.NewService(dashboard.Deps{
		Repo:          dashboard.NewRepository(deps.DB),
		Examinations:  examService,
		Pregnancy:     recordService,
		Notifications: notificationService,
		Accounts:      userRepo,
		Locations:     settingsService,
	})

	userHandler := users.NewHandler(userService)
	motherHandler := mothers.NewHandler(motherService)
	recordHandler := healthrecord.NewHandler(recordService)
	examHandler := examination.NewHandler(examService)
	appointmentHandler := appointment.NewHandler(appointmentService)
	notificationHandler := notification.NewHandler(notificationService)
	activityHandler := activity.NewHandler(activityService)
	settingsHandler := settings.NewHandler(settingsService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// secure wraps h as: verify token -> link local account -> check permission.
	secure := func(permission string, h http.HandlerFunc) http.Handler {
		return auth.MiddlewareWithMetrics(deps.Verifier, deps.Metrics)(
			users.LinkPrincipal(userService)(
				auth.RequirePermissionWithMetrics(permission, deps.Permissions, deps.Metrics)(h),
			),
		)
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(ServiceName))
	r.Use(requestMetrics(deps.Metrics))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"` + ServiceName + `"}`))
	}).Methods("GET")

	// Own profile (every role)
	r.Handle("/me", secure("profile:view", userHandler.GetMe)).Methods("GET")
	r.Handle("/me", secure("profile:update", userHandler.UpdateMe)).Methods("PATCH")

	// Account management (ADMIN)
	r.Handle("/users", secure("user:create", userHandler.CreateUser)).Methods("POST")
	r.Handle("/users", secure("user:view", userHandler.ListUsers)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}", secure("user:view", userHandler.GetUser)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}", secure("user:update", userHandler.UpdateUser)).Methods("PATCH")
	r.Handle("/users/{id:[0-9]+}", secure("user:delete", userHandler.DeleteUser)).Methods("DELETE")

	// Mother registry (PROVIDER)
	r.Handle("/mothers", secure("mother:create", motherHandler.CreateMother)).Methods("POST")
	r.Handle("/mothers", secure("mother:view", motherHandler.ListMothers)).Methods("GET")
	r.Handle("/mothers/{customID}", secure("mother:view", motherHandler.GetMother)).Methods("GET")
	r.Handle("/mothers/{customID}", secure("mother:update", motherHandler.UpdateMother)).Methods("PATCH")
	r.Handle("/mothers/{customID}", secure("mother:delete", motherHandler.DeleteMother)).Methods("DELETE")

	// Health record and previous pregnancies (PROVIDER)
	r.Handle("/mothers/{customID}/health-record", secure("healthrecord:view", recordHandler.GetRecord)).Methods("GET")
	r.Handle("/mothers/{customID}/health-record", secure("healthrecord:update", recordHandler.ReplaceRecord)).Methods("PUT")
	r.Handle("/mothers/{customID}/health-record", secure("healthrecord:update", recordHandler.PatchRecord)).Methods("PATCH")
	r.Handle("/mothers/{customID}/pregnancies", secure("pregnancy:view", recordHandler.ListPregnancies)).Methods("GET")
	r.Handle("/mothers/{customID}/pregnancies", secure("pregnancy:manage", recordHandler.CreatePregnancy)).Methods("POST")
	r.Handle("/mothers/{customID}/pregnancies/{id:[0-9]+}", secure("pregnancy:view", recordHandler.GetPregnancy)).Methods("GET")
	r.Handle("/mothers/{customID}/pregnancies/{id:[0-9]+}", secure("pregnancy:manage", recordHandler.UpdatePregnancy)).Methods("PATCH")
	r.Handle("/mothers/{customID}/pregnancies/{id:[0-9]+}", secure("pregnancy:manage", recordHandler.DeletePregnancy)).Methods("DELETE")

	// Examinations (PROVIDER)
	r.Handle("/mothers/{customID}/examinations", secure("examination:create", examHandler.CreateExamination)).Methods("POST")
	r.Handle("/mothers/{customID}/examinations", secure("examination:view", examHandler.ListExaminations)).Methods("GET")
	r.Handle("/mothers/{customID}/examinations/{id:[0-9]+}", secure("examination:view", examHandler.GetExamination)).Methods("GET")
	r.Handle("/mothers/{customID}/examinations/{id:[0-9]+}", secure("examination:update", examHandler.UpdateExamination)).Methods("PATCH")
	r.Handle("/mothers/{customID}/examinations/{id:[0-9]+}", secure("examination:delete", examHandler.DeleteExamination)).Methods("DELETE")

	// Admin-scheduled appointments (ADMIN)
	r.Handle("/appointments", secure("appointment:create", appointmentHandler.CreateAppointment)).Methods("POST")
	r.Handle("/appointments", secure("appointment:view", appointmentHandler.ListAppointments)).Methods("GET")
	r.Handle("/appointments/recent", secure("appointment:view", appointmentHandler.RecentAppointments)).Methods("GET")
	r.Handle("/appointments/{id:[0-9]+}", secure("appointment:view", appointmentHandler.GetAppointment)).Methods("GET")
	r.Handle("/appointments/{id:[0-9]+}/status", secure("appointment:update", appointmentHandler.UpdateStatus)).Methods("PATCH")

	// Provider workspace
	r.Handle("/provider/appointments", secure("appointment:feed", appointmentHandler.GetProviderFeed)).Methods("GET")
	r.Handle("/provider/appointments", secure("appointment:status", appointmentHandler.PatchProviderAppointment)).Methods("PATCH")
	r.Handle("/provider/dashboard", secure("dashboard:provider", dashboardHandler.ProviderDashboard)).Methods("GET")

	// Mother self-service (read-only views plus emergency alert)
	r.Handle("/mother/appointments", secure("appointment:own", appointmentHandler.GetMotherAppointments)).Methods("GET")
	r.Handle("/mother/health-record", secure("healthrecord:own", recordHandler.GetOwnRecord)).Methods("GET")
	r.Handle("/mother/examinations", secure("examination:own", examHandler.ListOwnExaminations)).Methods("GET")
	r.Handle("/mother/dashboard", secure("dashboard:mother", dashboardHandler.MotherDashboard)).Methods("GET")
	r.Handle("/mother/emergency", secure("emergency:raise", notificationHandler.RaiseEmergency)).Methods("POST")

	// Notifications (every role)
	r.Handle("/notifications", secure("notification:view", notificationHandler.ListNotifications)).Methods("GET")
	r.Handle("/notifications/read-all", secure("notification:update", notificationHandler.MarkAllRead)).Methods("POST")
	r.Handle("/notifications/{id:[0-9]+}/read", secure("notification:update", notificationHandler.MarkRead)).Methods("POST")

	// Administration
	r.Handle("/admin/dashboard", secure("dashboard:admin", dashboardHandler.AdminDashboard)).Methods("GET")
	r.Handle("/admin/activity", secure("activity:view", activityHandler.ListActivity)).Methods("GET")
	r.Handle("/admin/settings", secure("settings:view", settingsHandler.GetSettings)).Methods("GET")
	r.Handle("/admin/settings", secure("settings:update", settingsHandler.UpdateSettings)).Methods("PUT")

	return withRecovery(withCORS(deps.AllowedOrigins)(r))
}
