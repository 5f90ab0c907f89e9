package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hosteldesk/hosteldesk-backend/api/controllers"
	"github.com/hosteldesk/hosteldesk-backend/api/middleware"
	"github.com/hosteldesk/hosteldesk-backend/internal/auth"
	"github.com/hosteldesk/hosteldesk-backend/internal/complaints"
	"github.com/hosteldesk/hosteldesk-backend/internal/hostels"
	"github.com/hosteldesk/hosteldesk-backend/internal/media"
	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	"github.com/hosteldesk/hosteldesk-backend/internal/reports"
	"github.com/hosteldesk/hosteldesk-backend/internal/users"
	"github.com/hosteldesk/hosteldesk-backend/pkg/config"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	"github.com/hosteldesk/hosteldesk-backend/pkg/logger"
	"github.com/hosteldesk/hosteldesk-backend/pkg/redis"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Auth          auth.Service
	Complaints    complaints.Service
	Users         users.Service
	Hostels       hostels.Service
	Notifications notifications.Service
	Reports       reports.Service
	Media         media.Store
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	adminRoles := []string{string(enums.RoleAdmin), string(enums.RoleChiefAdmin)}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Get("/api/hostel", controllers.HostelList(svcs.Hostels, logg))
	r.Get("/api/public/stats", controllers.PublicStats(svcs.Reports, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/api/hostel/{hostelID}", controllers.HostelDetail(svcs.Hostels, logg))

		r.Route("/api/complaints", func(r chi.Router) {
			r.Post("/", controllers.ComplaintCreate(svcs.Complaints, logg))
			r.Get("/", controllers.ComplaintList(svcs.Complaints, logg))
			r.Route("/{complaintID}", func(r chi.Router) {
				r.Get("/", controllers.ComplaintGet(svcs.Complaints, logg))
				r.Patch("/status", controllers.ComplaintUpdateStatus(svcs.Complaints, logg))
				r.Delete("/", controllers.ComplaintDelete(svcs.Complaints, logg))
				r.With(middleware.RequireRole(logg, adminRoles...)).Post("/assign", controllers.ComplaintAssign(svcs.Complaints, logg))
			})
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, adminRoles...))
			r.Get("/staff-requests", controllers.StaffRequestList(svcs.Users, logg))
			r.Post("/staff-requests/{userID}/approve", controllers.StaffRequestApprove(svcs.Users, logg))
			r.Post("/staff-requests/{userID}/reject", controllers.StaffRequestReject(svcs.Users, logg))
		})

		r.With(middleware.RequireRole(logg, adminRoles...)).Get("/api/users/staff", controllers.StaffList(svcs.Users, logg))

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Patch("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Patch("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/api/reports", func(r chi.Router) {
			r.Get("/sla", controllers.ReportSLA(svcs.Reports, logg))
			r.Get("/heatmap", controllers.ReportHeatmap(svcs.Reports, logg))
			r.Get("/csv", controllers.ReportCSV(svcs.Reports, logg))
		})

		r.Post("/api/media/upload", controllers.MediaUpload(svcs.Media, logg))
	})

	return r
}
