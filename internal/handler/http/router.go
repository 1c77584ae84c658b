package http

import (
	"log/slog"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      AuthHandler
	User      UserHandler
	Timesheet TimesheetHandler
	Leave     LeaveHandler
	Dashboard DashboardHandler
	Report    ReportHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	// Bodies are decoded as plain JSON; compressed uploads are refused.
	r.Use(chiMiddleware.AllowContentEncoding("identity"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.Principal)

			r.Post("/auth/change-password", h.Auth.ChangePassword)

			// Blocked until a temporary password is replaced
			r.Group(func(r chi.Router) {
				r.Use(middleware.PasswordResetGate)

				r.Route("/users", func(r chi.Router) {
					r.Get("/me", h.User.Me)
					r.Get("/{id}", h.User.Get)
				})

				r.Route("/timesheets", func(r chi.Router) {
					r.Get("/", h.Timesheet.ListMine)
					r.Get("/week", h.Timesheet.GetWeek)
					r.Put("/week", h.Timesheet.SaveWeek)
				})

				r.Route("/leave", func(r chi.Router) {
					r.Get("/types", h.Leave.ListTypes)
					r.Get("/summary", h.Leave.Summary)
					r.Post("/", h.Leave.CreateRequest)
					r.Post("/{id}/cancel", h.Leave.CancelRequest)
				})

				// Manager or admin
				r.Route("/manager", func(r chi.Router) {
					r.Use(middleware.RequireManager)

					r.Get("/team", h.User.ListTeam)
					r.Get("/dashboard", h.Dashboard.TeamWeek)

					r.Route("/timesheets", func(r chi.Router) {
						r.Get("/", h.Timesheet.ListTeam)
						r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export", h.Report.ExportTimesheets)
						r.Post("/{id}/approve", h.Timesheet.Approve)
						r.Post("/{id}/reject", h.Timesheet.Reject)
					})

					r.Route("/leave", func(r chi.Router) {
						r.Get("/", h.Leave.TeamQueue)
						r.Post("/{id}/approve", h.Leave.ApproveRequest)
						r.Post("/{id}/reject", h.Leave.RejectRequest)
					})
				})

				// Admin only
				r.Route("/admin", func(r chi.Router) {
					r.Use(middleware.RequireAdmin)

					r.Route("/users", func(r chi.Router) {
						r.Get("/", h.User.List)
						r.Post("/", h.User.Create)
						r.Put("/{id}/manager", h.User.AssignManager)
						r.Put("/{id}/role", h.User.UpdateRole)
						r.Post("/{id}/reset-password", h.User.ResetPassword)
					})
				})
			})
		})
	})
	return r
}
