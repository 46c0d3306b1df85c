package routes

import (
	"net/http"

	"github.com/asistio/asistio/internal/app"
	"github.com/asistio/asistio/internal/handler"
	"github.com/asistio/asistio/internal/middleware"
	"github.com/asistio/asistio/internal/model"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(a.DB)
	auth := handler.NewAuthHandler(a.AuthService, a.ProfileService)
	admin := handler.NewAdminHandler(a.ProvisionService, a.ProfileService)
	attendance := handler.NewAttendanceHandler(a.AttendanceService)
	dashboard := handler.NewDashboardHandler(a.AttendanceService)
	profile := handler.NewProfileHandler(a.ProfileService, a.AvatarService)
	reference := handler.NewReferenceHandler(a.ReferenceService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// Reference data backs the sign-up and filter forms
	mux.HandleFunc("GET /api/roles", reference.Roles)
	mux.HandleFunc("GET /api/faculties", reference.Faculties)
	mux.HandleFunc("GET /api/careers", reference.Careers)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("POST /auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", rateLimiter(auth.ResetPassword))

	// ============================================================================
	// AUTHENTICATED ROUTES (/api/me)
	// ============================================================================

	mux.HandleFunc("GET /api/me", middleware.RequireAuth(profile.Me))
	mux.HandleFunc("PATCH /api/me", middleware.RequireAuth(profile.UpdateMe))
	mux.HandleFunc("GET /api/me/attendance", middleware.RequireAuth(attendance.ListMine))
	mux.HandleFunc("POST /api/me/avatar", middleware.RequireAuth(profile.UploadAvatar))
	mux.HandleFunc("DELETE /api/me/avatar", middleware.RequireAuth(profile.DeleteAvatar))

	// ============================================================================
	// ADMIN ROUTES (/admin/*)
	// ============================================================================

	requireAdmin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireRole(next, model.RoleAdmin)
	}

	mux.HandleFunc("POST /admin/users", requireAdmin(admin.CreateUser))
	mux.HandleFunc("POST /admin/users/delete", requireAdmin(admin.DeleteUser))
	mux.HandleFunc("GET /admin/users", requireAdmin(admin.ListUsers))
	mux.HandleFunc("PATCH /admin/users/{id}", requireAdmin(admin.UpdateUser))

	mux.HandleFunc("POST /admin/scan", requireAdmin(attendance.Scan))
	mux.HandleFunc("GET /admin/attendance", requireAdmin(attendance.List))
	mux.HandleFunc("GET /admin/dashboard", requireAdmin(dashboard.Stats))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(a.Cfg),
		middleware.SecurityHeaders,
		middleware.CORS(a.Cfg.CORSOrigins), // Answers preflights before auth runs
		middleware.RequestLogging,
		middleware.Auth(a.AuthService, a.ProfileService, a.Directory),
	)

	return h
}
