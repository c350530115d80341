package routes

import (
	"net/http"

	"github.com/dakflow/dakflow/internal/app"
	"github.com/dakflow/dakflow/internal/handler"
	"github.com/dakflow/dakflow/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	file := handler.NewFileHandler(app.FileService)
	email := handler.NewEmailHandler(app.EmailService)
	department := handler.NewDepartmentHandler(app.DepartmentService)

	mux := http.NewServeMux()

	// Auth (rate limited, no token required)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/token/refresh", rateLimiter(auth.Refresh))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Files
	mux.HandleFunc("GET /api/files", middleware.RequireAuth(file.List))
	mux.HandleFunc("POST /api/files", middleware.RequireAuth(file.Create))
	mux.HandleFunc("POST /api/files/upload", middleware.RequireAuth(file.Upload))
	mux.HandleFunc("GET /api/files/{id}", middleware.RequireAuth(file.Get))
	mux.HandleFunc("PUT /api/files/{id}", middleware.RequireAuth(file.Update))
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RequireAuth(file.Delete))
	mux.HandleFunc("POST /api/files/{id}/update-status", middleware.RequireAuth(file.UpdateStatus))
	mux.HandleFunc("GET /api/files/{id}/history", middleware.RequireAuth(file.History))

	// Status history and email threads (owner scoped)
	mux.HandleFunc("GET /api/status-history", middleware.RequireAuth(file.AllHistory))
	mux.HandleFunc("GET /api/email-threads", middleware.RequireAuth(email.Threads))

	// Email dispatch
	mux.HandleFunc("POST /api/send-email", middleware.RequireAuth(email.Send))

	// Departments
	mux.HandleFunc("GET /api/departments", middleware.RequireAuth(department.List))
	mux.HandleFunc("POST /api/departments", middleware.RequireAuth(department.Create))

	// Locally stored uploads are served straight off disk; S3 paths
	// resolve to bucket URLs instead
	if app.Cfg != nil && app.Cfg.StorageDriver == "local" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.UploadDir))))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)
}
