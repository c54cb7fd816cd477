package routes

import (
	"net/http"

	"github.com/MiguelProz/kairos/internal/app"
	"github.com/MiguelProz/kairos/internal/handler"
	"github.com/MiguelProz/kairos/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Storage)
	goal := handler.NewGoalHandler(app.GoalService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (login is rate limited; registration shares the limiter)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))

	// Account
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("PUT /api/auth/me", middleware.RequireAuth(auth.UpdateMe))
	mux.HandleFunc("POST /api/auth/me/avatar", middleware.RequireAuth(auth.UploadAvatar))
	mux.HandleFunc("DELETE /api/auth/me/avatar", middleware.RequireAuth(auth.DeleteAvatar))

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
		middleware.Auth(app.AuthService),
	)
}
