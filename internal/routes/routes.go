package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twentyhard/twentyhard/internal/app"
	"github.com/twentyhard/twentyhard/internal/handler"
	"github.com/twentyhard/twentyhard/internal/middleware"
)

func SetupRoutes(app *app.App, rateLimiter *middleware.RateLimiter) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Store, app.Store.Driver)
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	challenge := handler.NewChallengeHandler(app.ChallengeService, app.PhotoService)
	weight := handler.NewWeightHandler(app.WeightService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Health)

	// Auth (rate limited)
	mux.HandleFunc("POST /api/auth/signup", rateLimiter.Limit(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimiter.Limit(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Profile
	mux.HandleFunc("GET /api/user/profile", middleware.RequireAuth(user.Profile))
	mux.HandleFunc("PUT /api/user/profile", middleware.RequireAuth(user.UpdateProfile))
	mux.HandleFunc("DELETE /api/user/profile", middleware.RequireAuth(user.DeleteAccount))

	// Challenge
	mux.HandleFunc("GET /api/challenge", middleware.RequireAuth(challenge.Get))
	mux.HandleFunc("POST /api/challenge/log", middleware.RequireAuth(challenge.LogDay))
	mux.HandleFunc("PUT /api/challenge/tasks", middleware.RequireAuth(challenge.UpdateTasks))
	mux.HandleFunc("GET /api/challenge/status", middleware.RequireAuth(challenge.Status))
	mux.HandleFunc("GET /api/challenge/validate/{date}", middleware.RequireAuth(challenge.ValidateDay))
	mux.HandleFunc("POST /api/challenge/photo", middleware.RequireAuth(challenge.UploadPhoto))

	// Weight
	mux.HandleFunc("GET /api/weight", middleware.RequireAuth(weight.Summary))
	mux.HandleFunc("PUT /api/weight/goal", middleware.RequireAuth(weight.SetGoal))
	mux.HandleFunc("POST /api/weight/entries", middleware.RequireAuth(weight.LogEntry))
	mux.HandleFunc("GET /api/weight/progress/{day}", middleware.RequireAuth(weight.Progress))
	mux.HandleFunc("GET /api/weight/export", middleware.RequireAuth(weight.Export))

	// ============================================================================
	// OPERATOR
	// ============================================================================

	mux.Handle("GET /metrics", middleware.BasicAuth(app.Cfg.MetricsUser, app.Cfg.MetricsPass)(promhttp.Handler()))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigins), // Answers preflight before anything else runs
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
		middleware.Monitor, // Must wrap the mux directly to see the matched pattern
	)
}
