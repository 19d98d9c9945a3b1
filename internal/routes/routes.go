package routes

import (
	"net/http"

	"github.com/programpal/pathfinder/internal/app"
	"github.com/programpal/pathfinder/internal/handler"
	"github.com/programpal/pathfinder/internal/logger"
	"github.com/programpal/pathfinder/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	programs := handler.NewProgramHandler(app.ProgramService)
	documents := handler.NewDocumentHandler(app.DocumentService, app.Cfg.MaxUploadBytes)
	emails := handler.NewEmailHandler(app.EmailService)
	search := handler.NewSearchHandler(app.Search)
	analysis := handler.NewAnalysisHandler(app.AnalysisService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// Auth (rate limited per client IP)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow, app.Cfg.TrustProxyHeaders)
	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /auth/token", rateLimiter(auth.Token))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(auth.Me))

	// Programs
	mux.HandleFunc("POST /programs", middleware.RequireAuth(programs.Create))
	mux.HandleFunc("GET /programs", middleware.RequireAuth(programs.List))
	mux.HandleFunc("GET /programs/{id}", middleware.RequireAuth(programs.Get))
	mux.HandleFunc("DELETE /programs/{id}", middleware.RequireAuth(programs.Delete))

	// Documents
	mux.HandleFunc("POST /documents", middleware.RequireAuth(documents.Upload))
	mux.HandleFunc("GET /documents", middleware.RequireAuth(documents.List))
	mux.HandleFunc("GET /documents/{id}", middleware.RequireAuth(documents.Get))
	mux.HandleFunc("GET /documents/{id}/content", middleware.RequireAuth(documents.Content))
	mux.HandleFunc("DELETE /documents/{id}", middleware.RequireAuth(documents.Delete))

	// Emails
	mux.HandleFunc("POST /emails", middleware.RequireAuth(emails.Create))
	mux.HandleFunc("GET /emails", middleware.RequireAuth(emails.List))
	mux.HandleFunc("POST /emails/send", middleware.RequireAuth(emails.Send))
	mux.HandleFunc("GET /emails/{id}", middleware.RequireAuth(emails.Get))
	mux.HandleFunc("PATCH /emails/{id}", middleware.RequireAuth(emails.UpdateStatus))
	mux.HandleFunc("DELETE /emails/{id}", middleware.RequireAuth(emails.Delete))

	// Search & analysis
	mux.HandleFunc("POST /search", middleware.RequireAuth(search.Search))
	mux.HandleFunc("POST /ai/analyze_document", middleware.RequireAuth(analysis.AnalyzeDocument))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Recover(logger.SentryEnabled()),
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.AuthMiddleware(app.AuthService), // Before logging so user_id is logged
		middleware.RequestLogging,
	)
}
