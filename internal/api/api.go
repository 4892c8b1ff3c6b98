package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"botdemo/internal/account"
	"botdemo/internal/config"
	"botdemo/internal/i18n"
	"botdemo/internal/model"
	"botdemo/internal/preferences"
	"botdemo/internal/sequence"
	"botdemo/internal/simulation"
)

// The package is split by concern:
// - api.go: handler, dependencies and routes (this file)
// - handler_*.go: HTTP request handlers per area
// - stream.go: websocket demo stream
// - middleware.go: middleware functions
// - errors.go: error to status mapping
// - server.go: graceful HTTP server

// Constants
const (
	DefaultTimeout      = 10 * time.Second
	ServiceVersion      = "1.0.0"
	ServiceName         = "botdemo"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
	VisitorIDHeaderKey  = "X-Visitor-ID"
	UserIDHeaderKey     = "X-User-ID"
)

// Simulator runs bot simulations.
type Simulator interface {
	Run(ctx context.Context, botType simulation.BotType, cfg *model.BotConfig) (model.SimulationResults, error)
}

// PreferenceService stores per-visitor language and cookie consent.
type PreferenceService interface {
	Language(ctx context.Context, visitorID string) (string, error)
	SetLanguage(ctx context.Context, visitorID, lang string) error
	Consent(ctx context.Context, visitorID string) (model.Consent, bool, error)
	SetConsent(ctx context.Context, visitorID string, c model.Consent) (model.Consent, error)
	Scripts(ctx context.Context, visitorID string) ([]preferences.Script, error)
}

// AccountService manages the dashboard account of a user.
type AccountService interface {
	Profile(ctx context.Context, userID string) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in account.ProfileInput) (model.Profile, error)
	Settings(ctx context.Context, userID string) (model.Settings, error)
	UpdateSettings(ctx context.Context, userID string, in account.SettingsInput) (model.Settings, error)
	Wallets(ctx context.Context, userID string) ([]model.Wallet, error)
	AddWallet(ctx context.Context, userID string, in account.WalletInput) (model.Wallet, error)
	SetPrimaryWallet(ctx context.Context, userID, walletID string) error
	RemoveWallet(ctx context.Context, userID, walletID string) error
}

// FormService stores the public form submissions.
type FormService interface {
	SubscribeNewsletter(ctx context.Context, email string) error
	SendContact(ctx context.Context, in account.ContactInput) error
	JoinWaitlist(ctx context.Context, in account.WaitlistInput) error
}

// CheckFunc reports whether a backing service is reachable.
type CheckFunc func(ctx context.Context) error

// Deps are the services behind the HTTP API.
type Deps struct {
	Simulator   Simulator
	Sessions    *sequence.Registry
	Translator  *i18n.Translator
	Preferences PreferenceService
	Accounts    AccountService
	Forms       FormService
	ReadyChecks map[string]CheckFunc
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	deps        Deps
	corsOrigins []string
	formLimiter *ipRateLimiter
	logger      *slog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(deps Deps, cfg config.Config, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		deps:        deps,
		corsOrigins: cfg.Server.CORSOrigins,
		formLimiter: newIPRateLimiter(cfg.Forms.RatePerMinute, cfg.Forms.Burst),
		logger:      logger,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(h.corsOrigins))
	router.Use(metricsMiddleware())

	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadyCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	v1.GET("/bots", h.ListBots)
	v1.GET("/bots/:type/config", h.GetBotConfig)
	v1.POST("/simulations", h.RunSimulation)
	v1.GET("/gateways", h.ListGateways)

	demo := v1.Group("/demo")
	demo.GET("/wallets", h.ListDemoWallets)
	demo.GET("/presets", h.ListDemoPresets)
	demo.POST("/sessions", h.CreateSession)
	demo.GET("/sessions/:id", h.GetSession)
	demo.DELETE("/sessions/:id", h.DeleteSession)
	demo.POST("/sessions/:id/wallet", h.SelectWallet)
	demo.POST("/sessions/:id/preset", h.SelectPreset)
	demo.POST("/sessions/:id/start", h.StartCopying)
	demo.POST("/sessions/:id/continue", h.ContinueCopying)
	demo.POST("/sessions/:id/reset", h.ResetSession)
	demo.GET("/sessions/:id/stream", h.StreamSession)

	v1.GET("/i18n/languages", h.ListLanguages)
	v1.GET("/i18n/:lang", h.GetDictionary)
	v1.GET("/i18n/:lang/:key", h.Translate)

	prefs := v1.Group("/preferences", visitorMiddleware())
	prefs.GET("/language", h.GetLanguage)
	prefs.PUT("/language", h.SetLanguage)
	prefs.GET("/consent", h.GetConsent)
	prefs.PUT("/consent", h.SetConsent)
	prefs.GET("/scripts", h.GetScripts)

	acct := v1.Group("/account", userMiddleware())
	acct.GET("/profile", h.GetProfile)
	acct.PUT("/profile", h.UpdateProfile)
	acct.GET("/settings", h.GetSettings)
	acct.PUT("/settings", h.UpdateSettings)
	acct.GET("/wallets", h.ListWallets)
	acct.POST("/wallets", h.AddWallet)
	acct.PUT("/wallets/:id/primary", h.SetPrimaryWallet)
	acct.DELETE("/wallets/:id", h.RemoveWallet)

	forms := v1.Group("/forms", rateLimitMiddleware(h.formLimiter))
	forms.POST("/newsletter", h.SubscribeNewsletter)
	forms.POST("/contact", h.SendContact)
	forms.POST("/waitlist", h.JoinWaitlist)

	return router
}
