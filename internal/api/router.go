package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/mira/feedhub/internal/api/handlers"
	"github.com/mira/feedhub/internal/api/middleware"
	"github.com/mira/feedhub/internal/apikeys"
	"github.com/mira/feedhub/internal/auth"
	"github.com/mira/feedhub/internal/corspolicy"
	"github.com/mira/feedhub/internal/identify"
	"github.com/mira/feedhub/internal/metrics"
	"github.com/mira/feedhub/internal/orgs"
	"github.com/mira/feedhub/internal/tenant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Logger      *slog.Logger
	JWTService  *auth.JWTService
	AsynqClient *asynq.Client

	SessionCookieName string
	APIKeyHMACSecret  string

	BaseDomain         string // platform apex, e.g. "feedhub.io"
	PreviewSuffix      string // preview deployment host suffix
	AllowedOrigins     []string
	CustomDomainSuffix string

	RateLimitReqs int // Rate limit requests per window
	RateLimitSecs int // Rate limit window in seconds

	Registry prometheus.Registerer // nil means the default registerer
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	m := metrics.New(registry)

	// Initialize services
	sessionService := auth.NewService(cfg.DB, cfg.JWTService, cfg.SessionCookieName)
	orgService := orgs.NewService(cfg.DB)
	keyService := apikeys.NewService(cfg.DB, cfg.APIKeyHMACSecret, cfg.AsynqClient, cfg.Logger)
	identifyService := identify.NewService(cfg.DB)

	resolver := tenant.Resolver{
		BaseDomain:    cfg.BaseDomain,
		PreviewSuffix: cfg.PreviewSuffix,
	}
	gate := tenant.NewGate(cfg.Logger)
	engine := tenant.NewEngine(resolver, orgService, gate, cfg.Logger)

	policy := corspolicy.New(cfg.AllowedOrigins, cfg.BaseDomain, cfg.CustomDomainSuffix)

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// Tenant rewrite and session gating for everything except static
	// assets and operational endpoints
	r.Use(middleware.Gateway(engine, sessionService, orgService, m))

	// CORS for cross-origin surfaces: the guard enforces the allow-list
	// (403, preflight 204), the cors handler attaches headers to allowed
	// actual requests. Credentialed, so the origin is always reflected.
	withCORS := func(r chi.Router) {
		r.Use(middleware.CORSGuard(policy))
		r.Use(cors.Handler(cors.Options{
			AllowOriginFunc: func(r *http.Request, origin string) bool {
				return policy.Allow(origin)
			},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
			ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           600,
		}))
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	identifyHandler := handlers.NewIdentifyHandler(identifyService, m)
	boardHandler := handlers.NewBoardHandler(cfg.DB, orgService)
	dashboardHandler := handlers.NewDashboardHandler(cfg.DB, orgService)
	pageHandler := handlers.NewPageHandler()

	// Operational endpoints (no gateway, no auth)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method("GET", "/metrics", promhttp.Handler())

	// Machine-credential API surface
	r.Route("/api/identify", func(r chi.Router) {
		withCORS(r)
		r.Use(middleware.APIKeyAuth(keyService, m))
		if cfg.RateLimitReqs > 0 {
			r.Use(middleware.RateLimitByOrg(cfg.RateLimitReqs, cfg.RateLimitSecs))
		}
		r.Post("/", identifyHandler.Identify)
	})

	// Session-cookie API surface
	r.Route("/api/auth", func(r chi.Router) {
		withCORS(r)
		r.Get("/session", pageHandler.Session)
	})

	// Tenant-scoped board surface: subdomain requests land here after the
	// rewrite; path-addressed access works the same way.
	r.Route("/external/{slug}", func(r chi.Router) {
		r.Get("/", boardHandler.Board)
		r.Get("/changelog", boardHandler.Changelog)
	})

	// Embeddable widget data, fetched cross-origin from customer sites
	r.Route("/embed/{slug}", func(r chi.Router) {
		withCORS(r)
		r.Get("/", boardHandler.Board)
	})

	// Pages
	r.Get(tenant.SignInPath, pageHandler.SignIn)
	r.Get(tenant.SignUpPath, pageHandler.SignUp)
	r.Get(tenant.OnboardingPath, pageHandler.Onboarding)
	r.Get(tenant.NotFoundPath, pageHandler.NotFound)
	r.Get("/", pageHandler.Home)
	r.Get("/{slug}", dashboardHandler.Show)

	return &Router{r}
}
