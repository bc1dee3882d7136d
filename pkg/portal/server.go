package portal

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alpaca-ads/multiauth-portal/pkg/config"
	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/metrics"
	"github.com/alpaca-ads/multiauth-portal/pkg/ratelimit"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
	"github.com/alpaca-ads/multiauth-portal/pkg/system"
)

// Server wires the portal's routes onto a gin engine. All handlers mutate
// session state exclusively through the session service, so the token store
// keeps a single writer even across the credential and OAuth2 paths.
type Server struct {
	gin      *gin.Engine
	config   *config.Config
	sessions *session.Service
	gateway  *gateway.Client
	limiter  *ratelimit.IPRateLimiter
	log      *zap.SugaredLogger
}

func NewServer(log *zap.Logger, cfg *config.Config, sessions *session.Service,
	gw *gateway.Client, debug bool,
) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
	)

	if debug {
		engine.Use(
			cors.New(cors.Config{
				AllowOrigins:     []string{"http://localhost:5173"},
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}),
		)
	}

	s := &Server{
		gin:      engine,
		config:   cfg,
		sessions: sessions,
		gateway:  gw,
		limiter:  ratelimit.New(ratelimit.DefaultLoginConfig()),
		log:      log.Sugar(),
	}
	engine.Use(s.requestLogger())
	s.registerRoutes()
	return s
}

// requestLogger attaches a request-scoped logger carrying a correlation ID,
// retrievable via system.GetReqLogger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(system.ReqLoggerKey, s.log.With("requestID", uuid.NewString()))
		c.Next()
	}
}

func (s *Server) registerRoutes() {
	e := s.gin

	e.Use(ServeAssets("/assets", "./assets"))

	e.GET("/", func(c *gin.Context) { redirectToLogin(c) })
	e.GET("/login", s.handleLoginPage)
	e.POST("/login", s.limiter.Middleware(), s.handleLoginSubmit)
	e.POST("/logout", s.handleLogout)

	e.GET("/auth/:provider", s.handleProviderEntry)
	e.GET("/oauth2/:provider/redirect", s.handleOAuthCallback)

	dashboard := e.Group("/dashboard", s.RequireSession())
	dashboard.GET("/profile/:authProvider", s.handleProfile)

	api := e.Group("/api")
	api.POST("/login", s.limiter.Middleware(), s.apiLogin)
	api.GET("/session", s.apiSession)
	api.POST("/logout", s.apiLogout)
	api.GET("/profile", s.RequireSessionAPI(), s.apiProfile)

	e.GET("/metrics", gin.WrapH(metrics.Handler()))
	e.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	// Unknown routes land on the login view, matching the anonymous entry
	// point for everything that is not explicitly routed.
	e.NoRoute(func(c *gin.Context) { redirectToLogin(c) })
}

// Engine exposes the underlying gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.gin
}

func (s *Server) Listen() error {
	if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
		return s.gin.RunTLS(s.config.Server.ListenAddress, s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
	}
	return s.gin.Run(s.config.Server.ListenAddress)
}
