package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/infrastructure/http/handler"
	"github.com/missionboard/missionboard/infrastructure/http/middleware"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

const LoginPath = "/api/users/login"

// ProtectedPatterns lists the paths that need an authenticated principal.
var ProtectedPatterns = []string{
	"/api/board/**",
	"/api/column/**",
	"/api/card/**",
	"/api/checklist/**",
	"/api/comment/**",
	"/api/users/me",
	"/api/users/password",
	"/api/users/logout",
}

type ServerConfig struct {
	Addr                 string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	LoginRetryAfter      time.Duration
}

// Dependencies are the use cases and services the HTTP layer drives.
type Dependencies struct {
	AuthUseCase   inbound.AuthUseCase
	UserUseCase   inbound.UserUseCase
	BoardUseCase  inbound.BoardUseCase
	ColumnUseCase inbound.ColumnUseCase
	CardUseCase   inbound.CardUseCase
	TokenGate     inbound.TokenGate
	RateLimiter   outbound.RateLimitService
	Logger        logger.Logger
	// Health reports whether backing stores are reachable. Optional.
	Health func(ctx context.Context) error
}

type Server struct {
	router  *mux.Router
	handler http.Handler
	server  *http.Server
	logger  logger.Logger
}

func NewServer(config ServerConfig, deps Dependencies) *Server {
	router := mux.NewRouter()

	handler.NewAuthHandler(deps.AuthUseCase, deps.UserUseCase, deps.Logger).RegisterRoutes(router)
	handler.NewBoardHandler(deps.BoardUseCase, deps.ColumnUseCase, deps.Logger).RegisterRoutes(router)
	handler.NewCardHandler(deps.CardUseCase, deps.Logger).RegisterRoutes(router)

	router.HandleFunc("/health", healthHandler(deps.Health)).Methods(http.MethodGet)

	isLogin := func(r *http.Request) bool {
		return r.Method == http.MethodPost && r.URL.Path == LoginPath
	}

	errorsMW := middleware.NewErrorMiddleware(deps.Logger)
	authorization := middleware.NewAuthorizationMiddleware(deps.TokenGate, deps.Logger, isLogin)
	throttle := middleware.NewLoginThrottleMiddleware(deps.RateLimiter, deps.Logger, isLogin, config.LoginRetryAfter)
	authentication := middleware.NewAuthenticationMiddleware(deps.AuthUseCase, deps.Logger, isLogin)
	rules := middleware.NewAccessRules(deps.Logger, ProtectedPatterns...)

	var h http.Handler = middleware.Chain(router,
		errorsMW.Recover,
		authorization.Authorize,
		throttle.Throttle,
		authentication.Authenticate,
		rules.Enforce,
	)
	if config.CORSEnabled && len(config.CORSAllowedOrigins) > 0 {
		h = middleware.CORSMiddleware(h, config.CORSAllowedOrigins, config.CORSAllowCredentials)
	}
	h = middleware.CorrelationIDMiddleware(h)

	return &Server{
		router:  router,
		handler: h,
		logger:  deps.Logger,
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      h,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Router exposes the inner router, behind the filter chain.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler is the full filter chain plus router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.server.Addr})
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				response.WriteJSON(w, http.StatusServiceUnavailable, false, "unhealthy", map[string]string{"status": "unhealthy"})
				return
			}
		}
		response.Success(w, http.StatusOK, "success", map[string]string{"status": "healthy"})
	}
}
