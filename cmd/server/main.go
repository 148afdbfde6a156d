package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/application/usecase"
	"github.com/missionboard/missionboard/infrastructure/adapter/memory"
	"github.com/missionboard/missionboard/infrastructure/adapter/postgres"
	redisadapter "github.com/missionboard/missionboard/infrastructure/adapter/redis"
	"github.com/missionboard/missionboard/infrastructure/config"
	httpserver "github.com/missionboard/missionboard/infrastructure/http"
	"github.com/missionboard/missionboard/infrastructure/migrations"
	"github.com/missionboard/missionboard/infrastructure/service/jwt"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
	"github.com/missionboard/missionboard/infrastructure/service/password"
	"github.com/missionboard/missionboard/infrastructure/service/ratelimit"
)

const purgeInterval = time.Hour

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before serving")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "missionboard",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":           cfg.Environment,
		"refresh_store": cfg.RefreshStore,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	if *migrate {
		if err := migrations.Up(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		structuredLogger.Info(ctx, "Migrations applied", nil)
	}

	rlLogger := logrus.New()
	rlLogger.SetFormatter(&logrus.JSONFormatter{})
	rateLimitService, err := ratelimit.NewRateLimitService(ctx, ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		LoginAttempts: cfg.RateLimitLoginAttempts,
		LoginWindow:   cfg.RateLimitLoginWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, rlLogger)
	if err != nil {
		// Login throttling is best effort; serve without it.
		structuredLogger.Error(ctx, "Failed to initialize rate limit service", err, nil)
		rateLimitService = ratelimit.NewNoop()
	}

	refreshStore, closeStore, err := newRefreshStore(ctx, cfg, db, structuredLogger)
	if err != nil {
		log.Fatalf("Failed to initialize refresh token store: %v", err)
	}
	defer closeStore()

	tokenCodec, err := jwt.NewJWTService(jwt.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)

	userRepo := postgres.NewUserRepositoryAdapter(db)
	boardRepo := postgres.NewBoardRepositoryAdapter(db)
	columnRepo := postgres.NewColumnRepositoryAdapter(db)
	cardRepo := postgres.NewCardRepositoryAdapter(db)

	authUseCase := usecase.NewAuthUseCase(userRepo, refreshStore, tokenCodec, passwordService, rateLimitService, structuredLogger, usecase.AuthConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		LoginAttempts:   cfg.RateLimitLoginAttempts,
		LoginWindow:     cfg.RateLimitLoginWindow,
		BlockDuration:   cfg.RateLimitBlockDuration,
	})
	gate := usecase.NewTokenGate(tokenCodec, refreshStore, usecase.NewPrincipalResolver(userRepo), structuredLogger, cfg.AccessTokenTTL)

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:                 cfg.Addr(),
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
		LoginRetryAfter:      cfg.RateLimitBlockDuration,
	}, httpserver.Dependencies{
		AuthUseCase:   authUseCase,
		UserUseCase:   usecase.NewUserUseCase(userRepo, refreshStore, passwordService, structuredLogger),
		BoardUseCase:  usecase.NewBoardUseCase(boardRepo),
		ColumnUseCase: usecase.NewColumnUseCase(boardRepo, columnRepo),
		CardUseCase:   usecase.NewCardUseCase(userRepo, boardRepo, columnRepo, cardRepo),
		TokenGate:     gate,
		RateLimiter:   rateLimitService,
		Logger:        structuredLogger,
		Health:        db.PingContext,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{"addr": cfg.Addr()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}

// newRefreshStore builds the configured RefreshTokenStore and returns a
// function releasing whatever it holds.
func newRefreshStore(ctx context.Context, cfg *config.Config, db *sql.DB, log logger.Logger) (outbound.RefreshTokenStore, func(), error) {
	switch cfg.RefreshStore {
	case config.RefreshStoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return redisadapter.NewRefreshTokenStore(client, cfg.RefreshTokenSalt), func() { _ = client.Close() }, nil

	case config.RefreshStoreMemory:
		store := memory.NewRefreshTokenStore()
		return store, func() { _ = store.Close() }, nil

	default:
		store := postgres.NewRefreshTokenStore(db, cfg.RefreshTokenSalt)
		purgeCtx, stop := context.WithCancel(ctx)
		go purgeExpired(purgeCtx, store, log)
		return store, stop, nil
	}
}

// purgeExpired removes expired refresh records; reads already ignore them.
func purgeExpired(ctx context.Context, store *postgres.RefreshTokenStore, log logger.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn(ctx, "Failed to purge expired refresh tokens", map[string]interface{}{"error": err.Error()})
				continue
			}
			if n > 0 {
				log.Info(ctx, "Purged expired refresh tokens", map[string]interface{}{"count": n})
			}
		}
	}
}
