package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/najma-se/Hospital-Appointment-sys/internal/config"
	"github.com/najma-se/Hospital-Appointment-sys/internal/handler"
	appointmentHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/appointment"
	authHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/auth"
	departmentHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/department"
	doctorHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/doctor"
	requestHandler "github.com/najma-se/Hospital-Appointment-sys/internal/handler/request"
	"github.com/najma-se/Hospital-Appointment-sys/internal/middleware"
	"github.com/najma-se/Hospital-Appointment-sys/internal/repository/postgres"
	"github.com/najma-se/Hospital-Appointment-sys/internal/router"
	appointmentService "github.com/najma-se/Hospital-Appointment-sys/internal/service/appointment"
	authService "github.com/najma-se/Hospital-Appointment-sys/internal/service/auth"
	catalogService "github.com/najma-se/Hospital-Appointment-sys/internal/service/catalog"
	requestService "github.com/najma-se/Hospital-Appointment-sys/internal/service/request"
	pkgauth "github.com/najma-se/Hospital-Appointment-sys/pkg/auth"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/logger"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/security"
)

func main() {
	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Lookup cache is optional; the catalog falls back to the database.
	var cache *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
		cache = redis.NewClient(opts)
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, doctor lookup cache disabled")
			cache = nil
		}
	} else {
		log.Warn().Err(err).Msg("invalid redis URL, doctor lookup cache disabled")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	deptRepo := postgres.NewDepartmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	requestRepo := postgres.NewRequestRepository(db)

	// Services
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(12)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher)
	catalogSvc := catalogService.NewService(deptRepo, doctorRepo, cache, cfg.Redis.CacheTTL)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	requestSvc := requestService.NewService(requestRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	h := handler.NewHandler()

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		departmentHandler.NewHandler(catalogSvc),
		doctorHandler.NewHandler(catalogSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		requestHandler.NewHandler(requestSvc),
		h,
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RequestsPerSecond,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "hms",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
