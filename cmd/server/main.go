package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"tasktracker/backend/internal/audit"
	audithandler "tasktracker/backend/internal/audit/handler"
	auditrepo "tasktracker/backend/internal/audit/repository"
	"tasktracker/backend/internal/config"
	"tasktracker/backend/internal/db"
	"tasktracker/backend/internal/health"
	healthhandler "tasktracker/backend/internal/health/handler"
	identityhandler "tasktracker/backend/internal/identity/handler"
	identityservice "tasktracker/backend/internal/identity/service"
	"tasktracker/backend/internal/logger"
	"tasktracker/backend/internal/metrics"
	"tasktracker/backend/internal/policy/engine"
	"tasktracker/backend/internal/ratelimit"
	"tasktracker/backend/internal/security"
	"tasktracker/backend/internal/server"
	"tasktracker/backend/internal/server/middleware"
	"tasktracker/backend/internal/session"
	taskhandler "tasktracker/backend/internal/task/handler"
	taskrepo "tasktracker/backend/internal/task/repository"
	taskservice "tasktracker/backend/internal/task/service"
	"tasktracker/backend/internal/telemetry"
	telemetryotel "tasktracker/backend/internal/telemetry/otel"
	"tasktracker/backend/internal/telemetry/producer"
	userrepo "tasktracker/backend/internal/user/repository"
)

const (
	serviceName         = "tasktracker-api"
	shutdownTimeout     = 15 * time.Second
	healthProbeInterval = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info", serviceName).Fatal("config", zap.Error(err))
	}
	log := logger.New(cfg.Env, cfg.LogLevel, serviceName)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: serviceName,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatal("otel setup", zap.Error(err))
	}
	providers.SetGlobal()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer database.Close()

	users := userrepo.NewPostgresRepository(database)
	tasks := taskrepo.NewPostgresRepository(database)

	passwords := security.NewHasher(cfg.BcryptCost)
	if cfg.AccessTokenSecret == "" {
		log.Warn("ACCESS_TOKEN_SECRET is unset; using a development secret")
		cfg.AccessTokenSecret = "dev-access-secret"
	}
	if cfg.RefreshTokenSecret == "" {
		log.Warn("REFRESH_TOKEN_SECRET is unset; using a development secret")
		cfg.RefreshTokenSecret = "dev-refresh-secret"
	}
	tokens := security.NewTokenCodec(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL())

	m := metrics.New("tasktracker")
	emitters := telemetry.Multi{m, telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	var events producer.Producer
	if kp := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.AuthEventsTopic); kp != nil {
		events = kp
		emitters = append(emitters, events)
		log.Info("auth events publishing to kafka", zap.String("topic", cfg.AuthEventsTopic))
	}
	auditRepo := auditrepo.NewPostgresRepository(database)
	auditLogger := audit.NewLogger(auditRepo, middleware.ClientIP, emitters, log)

	authSvc := identityservice.NewAuthService(users, session.NewStore(users, passwords), passwords, tokens, auditLogger, log,
		identityservice.Options{RevokeOnReuse: cfg.RevokeOnRefreshReuse})
	policySrc, err := engine.LoadPolicyFile(cfg.TaskPolicyFile)
	if err != nil {
		log.Fatal("task policy", zap.Error(err))
	}
	taskPolicy, err := engine.NewOPAEvaluator(ctx, policySrc, log)
	if err != nil {
		log.Fatal("task policy", zap.Error(err))
	}
	taskSvc := taskservice.NewTaskService(tasks, taskPolicy)

	checker := health.NewChecker()
	checker.Add("postgres", database)
	checker.Add("policy", taskPolicy)

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" && cfg.AuthRateLimit > 0 {
		rdb := ratelimit.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.AuthRateLimit, cfg.RateWindow())
		checker.Add("redis", health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }))
		log.Info("auth rate limiting enabled", zap.Int("limit", cfg.AuthRateLimit), zap.Duration("window", cfg.RateWindow()))
	}

	router := server.NewRouter(server.Deps{
		Log: log,
		Auth: identityhandler.NewHandler(authSvc, identityhandler.CookieSettings{
			Secure: cfg.IsProduction(),
			MaxAge: cfg.RefreshTTL(),
		}, log),
		Tasks:         taskhandler.NewHandler(taskSvc, log),
		Activity:      audithandler.NewHandler(auditRepo, log),
		Health:        healthhandler.NewHTTP(checker, log),
		Authenticator: middleware.NewAuthenticator(tokens),
		Audit:         auditLogger,
		Metrics:       m,
		AuthLimiter:   limiter,
		CORSOrigins:   cfg.CORSOrigins(),
		Production:    cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http serve", zap.Error(err))
		}
	}()

	var ops *grpc.Server
	if cfg.OpsGRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.OpsGRPCAddr)
		if err != nil {
			log.Fatal("ops grpc listen", zap.Error(err))
		}
		grpcHealth := healthhandler.NewGRPC(checker, log)
		go grpcHealth.Run(ctx, healthProbeInterval)
		ops = server.NewOpsGRPC(grpcHealth, log)
		go func() {
			log.Info("ops grpc listening", zap.String("addr", cfg.OpsGRPCAddr))
			if err := ops.Serve(lis); err != nil {
				log.Error("ops grpc serve", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if ops != nil {
		ops.GracefulStop()
	}
	// Let in-flight async audit emits finish before closing their sinks.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if events != nil {
		if err := events.Close(); err != nil {
			log.Error("kafka producer close", zap.Error(err))
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("otel shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
