package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/tasktracker-server/internal/api/authctx"
	grpcRouter "github.com/dtroode/tasktracker-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/tasktracker-server/internal/api/grpc/server"
	httpRouter "github.com/dtroode/tasktracker-server/internal/api/http/router"
	httpServer "github.com/dtroode/tasktracker-server/internal/api/http/server"
	"github.com/dtroode/tasktracker-server/internal/api/ws"
	"github.com/dtroode/tasktracker-server/internal/config"
	"github.com/dtroode/tasktracker-server/internal/hub"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/password"
	"github.com/dtroode/tasktracker-server/internal/repository/postgres"
	"github.com/dtroode/tasktracker-server/internal/server"
	"github.com/dtroode/tasktracker-server/internal/service"
	"github.com/dtroode/tasktracker-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const revocationPurgeInterval = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	statisticsRepo := postgres.NewStatisticsRepository(db)

	// A nil store disables revocation; keep it an untyped nil.
	var revocations model.RevocationStore
	if cfg.JWT.RevocationEnabled {
		revocationRepo := postgres.NewRevocationRepository(db)
		revocations = revocationRepo
		go purgeRevocations(ctx, revocationRepo, logger)
	}

	kdf := model.KDFParams{Time: cfg.KDF.Time, MemKiB: cfg.KDF.MemKiB, Par: cfg.KDF.Par}
	hasher := password.NewArgon2id(kdf, cfg.KDF.MaxConcurrency)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	credentials := service.NewCredentials(userRepo, hasher, kdf, logger)
	tokenService := service.NewTokenService(tokenManager, revocations, credentials, logger)
	authService := service.NewAuth(credentials, tokenService, logger)
	statisticsService := service.NewStatistics(statisticsRepo, logger)
	ctxMgr := authctx.NewManager()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := hub.NewMetrics(registry)

	broadcast := hub.New(hub.Config{
		MaxConnections: cfg.Push.MaxConnections,
		SendBuffer:     cfg.Push.SendBuffer,
		WriteTimeout:   cfg.Push.WriteTimeout,
	}, metrics, logger)
	projectService := service.NewProject(projectRepo, credentials, broadcast, logger)

	push := ws.NewHandler(ws.Config{
		HandshakeTimeout: cfg.Push.HandshakeTimeout,
		MaxMessageBytes:  cfg.Push.MaxMessageBytes,
	}, tokenService, broadcast, metrics, logger)

	httpSrv := httpServer.NewHTTPServer(
		httpRouter.New(authService, projectService, statisticsService, tokenService, ctxMgr, push, registry, logger).Register(),
		fmt.Sprintf(":%s", cfg.HTTP.Port),
	)
	grpcSrv := registerGRPCServer(logger, statisticsService, tokenService, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.TLS)
	servers := []model.Server{httpSrv, grpcSrv}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}
	// Push connections are hijacked and outlive http.Server.Shutdown.
	broadcast.Close()

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	statisticsService *service.Statistics,
	tokenService *service.TokenService,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := grpcRouter.New(statisticsService, tokenService, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}

func purgeRevocations(ctx context.Context, repo *postgres.RevocationRepository, logger *logger.Logger) {
	ticker := time.NewTicker(revocationPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to purge revoked tokens", "error", err)
				continue
			}
			logger.Debug("purged revoked tokens", "count", n)
		}
	}
}
