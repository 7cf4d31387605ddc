package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/arqon-study-api/api/swagger"
	"github.com/noah-isme/arqon-study-api/internal/repository"
	"github.com/noah-isme/arqon-study-api/internal/server"
	"github.com/noah-isme/arqon-study-api/internal/service"
	"github.com/noah-isme/arqon-study-api/pkg/config"
	"github.com/noah-isme/arqon-study-api/pkg/logger"
)

// @title ARQON Study API
// @version 1.0.0
// @description Courses, assignments and study sessions
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := repository.Open(cfg, logr)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	r := server.New(cfg, store, logr, metrics)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
