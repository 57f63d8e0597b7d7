package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/c14220110/billing-backend/config"
	"github.com/c14220110/billing-backend/internal/common/middlewares"
	"github.com/c14220110/billing-backend/internal/routes"
	"github.com/c14220110/billing-backend/pkg/logger"
	"github.com/c14220110/billing-backend/pkg/storage/mariadb"
	"github.com/c14220110/billing-backend/pkg/utils"
	"github.com/c14220110/billing-backend/ws"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.NewZapLogger(cfg)
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET wajib diisi")
	}

	db := mariadb.Connect(cfg, log)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = utils.GoccyJSONSerializer{}
	e.Validator = utils.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middlewares.RequestID())
	e.Use(middlewares.RequestLogger(log))

	jm := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	routes.Init(e, db, jm, log, hub)

	go func() {
		log.Info("Server berjalan", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server berhenti", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Mematikan server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown gagal", zap.Error(err))
	}
}
