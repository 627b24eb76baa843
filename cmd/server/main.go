package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"webshop/docs" // swagger docs
	"webshop/internal/app"
	"webshop/internal/auth"
	"webshop/internal/config"
	"webshop/internal/handler"
	"webshop/internal/logging"
	"webshop/internal/router"
)

// @title Webshop API
// @version 1.0
// @description Bookshop API with catalog browsing, purchases, administration and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shopApp, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer shopApp.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(shopApp.Cache)

	// Initialize handlers
	shop := shopApp.Shop
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(shop.AuthService, jwtService, tokenStore, logger),
		Catalog:  handler.NewCatalogHandler(shop.CatalogService),
		Purchase: handler.NewPurchaseHandler(shop.PurchaseService),
		Admin:    handler.NewAdminHandler(shop.AdminService),
		Seed:     handler.NewSeedHandler(shop.AdminService, shopApp.Store),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, handlers, jwtService, tokenStore)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	logger.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}
