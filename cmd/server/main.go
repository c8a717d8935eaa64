package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/box-connector/internal/config"
	"github.com/iliyamo/box-connector/internal/handler"
	"github.com/iliyamo/box-connector/internal/middleware"
	"github.com/iliyamo/box-connector/internal/resolver"
	"github.com/iliyamo/box-connector/internal/router"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("refusing to start: %v", err)
	}

	res := resolver.New()
	appHandler := handler.NewAppHandler(cfg)
	tenantHandler := handler.NewTenantHandler(cfg, res)
	userHandler := handler.NewUserHandler(cfg, res)

	e := echo.New()
	e.HideBanner = true

	// Rate limiting is optional; without Redis the bucket is a pass-through.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())
	router.Register(e, cfg, appHandler, tenantHandler, userHandler, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
