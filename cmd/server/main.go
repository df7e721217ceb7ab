package main

import (
	"log"
	"net/http"

	_ "accountsvc/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"accountsvc/internal/auth"
	"accountsvc/internal/cache"
	"accountsvc/internal/config"
	"accountsvc/internal/db"
	"accountsvc/internal/handler"
	"accountsvc/internal/model"
	"accountsvc/internal/repository"
	"accountsvc/internal/router"
	"accountsvc/internal/service"
)

// @title User Account API
// @version 1.0
// @description User account service with registration, login, and JWT-protected profile management.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.RefreshTokenSecret)
	hasher := auth.NewPasswordHasher()
	accessValidator := service.NewAccessValidator(jwtService, userRepo, cacheClient)

	userService := service.NewUserService(userRepo, hasher, jwtService, accessValidator)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, userHandler)

	addr := ":" + cfg.AppPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
