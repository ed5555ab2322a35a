package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hahnsoftware/emp-records-api/internal/config"
	"github.com/hahnsoftware/emp-records-api/internal/database"
	"github.com/hahnsoftware/emp-records-api/internal/handler"
	"github.com/hahnsoftware/emp-records-api/internal/middleware"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/repository"
	"github.com/hahnsoftware/emp-records-api/internal/router"
	"github.com/hahnsoftware/emp-records-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Department{}, &models.Employee{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	txRunner := repository.NewTxRunner(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditLogRepo, validate, logger)
	employeeService := service.NewEmployeeService(txRunner, employeeRepo, departmentRepo, auditService, validate, cfg.BcryptCost, logger)
	departmentService := service.NewDepartmentService(txRunner, departmentRepo, employeeRepo, auditService, validate, logger)
	authService := service.NewAuthService(employeeRepo, redisClient, validate, cfg.JWTSecret, cfg.TokenTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, logger)
	departmentHandler := handler.NewDepartmentHandler(departmentService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		EmployeeHandler:   employeeHandler,
		DepartmentHandler: departmentHandler,
		AuditHandler:      auditHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, authService),
		ActorMiddleware:   middleware.LoadActor(employeeRepo),
		LoginRateLimit:    middleware.RateLimit("login", 10, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
