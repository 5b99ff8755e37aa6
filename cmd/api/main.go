package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/ws"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Workshop Management API
// @version         1.0
// @description     Role-based API for managing a vehicle repair workshop: clients, vehicles, work orders, and invoicing.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db); err != nil {
		log.Fatalf("Database seed failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Token codec and permission matrix
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.ClockSkew)
	matrix := auth.DefaultMatrix()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authService := service.NewAuthService(userRepo, auditRepo, codec, cfg.AccessTTL, cfg.MinPasswordLength)
	userService := service.NewUserService(userRepo, auditRepo)
	clientService := service.NewClientService(clientRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, clientRepo)
	orderService := service.NewOrderService(orderRepo, clientRepo, vehicleRepo, userRepo, auditRepo, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, settingRepo, auditRepo, txManager, wsHub)
	settingService := service.NewSettingService(settingRepo)
	auditService := service.NewAuditService(auditRepo)
	reportService := service.NewReportService(reportRepo)

	authmw := middleware.NewAuthMiddleware(codec, userRepo, matrix)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, authmw, matrix)
	userHandler := handler.NewUserHandler(userService, authmw)
	clientHandler := handler.NewClientHandler(clientService, authmw)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, authmw)
	orderHandler := handler.NewOrderHandler(orderService, authmw)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, authmw)
	reportHandler := handler.NewReportHandler(reportService, authmw)
	settingHandler := handler.NewSettingHandler(settingService, authmw)
	auditHandler := handler.NewAuditHandler(auditService, authmw)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(wsHub, c, codec, userRepo)
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	clientHandler.RegisterRoutes(api)
	vehicleHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	settingHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
