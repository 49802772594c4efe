package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clinic_booking/internal/config"
	"clinic_booking/internal/handler"
	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"
	"clinic_booking/internal/service"
	"clinic_booking/internal/utils"
	"clinic_booking/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET_KEY not set in environment")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(jwtSecret, accessTokenTTL, refreshTokenTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	doctorRepo := repository.NewDoctorRepository(dbPool)
	adminRepo := repository.NewAdminRepository(dbPool)
	tokenRepo := repository.NewTokenRepository(dbPool)
	apptRepo := repository.NewAppointmentRepository(dbPool)
	articleRepo := repository.NewArticleRepository(dbPool)
	chatRepo := repository.NewChatRepository(dbPool)

	if err := seedAdmin(adminRepo); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// --- Initialize Services ---
	hub := ws.NewHub()
	authService := service.NewAuthService(userRepo, doctorRepo, adminRepo, tokenRepo, jwtUtil)
	userService := service.NewUserService(userRepo)
	doctorService := service.NewDoctorService(doctorRepo)
	bookingService := service.NewBookingService(apptRepo, doctorRepo, userRepo)
	articleService := service.NewArticleService(articleRepo)
	chatService := service.NewChatService(chatRepo, userRepo, doctorRepo, hub)
	hub.SetMembership(chatService.IsMember)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, jwtUtil)
	userHandler := handler.NewUserHandler(userService, doctorService, bookingService)
	doctorHandler := handler.NewDoctorHandler(doctorService, bookingService)
	adminHandler := handler.NewAdminHandler(doctorService, bookingService)
	articleHandler := handler.NewArticleHandler(articleService, doctorService, userService)
	chatHandler := handler.NewChatHandler(chatService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()

	// Credentials travel in cookies, so origins must be explicit
	origins := []string{"http://localhost:3000"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// --- Initialize Middlewares ---
	authMW := middleware.AuthMiddleware(jwtUtil)
	loginLimiter := middleware.NewRateLimiter(5, 10)
	defer loginLimiter.Stop()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, loginLimiter.Middleware())
	userHandler.RegisterUserRoutes(apiGroup, authMW)
	doctorHandler.RegisterDoctorRoutes(apiGroup, authMW)
	adminHandler.RegisterAdminRoutes(apiGroup, authMW)
	articleHandler.RegisterArticleRoutes(apiGroup, authMW)
	chatHandler.RegisterChatRoutes(apiGroup, authMW)

	router.GET("/ws", ws.ServeWS(hub, jwtUtil))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// seedAdmin creates the initial admin credential record when the table is
// empty. Afterwards the env vars are ignored; admin logs in like any actor.
func seedAdmin(adminRepo repository.AdminRepository) error {
	ctx := context.Background()
	n, err := adminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account seeded (ADMIN_EMAIL / ADMIN_PASSWORD not set)")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.Admin{ID: uuid.New().String(), Email: email, PasswordHash: hashed}
	if err := adminRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded initial admin account %s", email)
	return nil
}
