package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/firstmoments/first-moments-api/internal/config"
	"github.com/firstmoments/first-moments-api/internal/database"
	"github.com/firstmoments/first-moments-api/internal/handlers"
	"github.com/firstmoments/first-moments-api/internal/jobs"
	"github.com/firstmoments/first-moments-api/internal/repository"
	cronjobs "github.com/firstmoments/first-moments-api/internal/scheduler"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/logger"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("Index creation error: %v", err)
	}
	cancel()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	momentRepo := repository.NewMomentRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg)
	profileService := services.NewProfileService(profileRepo, momentRepo)
	momentService := services.NewMomentService(momentRepo, profileRepo)
	achievementService := services.NewAchievementService(templateRepo, achievementRepo)
	locationService := services.NewLocationService(locationRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	profileHandler := handlers.NewProfileHandler(profileService, achievementService, notificationService)
	momentHandler := handlers.NewMomentHandler(momentService, achievementService, notificationService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, notificationService)
	locationHandler := handlers.NewLocationHandler(locationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes, rate limited per client IP
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(authLimiter.Middleware)
	authRoutes.HandleFunc("/register", userHandler.RegisterUserHandler).Methods("POST")
	authRoutes.HandleFunc("/login", userHandler.LoginUserHandler).Methods("POST")
	authRoutes.HandleFunc("/refresh", userHandler.RefreshTokenHandler).Methods("POST")
	authRoutes.HandleFunc("/verify", userHandler.VerifyEmailHandler).Methods("GET")
	authRoutes.HandleFunc("/request-password-reset", userHandler.RequestPasswordResetHandler).Methods("POST")
	authRoutes.HandleFunc("/reset-password", userHandler.ResetPasswordHandler).Methods("POST")

	// Protected user routes
	userRoutes := api.PathPrefix("/users").Subrouter()
	userRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	userRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")
	userRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	userRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	userRoutes.HandleFunc("/{id}", userHandler.DeleteUserHandler).Methods("DELETE")
	userRoutes.HandleFunc("/{id}/notification-settings", userHandler.UpdateNotificationSettingsHandler).Methods("PATCH")

	// Profile routes
	profileRoutes := api.PathPrefix("/profiles").Subrouter()
	profileRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	profileRoutes.HandleFunc("", profileHandler.CreateProfileHandler).Methods("POST")
	profileRoutes.HandleFunc("", profileHandler.GetProfilesHandler).Methods("GET")
	profileRoutes.HandleFunc("/{id}", profileHandler.GetProfileHandler).Methods("GET")
	profileRoutes.HandleFunc("/{id}", profileHandler.UpdateProfileHandler).Methods("PATCH")
	profileRoutes.HandleFunc("/{id}", profileHandler.DeleteProfileHandler).Methods("DELETE")

	// Moment routes
	momentRoutes := api.PathPrefix("/moments").Subrouter()
	momentRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	momentRoutes.HandleFunc("", momentHandler.CreateMomentHandler).Methods("POST")
	momentRoutes.HandleFunc("", momentHandler.GetMomentsHandler).Methods("GET")
	momentRoutes.HandleFunc("/{id}", momentHandler.GetMomentHandler).Methods("GET")
	momentRoutes.HandleFunc("/{id}", momentHandler.UpdateMomentHandler).Methods("PATCH")
	momentRoutes.HandleFunc("/{id}", momentHandler.DeleteMomentHandler).Methods("DELETE")

	// Achievement routes
	achievementRoutes := api.PathPrefix("/achievements").Subrouter()
	achievementRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	achievementRoutes.HandleFunc("/templates", achievementHandler.GetTemplatesHandler).Methods("GET")
	achievementRoutes.HandleFunc("/templates/{id}", achievementHandler.GetTemplateByIDHandler).Methods("GET")
	achievementRoutes.HandleFunc("", achievementHandler.GetUserAchievementsHandler).Methods("GET")
	achievementRoutes.HandleFunc("/summary", achievementHandler.GetSummaryHandler).Methods("GET")
	achievementRoutes.HandleFunc("/{templateID}/start", achievementHandler.StartAchievementHandler).Methods("POST")
	achievementRoutes.HandleFunc("/{templateID}/progress", achievementHandler.UpdateProgressHandler).Methods("POST")

	// Location routes
	locationRoutes := api.PathPrefix("/locations").Subrouter()
	locationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	locationRoutes.HandleFunc("", locationHandler.CreateLocationHandler).Methods("POST")
	locationRoutes.HandleFunc("", locationHandler.GetLocationsHandler).Methods("GET")
	locationRoutes.HandleFunc("/nearby", locationHandler.GetNearbyLocationsHandler).Methods("GET")
	locationRoutes.HandleFunc("/{id}", locationHandler.GetLocationHandler).Methods("GET")
	locationRoutes.HandleFunc("/{id}", locationHandler.UpdateLocationHandler).Methods("PATCH")
	locationRoutes.HandleFunc("/{id}", locationHandler.DeleteLocationHandler).Methods("DELETE")

	// Notification routes
	notificationRoutes := api.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.CreateNotificationHandler).Methods("POST")
	notificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/clear-all", notificationHandler.ClearAllHandler).Methods("DELETE")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Admin routes
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/achievements/templates", achievementHandler.CreateTemplateHandler).Methods("POST")
	adminRoutes.HandleFunc("/achievements/templates/{id}", achievementHandler.UpdateTemplateHandler).Methods("PATCH")
	adminRoutes.HandleFunc("/achievements/templates/{id}", achievementHandler.DeleteTemplateHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background maintenance
	sweeper := jobs.NewAchievementSweeper(userService, momentService, profileService, achievementService, notificationService)
	cronjobs.StartCronJobs(notificationService, sweeper)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
