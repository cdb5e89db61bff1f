package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"public-notepad/internal/auth"
	"public-notepad/internal/config"
	"public-notepad/internal/database"
	"public-notepad/internal/handlers"
	"public-notepad/internal/ipfs"
	"public-notepad/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	db := database.GetDB()
	notificationService := services.NewNotificationService(db)
	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	ideaService := services.NewIdeaService(db, notificationService)
	interactionService := services.NewInteractionService(db, notificationService)
	followService := services.NewFollowService(db, notificationService)

	ipfsClient := ipfs.NewClient(cfg.IPFS.PinataJWT, cfg.IPFS.GatewayURL)
	if !ipfsClient.Enabled() {
		log.Println("IPFS pinning disabled (PINATA_JWT not set)")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService, ideaService, followService)
	ideaHandler := handlers.NewIdeaHandler(ideaService, interactionService, ipfsClient)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/nonce", authHandler.GenerateNonce)
		authRoutes.POST("/wallet", authHandler.WalletLogin)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public read routes (optional auth enriches responses)
	public := router.Group("/api")
	public.Use(auth.OptionalAuthMiddleware())
	{
		public.GET("/ideas", ideaHandler.GetIdeas)
		public.GET("/ideas/:id", ideaHandler.GetIdea)
		public.GET("/ideas/:id/interactions", interactionHandler.GetInteractions)
		public.GET("/ideas/:id/stats", interactionHandler.GetInteractionStats)
		public.GET("/users/:address", userHandler.GetUser)
		public.GET("/users/:address/ideas", userHandler.GetUserIdeas)
		public.GET("/users/:address/followers", userHandler.GetFollowers)
		public.GET("/users/:address/following", userHandler.GetFollowing)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Idea endpoints
		api.POST("/ideas", ideaHandler.CreateIdea)
		api.POST("/ideas/:id/mint", ideaHandler.RecordMint)
		api.DELETE("/ideas/:id", ideaHandler.DeleteIdea)

		// Interaction endpoints
		api.POST("/ideas/:id/interactions", interactionHandler.CreateInteraction)

		// Profile and follow endpoints
		api.PUT("/users/:address", userHandler.UpdateProfile)
		api.POST("/users/:address/follow", userHandler.FollowUser)
		api.DELETE("/users/:address/follow", userHandler.UnfollowUser)

		// Notification endpoints
		api.GET("/notifications", notificationHandler.GetNotifications)
		api.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)
		log.Printf("Wallet auth: POST http://localhost:%s/auth/wallet", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if err := database.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}

	log.Println("Server exited")
}
