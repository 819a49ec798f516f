package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/auth"
	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/database"
	"github.com/taskhive/taskhive-api/internal/handlers"
	"github.com/taskhive/taskhive-api/internal/middleware"
	"github.com/taskhive/taskhive-api/internal/realtime"
	"github.com/taskhive/taskhive-api/internal/repository"
	"github.com/taskhive/taskhive-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default roles and permissions
	if cfg.SeedDatabase {
		if err := database.Seed(database.GetDB()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize dependencies
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	hub := realtime.NewHub()

	permissionService := services.NewPermissionService(roleRepo, userRepo)
	authService := services.NewAuthService(userRepo, roleRepo, issuer)
	taskService := services.NewTaskService(taskRepo, userRepo, permissionService, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, permissionService)
	roleHandler := handlers.NewRoleHandler(permissionService)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.UploadDir)
	eventsHandler := handlers.NewEventsHandler(hub)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task management API is running",
		})
	})

	// Public auth routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Real-time event stream (read-only fan-out)
	r.GET("/events", eventsHandler.Stream)

	// Administrative role management
	r.GET("/roles", roleHandler.ListRoles)
	r.POST("/roles", roleHandler.CreateRole)
	r.POST("/roles/permissions", roleHandler.ReplacePermissions)
	r.GET("/roles/:id/permissions", roleHandler.ListPermissions)

	// Task routes (token + permission gated)
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth(issuer))
	{
		tasks.GET("", middleware.RequirePermission(permissionService, services.TasksResource, "GET"), taskHandler.ListTasks)
		tasks.POST("", middleware.RequirePermission(permissionService, services.TasksResource, "POST"), taskHandler.CreateTask)
		tasks.GET("/:id", middleware.RequirePermission(permissionService, services.TasksResource, "GET"), taskHandler.GetTask)
		tasks.PUT("/:id", middleware.RequirePermission(permissionService, services.TasksResource, "PUT"), taskHandler.UpdateTask)
		tasks.DELETE("/:id", middleware.RequirePermission(permissionService, services.TasksResource, "DELETE"), taskHandler.DeleteTask)
		tasks.POST("/:id/upload", taskHandler.UploadAttachment)
	}

	// User routes (token + permission gated)
	users := r.Group("/users")
	users.Use(middleware.RequireAuth(issuer))
	{
		users.GET("", middleware.RequirePermission(permissionService, "/users", "GET"), userHandler.ListUsers)
		users.POST("", middleware.RequirePermission(permissionService, "/users", "POST"), userHandler.CreateUser)
		users.PUT("/role", middleware.RequirePermission(permissionService, "/users/role", "PUT"), userHandler.UpdateUserRole)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
