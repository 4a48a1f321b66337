package main

import (
	"log"
	"strings"

	"employee-management/internal/config"
	"employee-management/internal/events"
	"employee-management/internal/handler"
	"employee-management/internal/middleware"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/internal/service"
	"employee-management/pkg/database"
	"employee-management/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, rate limiting and refresh-token rotation disabled")
	}

	var searchIndex service.EmployeeSearchIndex
	if cfg.MeiliMasterKey != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchIndex = service.NewMeiliSearchIndex(meiliClient)
	} else {
		log.Println("MEILI_MASTER_KEY not set, quick search falls back to the database")
	}

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	eventBus := events.NewRedisBus(rdb)

	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	authService := service.NewAuthService(userRepo, fileStorage, rdb, cfg)
	templateService := service.NewTemplateService(templateRepo)
	employeeService := service.NewEmployeeService(employeeRepo, historyRepo, searchIndex, eventBus)
	documentService := service.NewDocumentService(documentRepo, employeeRepo, fileStorage)

	authHandler := handler.NewAuthHandler(authService)
	templateHandler := handler.NewTemplateHandler(templateService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	documentHandler := handler.NewDocumentHandler(documentService)
	eventsHandler := handler.NewEventsHandler(eventBus)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/change-password", authHandler.ChangePassword)
		api.GET("/profile", authHandler.GetProfile)
		api.PUT("/profile", authHandler.UpdateProfile)

		api.POST("/templates", templateHandler.CreateTemplate)
		api.GET("/templates", templateHandler.GetTemplates)
		api.GET("/templates/active", templateHandler.GetActiveTemplates)
		api.GET("/templates/:id", templateHandler.GetTemplate)
		api.PUT("/templates/:id", templateHandler.UpdateTemplate)
		api.DELETE("/templates/:id", templateHandler.DeleteTemplate)

		api.POST("/employees", employeeHandler.CreateEmployee)
		api.GET("/employees", employeeHandler.GetEmployees)
		api.GET("/employees/quick-search", employeeHandler.QuickSearch)
		api.GET("/employees/:id", employeeHandler.GetEmployee)
		api.PUT("/employees/:id", employeeHandler.UpdateEmployee)
		api.DELETE("/employees/:id", employeeHandler.DeleteEmployee)

		api.POST("/employees/:id/documents", documentHandler.UploadDocument)
		api.GET("/employees/:id/documents", documentHandler.GetDocuments)
		api.GET("/employees/:id/history", employeeHandler.GetEmployeeHistory)

		api.GET("/dashboard", employeeHandler.Dashboard)
		api.GET("/ws/events", eventsHandler.HandleWebSocket)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.FormTemplate{},
		&model.FormField{},
		&model.Employee{},
		&model.EmployeeCustomField{},
		&model.EmployeeDocument{},
		&model.EmployeeHistory{},
		&model.EmployeeDeletionLog{},
	)
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Super administrator"},
		{Name: "staff", Description: "HR staff"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@example.com").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hashedPasswordBytes),
		FirstName:    "System",
		LastName:     "Administrator",
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@example.com")
	log.Println("   Password: admin123")

	return nil
}
