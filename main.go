package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/controllers"
	"github.com/swiftclaim/claims-api/middleware"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/services"
)

func main() {
	log.Println("Starting SwiftClaim API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.ClaimStatus{},
		&models.VehicleType{},
		&models.IncidentType{},
		&models.Claim{},
		&models.ClaimAction{},
		&models.ClaimImage{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedLookups(db); err != nil {
		log.Fatalf("Failed to seed lookup tables: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Wire external collaborators
	if _, err := services.InitS3Service(); err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitDetectionService()
	services.InitReportService()
	services.InitAuthenticator()
	if cfg.DamageDetectionAPIURL == "" {
		log.Println("DAMAGE_DETECTION_API_URL not set, damage detection is disabled")
	}
	if cfg.ReportGenerationURL == "" {
		log.Println("REPORT_GENERATION_API_URL not set, report generation is disabled")
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter creates and configures the Gin router with all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		claims := v1.Group("/claims")
		{
			claims.GET("", controllers.ListClaims)
			claims.POST("", controllers.CreateClaim)
			claims.GET("/:id", controllers.GetClaim)
			claims.DELETE("/:id", middleware.RequireAuth(), controllers.DeleteClaim)
			claims.PUT("/:id/status", middleware.RequireAuth(), controllers.UpdateClaimStatus)
			claims.GET("/:id/status", controllers.GetClaimStatusHistory)
			claims.POST("/:id/detect-damage", controllers.DetectDamage)
			claims.POST("/:id/generate-report", controllers.GenerateReport)
			claims.POST("/:id/images", controllers.UploadClaimImage)
			claims.GET("/:id/images", controllers.ListClaimImages)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SwiftClaim API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
