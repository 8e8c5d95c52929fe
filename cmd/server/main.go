package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"csv_manager_backend/internal/backup"
	"csv_manager_backend/internal/commands"
	"csv_manager_backend/internal/middleware"
	"csv_manager_backend/internal/repositories"
	"csv_manager_backend/internal/router"
	"csv_manager_backend/internal/services"
	"csv_manager_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		os.Exit(commands.HashPassword(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
	}

	// .env is optional; real environment variables win.
	envLoadErr := godotenv.Load()

	// Initialize Logger
	utils.InitLogger(utils.Getenv("LOG_LEVEL", "info"), utils.GetenvBool("LOG_PRETTY", false))
	if envLoadErr != nil && !os.IsNotExist(envLoadErr) {
		utils.LogWarn("Failed to load .env file", map[string]interface{}{"error": envLoadErr.Error()})
	}

	dataDir := utils.Getenv("DATA_DIR", "data")
	defaultFile := utils.Getenv("DEFAULT_FILE", "client_data.csv")
	if filepath.Base(defaultFile) != defaultFile {
		log.Fatalf("DEFAULT_FILE must be a bare file name inside DATA_DIR, got %q", defaultFile)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory %s: %v", dataDir, err)
	}

	authService, err := services.NewAuthService(services.OperatorConfig{
		Username:      utils.Getenv("OPERATOR_USERNAME", ""),
		PasswordHash:  utils.Getenv("OPERATOR_PASSWORD_HASH", ""),
		JWTSecret:     utils.Getenv("JWT_SECRET", ""),
		JWTExpiration: utils.GetenvDuration("JWT_EXPIRATION", 12*time.Hour),
	})
	if err != nil {
		utils.LogError(err, "Invalid operator configuration")
		log.Fatalf("Invalid operator configuration: %v", err)
	}
	if !authService.Enabled() {
		utils.LogWarn("OPERATOR_PASSWORD_HASH not set; editing routes are open")
	}

	archiver, err := newArchiver()
	if err != nil {
		utils.LogError(err, "Failed to configure backups")
		log.Fatalf("Failed to configure backups: %v", err)
	}

	recordRepo := repositories.NewRecordRepository()
	sessionService := services.NewSessionService(recordRepo, archiver)
	templateService := services.NewTemplateService(recordRepo)

	if utils.Getenv("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())
	engine.Use(middleware.MetricsMiddleware())

	// CORS configuration
	allowedOrigins := utils.SplitAndTrim(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8501"))
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	router.Setup(engine, router.Dependencies{
		SessionService:  sessionService,
		TemplateService: templateService,
		AuthService:     authService,
		DataDir:         dataDir,
		DefaultFile:     defaultFile,
		MaxUploadBytes:  utils.GetenvInt64("MAX_UPLOAD_BYTES", 10<<20),
		MetricsUsername: utils.Getenv("METRICS_USERNAME", ""),
		MetricsPassword: utils.Getenv("METRICS_PASSWORD", ""),
	})

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{
		"port":         port,
		"data_dir":     dataDir,
		"default_file": defaultFile,
		"auth_enabled": authService.Enabled(),
	})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newArchiver builds the backup target named by BACKUP_PROVIDER. A nil
// archiver means backups are off.
func newArchiver() (backup.Archiver, error) {
	provider := strings.ToLower(utils.Getenv("BACKUP_PROVIDER", backup.ProviderNone))
	switch provider {
	case backup.ProviderNone:
		return nil, nil
	case backup.ProviderLocal:
		return backup.NewLocalArchiver(utils.Getenv("BACKUP_DIR", "backups"), utils.GetenvInt("BACKUP_KEEP", 20))
	case backup.ProviderS3:
		return backup.NewS3Archiver(backup.S3Config{
			Endpoint:        utils.Getenv("S3_ENDPOINT", ""),
			Region:          utils.Getenv("S3_REGION", ""),
			Bucket:          utils.Getenv("S3_BUCKET", ""),
			AccessKeyID:     utils.Getenv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: utils.Getenv("S3_SECRET_ACCESS_KEY", ""),
			Prefix:          utils.Getenv("S3_PREFIX", "backups"),
		})
	default:
		return nil, fmt.Errorf("unknown BACKUP_PROVIDER %q (want none, local or s3)", provider)
	}
}
