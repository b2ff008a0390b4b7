package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("✅ Config loaded successfully (env: %s)\n", cfg.Server.Env)

	// Load model artifacts. Serving without a model is meaningless.
	artifactRepo := repositories.NewArtifactRepository(cfg.Model)
	artifacts, err := artifactRepo.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load model artifacts: %v", err)
	}

	classifier, err := services.NewRoleClassifier(artifacts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize role classifier: %v", err)
	}
	log.Printf("✅ Model loaded (run %s, %d roles, %d features)\n",
		artifacts.Manifest.RunID, len(artifacts.Manifest.Classes), artifacts.Manifest.FeatureDim)

	// Initialize services
	pdfParser := services.NewPDFParserService()
	matchScorer := services.NewMatchScorer()
	analyzerService := services.NewAnalyzerService(pdfParser, matchScorer, classifier)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, cfg.Storage.MaxFileSize)
	healthHandler := handlers.NewHealthHandler(classifier)
	staticHandler := handlers.NewStaticHandler(cfg.Server.StaticDir)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		// Leave room for the multipart envelope around the file.
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.Server.IsProduction(),
	}))

	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if cfg.Server.IsProduction() {
		logFormat = "[${time}] ${ip} ${status} - ${latency} ${method} ${path} ${error}\n"
	}
	app.Use(logger.New(logger.Config{
		Format:        logFormat,
		TimeFormat:    "2006-01-02 15:04:05",
		DisableColors: cfg.Server.IsProduction(),
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	app.Post("/analyze", analyzeHandler.HandleAnalyze)
	app.Get("/health", healthHandler.HandleHealth)

	api := app.Group("/api/v1")
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/health", healthHandler.HandleHealth)

	// Front-end, registered last so it only catches what the API does not
	app.Get("/*", staticHandler.HandleStatic)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
