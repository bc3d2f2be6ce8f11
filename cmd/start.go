package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/zuai/sample-paper-api/config"
	"github.com/zuai/sample-paper-api/database"
	"github.com/zuai/sample-paper-api/handler"
	"github.com/zuai/sample-paper-api/middleware"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/service"
	"github.com/zuai/sample-paper-api/worker"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sample paper API server",
	Long:  `Starts the HTTP server, the extraction worker pool, and recovers unfinished extraction tasks.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())

		redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		mongoDb := mongoClient.Database(cfg.MongoDatabase)

		// init repos
		paperRepo := repository.NewPaperRepo(mongoDb.Collection("sample_papers"))
		taskRepo := repository.NewTaskRepo(mongoDb)

		// init services
		aiService, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini: %v", err)
		}
		defer aiService.Close()

		pdfService := service.NewPDFService()
		paperService := service.NewPaperService(paperRepo, redisClient, cfg.CacheTTL)
		extractService := service.NewExtractService(aiService, pdfService, paperRepo, taskRepo)

		pool := worker.NewPool(cfg.Workers, 256, extractService, taskRepo)
		pool.Start(ctx)
		if err := pool.Recover(ctx); err != nil {
			log.Printf("Task recovery failed: %v", err)
		}

		// Initialize handlers
		paperHandler := handler.NewPaperHandler(paperService)
		extractHandler := handler.NewExtractHandler(extractService, pool, cfg.UploadDir)
		taskHandler := handler.NewTaskHandler(taskRepo)
		healthHandler := handler.NewHealthHandler(database.MongoHealth{Client: mongoClient}, redisClient)
		docsHandler := handler.NewDocsHandler()

		// Setup Gin router
		router := gin.Default()
		router.Use(middleware.CorsMiddleware)

		router.GET("/health", healthHandler.HandleHealth)
		router.GET("/swagger.json", docsHandler.HandleSwaggerJSON)
		router.GET("/docs", docsHandler.HandleSwaggerUI)
		router.GET("/redoc", docsHandler.HandleRedoc)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/papers", paperHandler.HandleCreatePaper)
			apiV1.GET("/papers", paperHandler.HandlePaginatePapers)
			apiV1.GET("/papers/:id", paperHandler.HandleGetPaper)
			apiV1.PUT("/papers/:id", paperHandler.HandleUpdatePaper)
			apiV1.PATCH("/papers/:id", paperHandler.HandlePatchPaper)
			apiV1.DELETE("/papers/:id", paperHandler.HandleDeletePaper)

			apiV1.POST("/extract/text",
				middleware.RateLimit(redisClient, "extract-text", cfg.RateLimit.TextLimit, cfg.RateLimit.Window),
				extractHandler.HandleExtractText)
			apiV1.POST("/extract/pdf",
				middleware.RateLimit(redisClient, "extract-pdf", cfg.RateLimit.PDFLimit, cfg.RateLimit.Window),
				extractHandler.HandleExtractPDF)

			apiV1.GET("/tasks/:task_id", taskHandler.HandleTaskStatus)
		}

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on port %s...", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Server error: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		// Stop feeding workers, then wait for in-flight tasks. Anything still
		// pending or running is re-enqueued by Recover on the next start.
		cancel()
		pool.Wait()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
