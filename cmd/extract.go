package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/zuai/sample-paper-api/config"
	"github.com/zuai/sample-paper-api/database"
	"github.com/zuai/sample-paper-api/repository"
	"github.com/zuai/sample-paper-api/service"
)

// extractCmd runs one PDF extraction end to end without the HTTP server.
// Useful for trying out prompts and for bulk backfills.
var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract a sample paper from a local PDF",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filePath := args[0]
		if _, err := os.Stat(filePath); err != nil {
			log.Fatalf("Cannot read %s: %v", filePath, err)
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		ctx := context.Background()

		aiService, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini: %v", err)
		}
		defer aiService.Close()

		pdfService := service.NewPDFService()
		pages, err := pdfService.PageCount(filePath)
		if err != nil {
			log.Fatalf("Not a readable PDF: %v", err)
		}
		log.Printf("Extracting text from %d pages...", pages)

		text, err := pdfService.ExtractText(filePath)
		if err != nil {
			log.Fatalf("Text extraction failed: %v", err)
		}

		paper, err := aiService.GenerateSamplePaper(ctx, text)
		if err != nil {
			log.Fatalf("Content generation failed: %v", err)
		}

		if !dryRun {
			mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
			if err != nil {
				log.Fatalf("Failed to connect to MongoDB: %v", err)
			}
			defer mongoClient.Disconnect(context.Background())

			paperRepo := repository.NewPaperRepo(
				mongoClient.Database(cfg.MongoDatabase).Collection("sample_papers"))
			id, err := paperRepo.CreatePaper(ctx, paper)
			if err != nil {
				log.Fatalf("Failed to save sample paper: %v", err)
			}
			paper.ID = id
			log.Printf("Saved sample paper %s", id)
		}

		out, err := json.MarshalIndent(paper, "", "  ")
		if err != nil {
			log.Fatalf("Failed to render result: %v", err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("dry-run", false, "extract and print without saving to the database")
}
