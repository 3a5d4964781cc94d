package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/db"
	"github.com/jonathan/resume-forge/internal/embedding"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/pipeline"
)

var (
	generateProfileID string
	generateText      string
	generateFile      string
	generateURL       string
	generateOutputDir string
	generateVerbose   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored resume for a job description",
	Long: `Run the full generation pipeline: interpret the job description, select the most relevant profile content, rewrite it, apply ATS rules, and render PDF and DOCX files.

The profile is loaded from the database; DATABASE_URL is required.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateProfileID, "profile-id", "p", "", "Profile ID to generate for (required)")
	generateCmd.Flags().StringVar(&generateText, "text", "", "Job description text (mutually exclusive with --file and --url)")
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Path to a job description text file")
	generateCmd.Flags().StringVarP(&generateURL, "url", "u", "", "URL to fetch the job description from")
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "Directory for rendered files (defaults to OUTPUT_DIR)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print the interpretation, selection, and coverage summaries")
	_ = generateCmd.MarkFlagRequired("profile-id")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = generateOutputDir
	}

	profileID, err := uuid.Parse(generateProfileID)
	if err != nil {
		return fmt.Errorf("invalid profile ID: %w", err)
	}

	jdText, err := loadJobText(ctx, generateText, generateFile, generateURL)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	client := newLLMClient(ctx, cfg)
	engine := newEmbeddingEngine(ctx, cfg)
	generator := pipeline.NewGenerator(database, client, engine, cfg)

	progress := func(ev pipeline.ProgressEvent) {
		fmt.Printf("  %s: %s\n", ev.Phase, ev.Message)
	}
	result, err := generator.Generate(ctx, profileID, jdText, progress)
	if err != nil {
		return err
	}

	if generateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintJDData(result.JDAnalysis)
		printer.PrintSelection(result.Draft)
		printer.PrintCoverage(result.KeywordCoverage)
	}

	fmt.Printf("\nGenerated %q version %d (resume %s)\n", result.JobTitle, result.Version, result.ResumeID)
	if result.PDFPath != "" {
		fmt.Printf("  PDF:  %s\n", result.PDFPath)
	}
	if result.DOCXPath != "" {
		fmt.Printf("  DOCX: %s\n", result.DOCXPath)
	}
	if result.PDFPath == "" && result.DOCXPath == "" {
		fmt.Println("  no files rendered; the record is stored without artifacts")
	}
	return nil
}

// newLLMClient builds the Gemini client, or nil when no API key is set or
// the client cannot be constructed. A nil client means deterministic
// fallbacks everywhere.
func newLLMClient(ctx context.Context, cfg *config.Config) llm.Client {
	if cfg.APIKey == "" {
		return nil
	}
	llmCfg := llm.DefaultConfig().WithModel(cfg.LLMModel)
	llmCfg.RequestsPerMinute = cfg.LLMRPM
	llmCfg.CallTimeout = cfg.CallTimeout
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		log.Printf("LLM client unavailable, using fallbacks: %v", err)
		return nil
	}
	return client
}

// newEmbeddingEngine builds the configured embedding engine, or nil when it
// cannot be constructed. A nil engine degrades semantic scoring to defaults.
func newEmbeddingEngine(ctx context.Context, cfg *config.Config) embedding.Engine {
	engine, err := embedding.NewEngine(ctx, embedding.Config{
		Backend:           cfg.EmbeddingBackend,
		Model:             cfg.EmbeddingModel,
		Dimensions:        cfg.EmbeddingDim,
		LocalURL:          cfg.EmbeddingURL,
		APIKey:            cfg.APIKey,
		CallTimeout:       cfg.CallTimeout,
		RequestsPerMinute: cfg.LLMRPM,
	})
	if err != nil {
		log.Printf("embedding engine unavailable, scoring degrades: %v", err)
		return nil
	}
	return engine
}
