package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/db"
	"github.com/jonathan/resume-forge/internal/fetch"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/parsing"
)

var (
	analyzeText string
	analyzeFile string
	analyzeURL  string
	analyzeJSON bool
)

var analyzeJDCmd = &cobra.Command{
	Use:   "analyze-jd",
	Short: "Interpret a job description",
	Long: `Interpret a job description into its structured form: role title, experience level, must-have and nice-to-have skills, and keywords.

The analysis is stored when DATABASE_URL is set; otherwise it is only printed.`,
	RunE: runAnalyzeJD,
}

func init() {
	analyzeJDCmd.Flags().StringVar(&analyzeText, "text", "", "Job description text (mutually exclusive with --file and --url)")
	analyzeJDCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a job description text file")
	analyzeJDCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "URL to fetch the job description from")
	analyzeJDCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the structured analysis as JSON")
	rootCmd.AddCommand(analyzeJDCmd)
}

// loadJobText resolves the JD text from exactly one of text, file, or url.
func loadJobText(ctx context.Context, text, file, url string) (string, error) {
	set := 0
	for _, v := range []string{text, file, url} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", fmt.Errorf("exactly one of --text, --file, or --url is required")
	}

	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	default:
		return fetch.JobDescription(ctx, url, nil)
	}
}

func runAnalyzeJD(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := config.Load()

	rawText, err := loadJobText(ctx, analyzeText, analyzeFile, analyzeURL)
	if err != nil {
		return err
	}

	client := newLLMClient(ctx, cfg)
	jd, err := parsing.NewAnalyzer(client).Analyze(ctx, rawText)
	if err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		record, err := database.CreateJDAnalysis(ctx, rawText, jd)
		if err != nil {
			return err
		}
		fmt.Printf("Stored JD analysis %s\n", record.ID)
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(jd, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintJDData(jd)
	return nil
}
