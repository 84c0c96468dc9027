package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-intake/internal/extraction"
	"github.com/jonathan/applicant-intake/internal/llm"
	"github.com/jonathan/applicant-intake/internal/logger"
	"github.com/jonathan/applicant-intake/internal/observability"
	"github.com/jonathan/applicant-intake/internal/pipeline"
	"github.com/jonathan/applicant-intake/internal/record"
	"github.com/jonathan/applicant-intake/internal/types"
)

var (
	processName    string
	processEmail   string
	processPhone   string
	processAPIKey  string
	processVerbose bool
)

var processCmd = &cobra.Command{
	Use:   "process <cv-file>",
	Short: "Process a local CV file without starting the server",
	Long: `Run a single CV through the extraction pipeline and print the
resulting application record as JSON. Useful for inspecting what a
submission would produce.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processName, "name", "n", "", "Applicant name")
	processCmd.Flags().StringVar(&processEmail, "email", "", "Applicant email")
	processCmd.Flags().StringVar(&processPhone, "phone", "", "Applicant phone")
	processCmd.Flags().StringVar(&processAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print detailed pipeline output")
	rootCmd.AddCommand(processCmd)
}

func runProcess(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	apiKey := processAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	log := logger.New("warn", "console")
	defer func() { _ = log.Sync() }()

	opts := pipeline.Options{
		Submission: types.RawSubmission{
			Name:          processName,
			Email:         processEmail,
			Phone:         processPhone,
			FileBuffer:    buf,
			FileExtension: strings.ToLower(filepath.Ext(path)),
		},
		CVPublicLink: path,
		Builder:      record.NewBuilder(),
	}

	if apiKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		opts.Extractor = extraction.NewExtractor(client, log, 0)
	} else if processVerbose {
		fmt.Fprintln(os.Stderr, "No API key; using heuristic extraction only")
	}

	rec, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	if processVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintPersonalInfo(rec.PersonalInfo)
		printer.PrintExtraction(types.StructuredExtraction{
			PersonalInfo:   rec.PersonalInfo,
			Education:      rec.Education,
			Qualifications: rec.Qualifications,
			Projects:       rec.Projects,
		})
		printer.PrintApplicationRecord(rec)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
