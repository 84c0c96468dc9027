// Package main provides the entry point for the applicant intake HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake_server",
	Short: "Applicant Intake HTTP API Server",
	Long:  "Applicant Intake accepts CV submissions, extracts structured applicant data with Gemini, and forwards processed records to the recruitment workbook, webhook, and follow-up email queue.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
