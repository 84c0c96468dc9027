package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/applicant-intake/internal/ledger"
)

var ledgerInitPath string

var ledgerInitCmd = &cobra.Command{
	Use:   "ledger-init",
	Short: "Create the applications workbook with its header row",
	RunE: func(_ *cobra.Command, _ []string) error {
		book := ledger.New(ledgerInitPath)
		if err := book.Init(); err != nil {
			return err
		}
		fmt.Printf("Ledger ready at %s\n", book.Path())
		return nil
	},
}

func init() {
	ledgerInitCmd.Flags().StringVar(&ledgerInitPath, "path", "applications.xlsx", "Workbook location")
	rootCmd.AddCommand(ledgerInitCmd)
}
