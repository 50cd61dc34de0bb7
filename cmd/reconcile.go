package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var reconcileLimit int

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Link applications missing from their job's application list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		container, err := NewContainer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		report, err := container.ApplicationService.Reconcile(cmd.Context(), reconcileLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 500, "Maximum applications to relink (0 for all)")
	rootCmd.AddCommand(reconcileCmd)
}
