// Command jobboard runs the job board API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/Abraxas-365/jobboard/pkg/config"
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "jobboard",
	Short:         "Job board API server",
	Long:          "Job board API: job postings, applications with resume upload, recruiter review and applicant ranking.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and configures logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logx.SetJSON(cfg.LogJSON, os.Stderr)
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	return cfg, nil
}
