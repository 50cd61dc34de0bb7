package main

import (
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/pkg/migration"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := migration.Run(cmd.Context(), db, migration.Migrations)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			logx.Info("Database is up to date")
			return nil
		}
		for _, name := range applied {
			logx.Infof("Applied migration %s", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
