package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/erhulee/insight-sub002/internal/core/config"
	"github.com/erhulee/insight-sub002/internal/core/db"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply definition store migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "show migration status instead of applying")
}

func storeURL() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.DatabaseURL, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	url, err := storeURL()
	if err != nil {
		return err
	}
	conn, err := db.Open(url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if migrateStatus {
		statuses, err := db.MigrateStatus(conn)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%-40s %s\n", s.ID, state)
		}
		return nil
	}

	if err := db.MigrateUp(conn); err != nil {
		return err
	}
	log.Println("migrations applied")
	return nil
}
