package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erhulee/insight-sub002/internal/core/config"
	"github.com/erhulee/insight-sub002/internal/core/db"
	"github.com/erhulee/insight-sub002/internal/store"
)

var listOffset int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored survey definitions",
	Long:  `Lists survey definitions from the store, newest first. The page size comes from store.list_limit (INSIGHT_STORE_LIST_LIMIT).`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of surveys to skip")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	url := cfg.DatabaseURL
	if dbURL != "" {
		url = dbURL
	}

	conn, err := db.Open(url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	queries, err := db.LoadQueries(conn)
	if err != nil {
		return err
	}
	s := store.New(queries)

	ctx := cmd.Context()
	surveys, err := s.ListSurveys(ctx, cfg.ListLimit, listOffset)
	if err != nil {
		return err
	}
	total, err := s.Count(ctx)
	if err != nil {
		return err
	}

	for _, sv := range surveys {
		fmt.Printf("%-36s %-40s %d questions, %d rules\n", sv.ID, sv.Title, len(sv.Questions), len(sv.Logic.Rules))
	}
	fmt.Printf("%d of %d surveys\n", len(surveys), total)
	return nil
}
