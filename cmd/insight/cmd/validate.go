package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erhulee/insight-sub002/internal/logic"
	"github.com/erhulee/insight-sub002/internal/store"
	"github.com/erhulee/insight-sub002/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.json>",
	Short: "Validate a survey definition file",
	Long:  `Checks every question against its variant schema and the display-logic config against configuration validation, reporting all violations at once.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func loadDefinition(path string) (*types.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var survey types.Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return &survey, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	survey, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	if err := store.ValidateDefinition(survey); err != nil {
		// Surface every violation, expanding config errors to one line each.
		var cfgErr *logic.ConfigError
		if errors.As(err, &cfgErr) {
			for _, msg := range cfgErr.Result.Messages() {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
		for _, line := range strings.Split(err.Error(), "\n") {
			if cfgErr != nil && line == cfgErr.Error() {
				continue
			}
			fmt.Fprintln(os.Stderr, line)
		}
		return fmt.Errorf("definition invalid")
	}

	fmt.Printf("%s: %d questions, %d rules, ok\n", args[0], len(survey.Questions), len(survey.Logic.Rules))
	return nil
}
