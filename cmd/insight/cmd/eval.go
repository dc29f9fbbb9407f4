package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erhulee/insight-sub002/internal/logic"
	"github.com/erhulee/insight-sub002/internal/types"
)

var answersArg string

var evalCmd = &cobra.Command{
	Use:   "eval <definition.json>",
	Short: "Evaluate display logic against an answer snapshot",
	Long:  `Compiles the definition's display-logic config and prints per-question visibility for the given answers. Answers are inline JSON or @file.json.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&answersArg, "answers", "{}", `answers JSON ({"q1":"yes"}) or @path/to/answers.json`)
}

func loadAnswers(arg string) (types.Answers, error) {
	data := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		var err error
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, err
		}
	}
	var answers types.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	return answers, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	survey, err := loadDefinition(args[0])
	if err != nil {
		return err
	}
	answers, err := loadAnswers(answersArg)
	if err != nil {
		return err
	}

	compiled, err := logic.Compile(survey.Logic)
	if err != nil {
		return err
	}

	session := logic.NewSession(compiled)
	session.UpdateAnswers(answers)

	for _, q := range survey.Questions {
		state := "visible"
		if !session.Visible(q.ID) {
			state = "hidden"
		}
		fmt.Printf("%-36s %-12s %s\n", q.ID, q.Type, state)
	}

	hidden := session.HiddenQuestionIDs()
	ids := make([]string, 0, len(hidden))
	for id := range hidden {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Printf("hidden: %v\n", ids)
	return nil
}
