package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
)

var evaluateFlags struct {
	rulesets string
	answers  string
	asJSON   bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the decision engine offline against a ruleset file",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateFlags.rulesets, "rulesets", "", "Ruleset YAML file (required)")
	f.StringVar(&evaluateFlags.answers, "answers", "", "Answers JSON file (required)")
	f.BoolVar(&evaluateFlags.asJSON, "json", false, "Print the assessment as JSON")

	_ = evaluateCmd.MarkFlagRequired("rulesets")
	_ = evaluateCmd.MarkFlagRequired("answers")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	sets, err := loadRulesets(evaluateFlags.rulesets)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(evaluateFlags.answers)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	var answers model.AnswerSet
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("parse answers: %w", err)
	}

	code, err := eligibility.ValidateJurisdiction(answers)
	if err != nil {
		return err
	}
	res, err := eligibility.NewEvaluator().Evaluate(sets[code], answers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if evaluateFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Assessment)
	}
	printAssessment(out, res)
	return nil
}
