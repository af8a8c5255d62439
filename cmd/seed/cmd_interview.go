package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
)

var interviewFlags struct {
	rulesets     string
	jurisdiction string
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Show the hints and questions generated for a jurisdiction",
	RunE:  runInterview,
}

func init() {
	f := interviewCmd.Flags()
	f.StringVar(&interviewFlags.rulesets, "rulesets", "", "Ruleset YAML file (required)")
	f.StringVar(&interviewFlags.jurisdiction, "jurisdiction", "", "Two-letter jurisdiction code (required)")

	_ = interviewCmd.MarkFlagRequired("rulesets")
	_ = interviewCmd.MarkFlagRequired("jurisdiction")
}

func runInterview(cmd *cobra.Command, _ []string) error {
	sets, err := loadRulesets(interviewFlags.rulesets)
	if err != nil {
		return err
	}
	code, err := eligibility.ValidateJurisdiction(model.AnswerSet{model.KeyJurisdiction: interviewFlags.jurisdiction})
	if err != nil {
		return err
	}

	hints := eligibility.BuildHints(code, sets[code])
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)

	bold.Fprintf(out, "%s\n", code)
	fmt.Fprintf(out, "  completeness:    %s\n", hints.Completeness)
	fmt.Fprintf(out, "  timeframe mode:  %s\n", hints.AmountTimeframeMode)
	if hints.FixedAmountTimeframe != nil {
		fmt.Fprintf(out, "  fixed timeframe: %s\n", *hints.FixedAmountTimeframe)
	}
	fmt.Fprintf(out, "  weeks question:  %t\n", hints.NeedsWeeksQuestion)

	bold.Fprintln(out, "Questions")
	for _, q := range eligibility.Catalog(hints) {
		marker := " "
		if q.Required {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %-28s %s\n", marker, q.ID, q.Kind)
	}
	return nil
}
