// seed is the operator CLI for rulesets: load them into the store and try
// them offline.
//
// Usage:
//
//	seed rulesets --file rulesets.yaml [--mongo-uri=...] [--redis-addr=...]
//	seed evaluate --rulesets rulesets.yaml --answers answers.json
//	seed interview --rulesets rulesets.yaml --jurisdiction CA
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage and try out employer registration rulesets",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(rulesetsCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(interviewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
