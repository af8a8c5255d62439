package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
)

var confidenceColor = map[model.Confidence]*color.Color{
	model.ConfidenceHigh:   color.New(color.FgGreen),
	model.ConfidenceMedium: color.New(color.FgYellow),
	model.ConfidenceLow:    color.New(color.FgRed),
}

func printAssessment(w io.Writer, res *eligibility.Result) {
	a := res.Assessment
	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	cyan.Fprintf(w, "%s\n", a.Headline)
	fmt.Fprintf(w, "%s\n\n", a.Subhead)

	fmt.Fprintf(w, "recommendation: %s\n", a.Recommendation)
	fmt.Fprint(w, "confidence:     ")
	confidenceColor[a.Confidence].Fprintf(w, "%s\n", a.Confidence)
	fmt.Fprintf(w, "triggers:       amount=%s weeks=%s\n", res.Triggers.Amount, res.Triggers.Weeks)
	fmt.Fprintf(w, "coverage:       %s %s\n", a.DataCoverage.Jurisdiction, a.DataCoverage.Completeness)

	section(w, "Why", a.Why)
	section(w, "Next steps", a.NextSteps)
	if len(a.MissingInputs) > 0 {
		fmt.Fprintln(w, "\nMissing details")
		for _, m := range a.MissingInputs {
			fmt.Fprintf(w, "  ? %s (%s)\n", m.Prompt, m.Key)
		}
	}
	for _, c := range a.Callouts {
		color.New(color.FgYellow).Fprintf(w, "\n! %s\n", c.Title)
		fmt.Fprintf(w, "  %s\n", c.Body)
	}
	section(w, "Caveats", a.DataCoverage.Caveats)

	dim.Fprintf(w, "\n%s  %s\n", a.EvaluatorVersion, a.ID)
}

func section(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "  - %s\n", l)
	}
}
