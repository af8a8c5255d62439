package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employercheck/internal/model"
	"employercheck/internal/service"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadRulesets(t *testing.T) {
	sets, err := loadRulesets(filepath.Join("testdata", "rulesets.yaml"))
	require.NoError(t, err)
	require.Len(t, sets, 4)

	ca := sets["CA"]
	require.NotNil(t, ca)
	assert.Equal(t, model.CompletenessComplete, ca.Completeness)
	ag, ok := ca.Branch(model.CategoryAgricultural)
	require.True(t, ok)
	assert.Equal(t, 20000.0, ag.Wage.Amount)
	assert.Equal(t, 20, ag.Weeks.Count)
	assert.Equal(t, []string{"Agricultural thresholds are not on file yet."}, sets["TX"].Notes)
}

func TestLoadRulesets_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad period":  "rulesets:\n  - jurisdiction: CA\n    completeness: complete\n    branches:\n      general:\n        wage: {amount: 10, period: month}\n",
		"duplicate":   "rulesets:\n  - jurisdiction: CA\n    completeness: complete\n  - jurisdiction: ca\n    completeness: partial\n",
		"unknown":     "rulesets:\n  - jurisdiction: ZZ\n    completeness: complete\n",
		"not yaml":    "rulesets: [",
		"empty entry": "rulesets:\n  -\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rulesets.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := loadRulesets(path)
			assert.Error(t, err)
		})
	}

	path := filepath.Join(t.TempDir(), "rulesets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cases["bad period"]), 0o644))
	_, err := loadRulesets(path)
	assert.ErrorIs(t, err, service.ErrInvalidRuleset)
}

func TestEvaluateCommand(t *testing.T) {
	out, err := execute(t, "evaluate",
		"--rulesets", filepath.Join("testdata", "rulesets.yaml"),
		"--answers", filepath.Join("testdata", "answers_ca.json"),
		"--json=false",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "recommendation: track_for_later")
	assert.Contains(t, out, "coverage:       CA complete")
}

func TestEvaluateCommand_JSON(t *testing.T) {
	out, err := execute(t, "evaluate",
		"--rulesets", filepath.Join("testdata", "rulesets.yaml"),
		"--answers", filepath.Join("testdata", "answers_ca.json"),
		"--json",
	)
	require.NoError(t, err, out)

	var a model.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, model.RecommendTrackForLater, a.Recommendation)
	assert.Equal(t, model.ConfidenceHigh, a.Confidence)
}

func TestInterviewCommand(t *testing.T) {
	out, err := execute(t, "interview",
		"--rulesets", filepath.Join("testdata", "rulesets.yaml"),
		"--jurisdiction", "tx",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "TX")
	assert.Contains(t, out, "completeness:    partial")
	assert.Contains(t, out, "weeks question:  true")
	assert.NotContains(t, out, "1500")
}

func TestRulesetsCommand_DryRun(t *testing.T) {
	out, err := execute(t, "rulesets", "--file", filepath.Join("testdata", "rulesets.yaml"), "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 rulesets valid")
}
