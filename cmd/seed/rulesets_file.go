package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"employercheck/internal/eligibility"
	"employercheck/internal/model"
	"employercheck/internal/service"
)

type rulesetFile struct {
	Rulesets []*model.Ruleset `yaml:"rulesets"`
}

// loadRulesets reads and validates a ruleset file, keyed by jurisdiction
func loadRulesets(path string) (map[string]*model.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rulesets: %w", err)
	}
	var f rulesetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make(map[string]*model.Ruleset, len(f.Rulesets))
	for i, rs := range f.Rulesets {
		if rs == nil {
			return nil, fmt.Errorf("%s: ruleset %d is empty", path, i)
		}
		rs.Jurisdiction = eligibility.NormalizeJurisdiction(rs.Jurisdiction)
		if err := service.ValidateRuleset(rs); err != nil {
			return nil, fmt.Errorf("%s: ruleset %d: %w", path, i, err)
		}
		if _, dup := out[rs.Jurisdiction]; dup {
			return nil, fmt.Errorf("%s: duplicate ruleset for %s", path, rs.Jurisdiction)
		}
		out[rs.Jurisdiction] = rs
	}
	return out, nil
}
