// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tension

import (
	"fmt"
	"regexp"
)

// RuleFile is the YAML shape of the Regla de Oro configuration.
type RuleFile struct {
	Vocabulary []string       `yaml:"vocabulary"`
	LowTension LowTensionRule `yaml:"low_tension"`
	Definitive PatternRule    `yaml:"definitive"`
	Agreement  PatternRule    `yaml:"agreement"`
}

// LowTensionRule flags results whose tension level falls below the threshold.
type LowTensionRule struct {
	Threshold int    `yaml:"threshold"`
	Warning   string `yaml:"warning"`
}

// PatternRule is a warning backed by a set of regex patterns. MinMatches is
// the number of distinct patterns that must match before the warning fires;
// zero means one.
type PatternRule struct {
	Warning    string    `yaml:"warning"`
	MinMatches int       `yaml:"min_matches"`
	Patterns   []Pattern `yaml:"patterns"`
}

// Pattern is one named regex entry in the rule file.
type Pattern struct {
	Id          string `yaml:"id"`
	Description string `yaml:"description"`
	Regex       string `yaml:"regex"`

	compiled *regexp.Regexp
}

// CompileRegexes compiles every pattern in the file once, up front, so the
// hot scoring path never compiles.
func (f *RuleFile) CompileRegexes() error {
	for _, rule := range []*PatternRule{&f.Definitive, &f.Agreement} {
		for i := range rule.Patterns {
			p := &rule.Patterns[i]
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return fmt.Errorf("failed to compile the pattern %s: %w", p.Id, err)
			}
			p.compiled = re
		}
	}
	return nil
}
