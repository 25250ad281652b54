// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package translator

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule maps question phrases to a canned SQL query. Phrases match as
// lowercase substrings; the first rule with a matching phrase wins, in file
// order.
type Rule struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
	SQL   string   `yaml:"sql"`
}

//go:embed rules.yaml
var defaultRulesYAML []byte

func embeddedRules() []Rule {
	rules, err := parseRules(defaultRulesYAML)
	if err != nil {
		// The embedded file is fixed at build time; a parse failure here is
		// a programming error.
		panic(fmt.Sprintf("embedded rules.yaml invalid: %v", err))
	}
	return rules
}

func loadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return parseRules(raw)
}

func parseRules(raw []byte) ([]Rule, error) {
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	for i, r := range doc.Rules {
		if r.SQL == "" || len(r.Match) == 0 {
			return nil, fmt.Errorf("rule %d (%q): match phrases and sql are required", i, r.Name)
		}
	}
	return doc.Rules, nil
}
