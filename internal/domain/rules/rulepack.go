// Package rules compiles declarative rulepacks into typed checks and runs
// them over a samples/files table pair.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/fairyhq/fairy/internal/domain"
)

// Fallback identity for rulepacks that omit it.
const (
	UnknownRulepackID      = "UNKNOWN_RULEPACK"
	UnknownRulepackVersion = "0.0.0"
)

// Document is the serialized form of a rulepack, shared by the JSON and
// YAML decoders.
type Document struct {
	RulepackID      string         `json:"rulepack_id"      yaml:"rulepack_id"`
	RulepackVersion string         `json:"rulepack_version" yaml:"rulepack_version"`
	Rules           []RuleDocument `json:"rules"            yaml:"rules"`
}

// RuleDocument is one serialized rule. Check stays untyped until Compile.
type RuleDocument struct {
	Code     string         `json:"code"       yaml:"code"`
	Check    map[string]any `json:"check"      yaml:"check"`
	Where    string         `json:"where"      yaml:"where"`
	Why      string         `json:"why"        yaml:"why"`
	HowToFix string         `json:"how_to_fix" yaml:"how_to_fix"`
}

// Rulepack is a compiled, immutable rule set.
type Rulepack struct {
	ID      string `json:"rulepack_id"`
	Version string `json:"rulepack_version"`
	Rules   []Rule `json:"rules"`
}

// Rule pairs a typed check with the text shown for its findings.
type Rule struct {
	Code     string `json:"code"`
	Check    Check  `json:"-"`
	Where    string `json:"where"`
	Why      string `json:"why"`
	HowToFix string `json:"how_to_fix"`
}

// MarshalJSON renders the rule with its check's type and parameters.
func (r Rule) MarshalJSON() ([]byte, error) {
	params, err := Describe(r.Check)
	if err != nil {
		return nil, err
	}
	type plain Rule
	return json.Marshal(struct {
		plain
		Check map[string]any `json:"check"`
	}{plain(r), params})
}

// Ref returns the rulepack's name and version.
func (p *Rulepack) Ref() domain.RulepackRef {
	return domain.RulepackRef{Name: p.ID, Version: p.Version}
}

// Compile validates a document and decodes every rule's check into its
// typed form. All failures wrap domain.ErrConfiguration.
func Compile(doc Document) (*Rulepack, error) {
	pack := &Rulepack{
		ID:      strings.TrimSpace(doc.RulepackID),
		Version: strings.TrimSpace(doc.RulepackVersion),
	}
	if pack.ID == "" {
		pack.ID = UnknownRulepackID
	}
	if pack.Version == "" {
		pack.Version = UnknownRulepackVersion
	}
	if _, err := semver.NewVersion(pack.Version); err != nil {
		return nil, fmt.Errorf("%w: rulepack_version %q is not a semantic version: %v", domain.ErrConfiguration, pack.Version, err)
	}
	if doc.Rules == nil {
		return nil, fmt.Errorf("%w: rulepack %s has no rules list", domain.ErrConfiguration, pack.ID)
	}

	seen := make(map[string]struct{}, len(doc.Rules))
	pack.Rules = make([]Rule, 0, len(doc.Rules))
	for i, rd := range doc.Rules {
		code := strings.TrimSpace(rd.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: rules[%d].code is required", domain.ErrConfiguration, i)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("%w: rules[%d].code must be unique (duplicate %q)", domain.ErrConfiguration, i, code)
		}
		seen[code] = struct{}{}

		c, err := ParseCheck(rd.Check)
		if err != nil {
			return nil, fmt.Errorf("%w: rules[%d] (%s): %v", domain.ErrConfiguration, i, code, err)
		}

		pack.Rules = append(pack.Rules, Rule{
			Code:     code,
			Check:    c,
			Where:    rd.Where,
			Why:      rd.Why,
			HowToFix: rd.HowToFix,
		})
	}
	return pack, nil
}
