package questions

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRule is returned when a rule file entry cannot be turned into a Rule.
var ErrInvalidRule = errors.New("invalid question rule")

type ruleFile struct {
	Name   string     `yaml:"name"`
	Match  [][]string `yaml:"match"`
	Answer string     `yaml:"answer"`
	Value  string     `yaml:"value"`
}

// LoadRules reads an ordered list of rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Operator-supplied rule file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes a YAML list of rules. Each entry carries a name, match
// (a list of phrase groups, any one of which must fully occur), answer (yes, no
// or text) and, for text answers, value.
func ParseRules(data []byte) ([]Rule, error) {
	var entries []ruleFile
	if err := yaml.Unmarshal(data, &entries); err != nil { //nolint:noinlineerr
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rules := make([]Rule, 0, len(entries))

	for i, entry := range entries {
		rule, err := entry.rule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, entry.Name, err)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func (e ruleFile) rule() (Rule, error) {
	if len(e.Match) == 0 {
		return Rule{}, fmt.Errorf("%w: no match phrases", ErrInvalidRule)
	}

	for _, group := range e.Match {
		if len(group) == 0 {
			return Rule{}, fmt.Errorf("%w: empty match group", ErrInvalidRule)
		}
	}

	var answer Action

	switch e.Answer {
	case "yes":
		answer = Action{Kind: SelectYes}
	case "no":
		answer = Action{Kind: SelectNo}
	case "text":
		if e.Value == "" {
			return Rule{}, fmt.Errorf("%w: text answer without value", ErrInvalidRule)
		}

		answer = Action{Kind: FillText, Value: e.Value}
	default:
		return Rule{}, fmt.Errorf("%w: unknown answer %q", ErrInvalidRule, e.Answer)
	}

	return Rule{Name: e.Name, AnyOf: e.Match, Answer: answer}, nil
}
