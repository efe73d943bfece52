// Package visualizer renders statemachine transition tables as Mermaid state diagrams.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/easyapply/statemachine"
)

// ErrNoStates is returned when the table declares no states.
var ErrNoStates = errors.New("table must declare at least one state")

// GenerateMermaid converts a Table to a Mermaid state diagram.
func GenerateMermaid[S statemachine.StateID](table statemachine.Table[S]) (string, error) {
	return GenerateMermaidWithOptions(table, DefaultOptions())
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
// Wildcard rules are drawn once per non-terminal state, after that state's own rules,
// so each state's outgoing edges appear in evaluation order.
func GenerateMermaidWithOptions[S statemachine.StateID](table statemachine.Table[S], opts Options) (string, error) {
	if len(table.States) == 0 {
		return "", ErrNoStates
	}

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    direction %s\n", direction))
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", table.Initial))

	highlightMap := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlightMap[state] = true
	}

	for _, state := range table.States {
		name := state.String()

		switch {
		case highlightMap[name]:
			sb.WriteString(fmt.Sprintf("    class %s highlighted\n", name))
		case table.IsTerminal(state):
			sb.WriteString(fmt.Sprintf("    class %s finalState\n", name))
		}

		if table.IsTerminal(state) {
			sb.WriteString(fmt.Sprintf("    %s --> [*]\n", name))

			continue
		}

		for i, rule := range table.RulesFor(state) {
			label := ruleLabel(i+1, rule, opts)
			sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", name, rule.To, label))
		}

		if !opts.ShowJumps {
			continue
		}

		for _, jump := range table.Jumps {
			if !jump.Any && jump.From != state {
				continue
			}

			label := "jump"
			if opts.ShowActions && jump.After != nil {
				label += " / " + jump.After.Name
			}

			sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", name, jump.To, label))
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef finalState fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	sb.WriteString("```\n")

	return sb.String(), nil
}

// ruleLabel renders "#order guard1 & guard2 !exclusion / action".
func ruleLabel[S statemachine.StateID](order int, rule statemachine.Rule[S], opts Options) string {
	parts := []string{fmt.Sprintf("#%d", order)}

	if rule.Any {
		parts = append(parts, "any")
	}

	if opts.ShowGuards {
		names := make([]string, 0, len(rule.Guards))
		for _, g := range rule.Guards {
			names = append(names, g.Name)
		}

		if len(names) > 0 {
			parts = append(parts, strings.Join(names, " & "))
		}

		if rule.Exclusion != nil {
			parts = append(parts, "!"+rule.Exclusion.Name)
		}
	}

	label := strings.Join(parts, " ")

	if opts.ShowActions && rule.After != nil {
		label += " / " + rule.After.Name
	}

	return label
}
