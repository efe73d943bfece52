// Package validator reports structural problems in a statemachine transition table.
package validator

import (
	"fmt"
	"strings"

	"github.com/amp-labs/easyapply/statemachine"
)

// ValidationResult contains the results of validating a transition table.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a validation error.
type ValidationError struct {
	Code     string   // Error code like "SHADOWED_RULE", "INVALID_TABLE"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
}

// Location identifies where an issue occurred.
type Location struct {
	State string // State name if applicable
	Rule  string // Rule name (from->to) if applicable
}

// Validate performs comprehensive validation on a transition table.
func Validate[S statemachine.StateID](table statemachine.Table[S]) ValidationResult {
	return ValidateWithRules(table, DefaultRules[S]())
}

// ValidateWithRules validates using custom rules.
func ValidateWithRules[S statemachine.StateID](table statemachine.Table[S], rules []Rule[S]) ValidationResult {
	result := ValidationResult{Valid: true}

	for _, rule := range rules {
		ruleResult := rule.Check(table)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	if len(result.Errors) > 0 {
		result.Valid = false
	}

	return result
}

// ValidateStrict validates and treats warnings as errors.
func ValidateStrict[S statemachine.StateID](table statemachine.Table[S]) ValidationResult {
	result := Validate(table)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError(warning))
	}

	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("table is valid\n")
	} else {
		sb.WriteString(fmt.Sprintf("table has %d error(s)\n", len(r.Errors)))
	}

	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  [%s] %s%s\n", err.Code, err.Message, err.Location))
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("%d warning(s):\n", len(r.Warnings)))

		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  [%s] %s%s\n", warn.Code, warn.Message, warn.Location))
		}
	}

	return sb.String()
}

func (l Location) String() string {
	switch {
	case l.Rule != "":
		return fmt.Sprintf(" (rule: %s)", l.Rule)
	case l.State != "":
		return fmt.Sprintf(" (state: %s)", l.State)
	default:
		return ""
	}
}
