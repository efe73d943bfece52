// Package questions answers the free-text screening questions of an application
// form with canned answers chosen by ordered substring rules.
package questions

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the shape of an answer.
type Kind int

const (
	SelectYes Kind = iota
	SelectNo
	FillText
)

func (k Kind) String() string {
	switch k {
	case SelectYes:
		return "yes"
	case SelectNo:
		return "no"
	case FillText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is the answer to apply to one question block.
type Action struct {
	Kind  Kind
	Value string // FillText only
}

func (a Action) String() string {
	if a.Kind == FillText {
		return fmt.Sprintf("text(%q)", a.Value)
	}

	return a.Kind.String()
}

// Rule matches a question when every phrase of at least one of its alternatives
// occurs in the question text. Matching is case-sensitive.
type Rule struct {
	Name   string
	AnyOf  [][]string
	Answer Action
}

// Matches reports whether the rule applies to text. Both sides are normalized first,
// so typographic quotes and non-breaking spaces match their plain forms.
func (r Rule) Matches(text string) bool {
	text = normalize(text)

	for _, phrases := range r.AnyOf {
		if len(phrases) > 0 && containsAll(text, phrases) {
			return true
		}
	}

	return false
}

func containsAll(text string, phrases []string) bool {
	for _, p := range phrases {
		if !strings.Contains(text, normalize(p)) {
			return false
		}
	}

	return true
}

var quotes = strings.NewReplacer("\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`) //nolint:gochecknoglobals

// normalize folds compatibility characters with NFKC and straightens quotes.
func normalize(text string) string {
	return quotes.Replace(norm.NFKC.String(text))
}

// Answerer picks the answer for a question.
type Answerer interface {
	Match(text string) (Action, bool)
}

// Matcher applies rules in order; the first matching rule wins.
type Matcher struct {
	rules []Rule
}

var _ Answerer = (*Matcher)(nil)

// NewMatcher creates a matcher over rules, evaluated in the given order.
func NewMatcher(rules ...Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Default returns a matcher over DefaultRules.
func Default() *Matcher {
	return NewMatcher(DefaultRules()...)
}

// Match returns the answer of the first rule matching text.
func (m *Matcher) Match(text string) (Action, bool) {
	rule, ok := m.Rule(text)
	if !ok {
		return Action{}, false
	}

	return rule.Answer, true
}

// Rule returns the first rule matching text.
func (m *Matcher) Rule(text string) (Rule, bool) {
	for _, rule := range m.rules {
		if rule.Matches(text) {
			return rule, true
		}
	}

	return Rule{}, false
}

// Rules returns the rules in evaluation order.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// DefaultRules answers work authorization, sponsorship, degree, experience and
// language questions.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "work_authorization",
			AnyOf:  [][]string{{"Are you", "authorized"}, {"Have You", "education"}},
			Answer: Action{Kind: SelectYes},
		},
		{
			Name:   "sponsorship",
			AnyOf:  [][]string{{"require", "sponsorship"}},
			Answer: Action{Kind: SelectNo},
		},
		{
			Name:   "bachelors_degree",
			AnyOf:  [][]string{{"You have", "Bachelor's"}, {"Have you", "Bachelor's"}},
			Answer: Action{Kind: SelectYes},
		},
		{
			Name:   "masters_degree",
			AnyOf:  [][]string{{"You have", "Master's"}, {"Have you", "Master's"}},
			Answer: Action{Kind: SelectYes},
		},
		{
			Name:   "years_experience",
			AnyOf:  [][]string{{"How many years", "experience"}},
			Answer: Action{Kind: FillText, Value: "10"},
		},
		{
			Name:   "speaks_english",
			AnyOf:  [][]string{{"Do you", "speak", "English"}},
			Answer: Action{Kind: SelectYes},
		},
		{
			Name:   "speaks_other_language",
			AnyOf:  [][]string{{"Do you", "speak"}},
			Answer: Action{Kind: SelectNo},
		},
	}
}
