// Package naming splits creature display names into a base name and a form
// and maps forms to the slugs used for artwork lookup.
package naming

import (
	"strings"
	"unicode"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// Rule identifies which decomposition rule matched a name.
type Rule int

// Decomposition rules in precedence order.
const (
	RuleMega Rule = iota
	RuleSuffix
	RuleDefault
)

func (r Rule) String() string {
	switch r {
	case RuleMega:
		return "mega"
	case RuleSuffix:
		return "suffix"
	default:
		return "default"
	}
}

const (
	megaToken = "Mega"
	// megaForm is the raw form of a Mega variant without a letter suffix.
	megaForm = "mega"
)

// suffixKeywords mark names of the form "<Base> <Form> <Keyword>".
var suffixKeywords = []string{"Forme", "Mode", "Cloak", "Size"}

type matcher struct {
	rule  Rule
	apply func(name string) (base, form string, ok bool)
}

// rules is evaluated top to bottom; the first matcher that accepts wins.
// More specific rules come first.
var rules = []matcher{
	{rule: RuleMega, apply: matchMega},
	{rule: RuleSuffix, apply: matchSuffix},
	{rule: RuleDefault, apply: matchDefault},
}

// RuleOrder returns the rules in the order they are tried.
func RuleOrder() []Rule {
	order := make([]Rule, len(rules))
	for i, m := range rules {
		order[i] = m.rule
	}
	return order
}

// Decompose returns the base name and the raw form of a display name.
// The form is "base" for an unmodified creature. Mega forms come back as
// their raw suffix ("x", "y" or "mega"); CanonicalizeForm maps them to
// image slugs.
func Decompose(name string) (base, form string) {
	_, base, form = Match(name)
	return base, form
}

// Match is Decompose that also reports which rule produced the result.
func Match(name string) (Rule, string, string) {
	for _, m := range rules {
		if base, form, ok := m.apply(name); ok {
			return m.rule, base, form
		}
	}
	return RuleDefault, name, entities.BaseForm
}

// matchMega handles "Mega Charizard X" as well as the dataset spelling
// "CharizardMega Charizard X", where the base name is repeated after the
// token.
func matchMega(name string) (string, string, bool) {
	idx := megaIndex(name)
	if idx < 0 {
		return "", "", false
	}

	base := strings.TrimSpace(name[:idx])
	rest := strings.Fields(name[idx+len(megaToken):])

	switch {
	case base == "" && len(rest) == 0:
		return "", "", false
	case base == "":
		base, rest = rest[0], rest[1:]
	case len(rest) > 0 && strings.EqualFold(rest[0], base):
		rest = rest[1:]
	}

	form := strings.ToLower(strings.Join(rest, "-"))
	if form == "" {
		form = megaForm
	}
	return base, form, true
}

// megaIndex finds "Mega" used as a token: followed by whitespace or the end
// of the name. "Meganium" and "Yanmega" do not match.
func megaIndex(name string) int {
	offset := 0
	for {
		i := strings.Index(name[offset:], megaToken)
		if i < 0 {
			return -1
		}
		end := offset + i + len(megaToken)
		if end == len(name) || unicode.IsSpace(rune(name[end])) {
			return offset + i
		}
		offset = end
	}
}

func matchSuffix(name string) (string, string, bool) {
	if !containsAny(name, suffixKeywords) {
		return "", "", false
	}
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return "", "", false
	}
	return tokens[0], strings.ToLower(tokens[len(tokens)-2]), true
}

func matchDefault(name string) (string, string, bool) {
	return name, entities.BaseForm, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
