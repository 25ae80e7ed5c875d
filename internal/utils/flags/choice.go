package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix   = "<"
	choicePlaceholderSuffix   = ">"
	choiceSeparatorLiteral    = "|"
	choiceFlagTypeConstant    = "choice"
	choiceParseErrorTemplate  = "invalid value %q: expected one of %s"
	choiceListSeparatorLetter = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	return formatUsage(description, buildChoicePlaceholder(defaultChoice, choices))
}

// AddChoiceFlag registers a string flag restricted to choices. Values are matched without
// regard to case or surrounding whitespace and stored in the spelling listed in choices.
// An empty default leaves the target empty so callers can tell whether the flag was given.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	choiceValue := &choiceFlagValue{choices: normalizeChoices(choices), target: target}
	if target != nil {
		*target = defaultChoice
	}
	flagSet.Var(choiceValue, name, FormatChoiceUsage(defaultChoice, choices, description))
}

// ParseChoice returns the listed spelling of rawValue, or an error when it is not one of choices.
func ParseChoice(rawValue string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range normalizeChoices(choices) {
		if strings.ToLower(choice) == normalizedValue {
			return choice, nil
		}
	}
	return "", fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(normalizeChoices(choices), choiceListSeparatorLetter))
}

type choiceFlagValue struct {
	choices []string
	target  *string
}

func (value *choiceFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceFlagValue) Set(rawValue string) error {
	parsedValue, parseError := ParseChoice(rawValue, value.choices)
	if parseError != nil {
		return parseError
	}
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *choiceFlagValue) Type() string {
	return choiceFlagTypeConstant
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

// normalizeChoices trims choices and drops blanks and case-insensitive duplicates.
func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		key := strings.ToLower(trimmedChoice)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, trimmedChoice)
	}
	return normalized
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := normalizeChoices(choices)
	for choiceIndex, choice := range highlighted {
		if strings.ToLower(choice) == normalizedDefault {
			highlighted[choiceIndex] = strings.ToUpper(choice)
		}
	}
	return highlighted
}
