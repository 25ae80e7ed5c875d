package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleYesLiteral                       = "yes"
	toggleNoLiteral                        = "no"
	toggleOnLiteral                        = "on"
	toggleOffLiteral                       = "off"
	toggleOneLiteral                       = "1"
	toggleZeroLiteral                      = "0"
	toggleTLiteral                         = "t"
	toggleFLiteral                         = "f"
	toggleYLiteral                         = "y"
	toggleNLiteral                         = "n"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	toggleAutoLiteral                      = "auto"
	toggleUsageEmptyTemplate               = "`%s`"
	toggleUsageFullTemplate                = "`%s` %s"
	toggleFlagTypeConstant                 = "bool"
	triStateFlagTypeConstant               = "mode"
	argumentTerminatorConstant             = "--"
	longFlagPrefixConstant                 = "--"
	shortFlagPrefixConstant                = "-"
	flagValueSeparatorConstant             = "="
)

// TriState is a toggle that may defer its decision to runtime detection.
type TriState string

// Supported tri-state values.
const (
	TriStateAuto     TriState = TriState(toggleAutoLiteral)
	TriStateEnabled  TriState = TriState(toggleYesLiteral)
	TriStateDisabled TriState = TriState(toggleNoLiteral)
)

// Resolve returns the explicit setting, or the detected value for TriStateAuto.
func (state TriState) Resolve(detect func() bool) bool {
	switch state {
	case TriStateEnabled:
		return true
	case TriStateDisabled:
		return false
	default:
		return detect != nil && detect()
	}
}

// ParseTriState accepts the toggle literals plus "auto". An empty value is auto.
func ParseTriState(rawValue string) (TriState, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 || normalizedValue == toggleAutoLiteral {
		return TriStateAuto, nil
	}
	parsedValue, parseError := parseToggleValue(normalizedValue)
	if parseError != nil {
		return TriStateAuto, parseError
	}
	if parsedValue {
		return TriStateEnabled, nil
	}
	return TriStateDisabled, nil
}

var (
	trueLiteralSet = map[string]struct{}{
		toggleTrueCanonicalValue: {},
		toggleYesLiteral:         {},
		toggleOnLiteral:          {},
		toggleOneLiteral:         {},
		toggleTLiteral:           {},
		toggleYLiteral:           {},
	}
	falseLiteralSet = map[string]struct{}{
		toggleFalseCanonicalValue: {},
		toggleNoLiteral:           {},
		toggleOffLiteral:          {},
		toggleZeroLiteral:         {},
		toggleFLiteral:            {},
		toggleNLiteral:            {},
	}

	toggleFlagRegistryMutex sync.RWMutex
	toggleFlagNames         = map[string]struct{}{}
	toggleFlagShorthands    = map[string]struct{}{}
)

// AddTriStateFlag registers a flag accepting yes/no style values or "auto". A bare flag enables it.
func AddTriStateFlag(flagSet *pflag.FlagSet, target *TriState, name string, shorthand string, defaultValue TriState, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	stateValue := &triStateFlagValue{currentValue: defaultValue, target: target}
	if target != nil {
		*target = defaultValue
	}
	if len(shorthand) > 0 {
		flagSet.VarP(stateValue, name, shorthand, usage)
	} else {
		flagSet.Var(stateValue, name, usage)
	}

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValue
	flag.Usage = formatUsage(usage, triStatePlaceholder(defaultValue))

	registerToggleFlag(name, shorthand)
}

// AddToggleFlag registers a boolean toggle flag that accepts yes/no style values.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil {
		return
	}
	if len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(toggleValue, name, shorthand, usage)
	} else {
		flagSet.Var(toggleValue, name, usage)
	}

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValue
	flag.Usage = formatToggleUsage(usage, defaultValue)

	registerToggleFlag(name, shorthand)
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	return formatUsage(description, placeholder)
}

func triStatePlaceholder(defaultValue TriState) string {
	if len(defaultValue) == 0 {
		defaultValue = TriStateAuto
	}
	return buildChoicePlaceholder(string(defaultValue), []string{toggleYesLiteral, toggleNoLiteral, toggleAutoLiteral})
}

func formatUsage(description string, placeholder string) string {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) == 0 {
		return fmt.Sprintf(toggleUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(toggleUsageFullTemplate, placeholder, trimmed)
}

// NormalizeToggleArguments rewrites toggle flag arguments so "--flag value" becomes "--flag=value" before parsing.
// Only recognized toggle literals are joined, so a positional argument after a bare toggle stays positional.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if normalizedArgument, consumed := normalizeToggleLong(current, arguments, index); consumed > 0 {
			normalized = append(normalized, normalizedArgument)
			index += consumed
			continue
		}

		if normalizedArgument, consumed := normalizeToggleShort(current, arguments, index); consumed > 0 {
			normalized = append(normalized, normalizedArgument)
			index += consumed
			continue
		}

		normalized = append(normalized, current)
		index++
	}

	return normalized
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}

	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil {
		return toggleFalseCanonicalValue
	}
	if value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeConstant
}

type triStateFlagValue struct {
	currentValue TriState
	target       *TriState
}

func (value *triStateFlagValue) Set(rawValue string) error {
	parsedValue, parseError := ParseTriState(rawValue)
	if parseError != nil {
		return parseError
	}
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *triStateFlagValue) String() string {
	if value == nil || len(value.currentValue) == 0 {
		return string(TriStateAuto)
	}
	return string(value.currentValue)
}

func (value *triStateFlagValue) Type() string {
	return triStateFlagTypeConstant
}

func parseToggleValue(rawValue string) (bool, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueCanonicalValue
	}

	normalizedValue := strings.ToLower(trimmedValue)
	if _, isTrue := trueLiteralSet[normalizedValue]; isTrue {
		return true, nil
	}
	if _, isFalse := falseLiteralSet[normalizedValue]; isFalse {
		return false, nil
	}

	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

func registerToggleFlag(name string, shorthand string) {
	toggleFlagRegistryMutex.Lock()
	defer toggleFlagRegistryMutex.Unlock()
	toggleFlagNames[name] = struct{}{}
	if len(shorthand) > 0 {
		toggleFlagShorthands[shorthand] = struct{}{}
	}
}

func normalizeToggleLong(current string, arguments []string, index int) (string, int) {
	if !strings.HasPrefix(current, longFlagPrefixConstant) {
		return "", 0
	}
	trimmed := strings.TrimPrefix(current, longFlagPrefixConstant)
	if len(trimmed) == 0 {
		return "", 0
	}
	splitIndex := strings.Index(trimmed, flagValueSeparatorConstant)
	name := trimmed
	if splitIndex >= 0 {
		name = trimmed[:splitIndex]
	}
	if len(name) == 0 {
		return "", 0
	}
	if !isToggleName(name) {
		return "", 0
	}
	if splitIndex >= 0 {
		return current, 1
	}
	if index+1 >= len(arguments) {
		return current, 1
	}
	nextValue := arguments[index+1]
	if startsWithDash(nextValue) || !isToggleLiteral(nextValue) {
		return current, 1
	}
	return current + flagValueSeparatorConstant + nextValue, 2
}

func normalizeToggleShort(current string, arguments []string, index int) (string, int) {
	if !strings.HasPrefix(current, shortFlagPrefixConstant) || strings.HasPrefix(current, longFlagPrefixConstant) {
		return "", 0
	}
	trimmed := strings.TrimPrefix(current, shortFlagPrefixConstant)
	if len(trimmed) == 0 {
		return "", 0
	}
	splitIndex := strings.Index(trimmed, flagValueSeparatorConstant)
	shorthand := trimmed
	if splitIndex >= 0 {
		shorthand = trimmed[:splitIndex]
	}
	if len(shorthand) != 1 {
		return "", 0
	}
	if !isToggleShorthand(shorthand) {
		return "", 0
	}
	if splitIndex >= 0 {
		return current, 1
	}
	if index+1 >= len(arguments) {
		return current, 1
	}
	nextValue := arguments[index+1]
	if startsWithDash(nextValue) || !isToggleLiteral(nextValue) {
		return current, 1
	}
	return current + flagValueSeparatorConstant + nextValue, 2
}

func isToggleName(name string) bool {
	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, exists := toggleFlagNames[name]
	return exists
}

func isToggleShorthand(shorthand string) bool {
	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, exists := toggleFlagShorthands[shorthand]
	return exists
}

func startsWithDash(value string) bool {
	return strings.HasPrefix(value, shortFlagPrefixConstant)
}

func isToggleLiteral(value string) bool {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	if normalizedValue == toggleAutoLiteral {
		return true
	}
	_, isTrue := trueLiteralSet[normalizedValue]
	_, isFalse := falseLiteralSet[normalizedValue]
	return isTrue || isFalse
}
