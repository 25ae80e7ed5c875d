package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expected      string
	}{
		{name: "LevelDefaultInMiddle", defaultChoice: "info", choices: levels, description: "Minimum log level.", expected: "`<debug|INFO|warn|error>` Minimum log level."},
		{name: "FormatDefaultFirst", defaultChoice: "structured", choices: []string{"structured", "console"}, description: "Log encoding.", expected: "`<STRUCTURED|console>` Log encoding."},
		{name: "NoDescription", defaultChoice: "auto", choices: []string{"yes", "no", "auto"}, expected: "`<yes|no|AUTO>`"},
		{name: "RepeatedChoicesCollapse", defaultChoice: "no", choices: []string{"no", "yes", "no"}, description: "Attach a terminal.", expected: "`<NO|yes>` Attach a terminal."},
		{name: "PaddedChoices", defaultChoice: "console", choices: []string{" structured ", " console "}, description: "  Log encoding.  ", expected: "`<structured|CONSOLE>` Log encoding."},
		{name: "DefaultNotListed", defaultChoice: "", choices: []string{"stdout", "stderr"}, description: "Stream.", expected: "`<stdout|stderr>` Stream."},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestParseChoice(t *testing.T) {
	choices := []string{"structured", "console"}

	parsedValue, parseError := ParseChoice(" Console ", choices)
	require.NoError(t, parseError)
	require.Equal(t, "console", parsedValue)

	_, parseError = ParseChoice("xml", choices)
	require.EqualError(t, parseError, `invalid value "xml": expected one of structured, console`)
}

func TestAddChoiceFlag(t *testing.T) {
	var selected string
	flagSet := pflag.NewFlagSet("choice", pflag.ContinueOnError)
	AddChoiceFlag(flagSet, &selected, "log-format", "", []string{"structured", "console"}, "Select the log format.")

	flag := flagSet.Lookup("log-format")
	require.NotNil(t, flag)
	require.Equal(t, "`<structured|console>` Select the log format.", flag.Usage)
	require.Empty(t, selected)

	require.NoError(t, flagSet.Parse([]string{"--log-format", "CONSOLE"}))
	require.Equal(t, "console", selected)
	require.True(t, flagSet.Changed("log-format"))

	require.Error(t, flagSet.Parse([]string{"--log-format=xml"}))
}
