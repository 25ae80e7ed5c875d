package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestMergeToggleAcceptsLiterals(t *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedMerge bool
		expectChanged bool
		expectedRest  []string
	}{
		{name: "Absent", arguments: []string{"--", "make"}, expectedRest: []string{"make"}},
		{name: "Bare", arguments: []string{"--merge", "--", "make"}, expectedMerge: true, expectChanged: true, expectedRest: []string{"make"}},
		{name: "SpacedOn", arguments: []string{"--merge", "on", "make"}, expectedMerge: true, expectChanged: true, expectedRest: []string{"make"}},
		{name: "SpacedUpperNo", arguments: []string{"--merge", "NO", "make"}, expectChanged: true, expectedRest: []string{"make"}},
		{name: "Shorthand", arguments: []string{"-m", "0", "make"}, expectChanged: true, expectedRest: []string{"make"}},
		{name: "CommandNamedYes", arguments: []string{"--", "yes"}, expectedRest: []string{"yes"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}
			var merge bool
			AddToggleFlag(command.Flags(), &merge, "merge", "m", false, "Merge standard error")

			require.NoError(t, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(t, testCase.expectedMerge, merge)
			require.Equal(t, testCase.expectChanged, command.Flags().Changed("merge"))
			require.Equal(t, testCase.expectedRest, command.Flags().Args())
		})
	}
}

func TestToggleRejectsUnknownLiteral(t *testing.T) {
	command := &cobra.Command{}
	shell := true
	AddToggleFlag(command.Flags(), &shell, "shell", "", true, "Run through the shell")

	require.Error(t, command.ParseFlags(NormalizeToggleArguments([]string{"--shell=sometimes"})))
	require.True(t, shell)
	require.False(t, command.Flags().Changed("shell"))
	require.Equal(t, "`<YES|no>` Run through the shell", command.Flags().Lookup("shell").Usage)
}

func TestNormalizeToggleArgumentsStopsAtCommand(t *testing.T) {
	command := &cobra.Command{}
	var merge bool
	AddToggleFlag(command.Flags(), &merge, "merge-output", "", false, "Merge standard error")

	arguments := []string{"--merge-output", "grep", "--", "--merge-output", "no"}
	normalized := NormalizeToggleArguments(arguments)
	require.Equal(t, arguments, normalized)

	require.NoError(t, command.ParseFlags(normalized))
	require.True(t, merge)
	require.Equal(t, []string{"grep", "--merge-output", "no"}, command.Flags().Args())
}

func TestAddTriStateFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue TriState
		resolved      bool
	}{
		{name: "DefaultAuto", arguments: []string{}, expectedValue: TriStateAuto, resolved: true},
		{name: "ImplicitEnabled", arguments: []string{"--terminal"}, expectedValue: TriStateEnabled, resolved: true},
		{name: "ExplicitNo", arguments: []string{"--terminal", "no"}, expectedValue: TriStateDisabled, resolved: false},
		{name: "ExplicitAuto", arguments: []string{"--terminal", "AUTO"}, expectedValue: TriStateAuto, resolved: true},
		{name: "ShorthandOff", arguments: []string{"-T", "off"}, expectedValue: TriStateDisabled, resolved: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var stateValue TriState
			AddTriStateFlag(command.Flags(), &stateValue, "terminal", "T", TriStateAuto, "Attach a terminal")

			parseError := command.ParseFlags(NormalizeToggleArguments(testCase.arguments))
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedValue, stateValue)
			require.Equal(t, testCase.resolved, stateValue.Resolve(func() bool { return true }))
		})
	}

	flag := (&cobra.Command{}).Flags()
	var stateValue TriState
	AddTriStateFlag(flag, &stateValue, "terminal-usage", "", TriStateDisabled, "Attach a terminal")
	require.Equal(t, "`<yes|NO|auto>` Attach a terminal", flag.Lookup("terminal-usage").Usage)
}

func TestParseTriState(t *testing.T) {
	for rawValue, expected := range map[string]TriState{"": TriStateAuto, "auto": TriStateAuto, "1": TriStateEnabled, "true": TriStateEnabled, "0": TriStateDisabled, "No": TriStateDisabled} {
		parsed, parseError := ParseTriState(rawValue)
		require.NoError(t, parseError)
		require.Equal(t, expected, parsed)
	}

	_, parseError := ParseTriState("sometimes")
	require.Error(t, parseError)
	require.False(t, TriStateAuto.Resolve(nil))
}
