package cooperative_test

import (
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/temirov/procstream/internal/execshell"
)

const (
	helperFixtureEnvironmentNameConstant  = "PROCSTREAM_COOPERATIVE_FIXTURE"
	helperExitCodeEnvironmentNameConstant = "PROCSTREAM_COOPERATIVE_EXIT_CODE"
	helperTestRunFilterConstant           = "-test.run=^$"
	fixtureGreetingConstant               = "greeting"
	fixtureEchoInputConstant              = "echo_input"
	fixtureWaitForInputConstant           = "wait_for_input"
)

func TestMain(mainInstance *testing.M) {
	if fixtureName := os.Getenv(helperFixtureEnvironmentNameConstant); len(fixtureName) > 0 {
		os.Exit(runHelperFixture(fixtureName))
	}
	os.Exit(mainInstance.Run())
}

func runHelperFixture(fixtureName string) int {
	exitCode, _ := strconv.Atoi(os.Getenv(helperExitCodeEnvironmentNameConstant))
	switch fixtureName {
	case fixtureGreetingConstant:
		_, _ = os.Stdout.WriteString("hello\n")
		_, _ = os.Stderr.WriteString("warning\n")
		_, _ = os.Stdout.WriteString("bye\n")
		return exitCode
	case fixtureEchoInputConstant:
		_, _ = io.Copy(os.Stdout, os.Stdin)
		return exitCode
	case fixtureWaitForInputConstant:
		_, _ = io.Copy(io.Discard, os.Stdin)
		return exitCode
	default:
		return 127
	}
}

func helperCommand(fixtureName string, exitCode int) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandName(os.Args[0]),
		Details: execshell.CommandDetails{
			Arguments: []string{helperTestRunFilterConstant},
			EnvironmentVariables: map[string]string{
				helperFixtureEnvironmentNameConstant:  fixtureName,
				helperExitCodeEnvironmentNameConstant: strconv.Itoa(exitCode),
			},
		},
	}
}
