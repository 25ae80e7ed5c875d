package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/procstream/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main executes the procstream command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var exitStatusError cli.ExitStatusError
	if errors.As(executionError, &exitStatusError) {
		os.Exit(exitStatusError.Code)
	}
	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(failureExitCodeConstant)
}
