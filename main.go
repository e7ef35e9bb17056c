package main

import (
	"fmt"
	"os"

	"github.com/temirov/gitpush/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs gitpush and exits non-zero when any step aborted the sequence.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
