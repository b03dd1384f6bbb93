// Command auctioneer is a thin CLI wrapper around the engine's direct
// bid interface: it creates one auction, submits a batch of bids, and
// finalizes it, printing the result as JSON.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes per the direct bid interface's CLI contract.
const (
	exitSuccess         = 0
	exitValidationError = 1
	exitRuntimeError    = 2
	exitTimeout         = 3
)

// cliError tags an error with the exit code it should produce, so a
// single root.Execute() error path can still distinguish validation
// failures from runtime failures from timeouts.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func validationErrorf(format string, args ...any) error {
	return &cliError{code: exitValidationError, err: fmt.Errorf(format, args...)}
}

func runtimeErrorf(format string, args ...any) error {
	return &cliError{code: exitRuntimeError, err: fmt.Errorf(format, args...)}
}

func timeoutErrorf(format string, args ...any) error {
	return &cliError{code: exitTimeout, err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitRuntimeError
}

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:           "auctioneer",
		Short:         "Run a single auction from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runAuctionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return exitSuccess
}
