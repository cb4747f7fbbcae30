// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/drvkit/drvkit/pkg/types"
)

// ExitError carries an exit code out of a RunE handler. A nil Err exits
// silently with Code.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode maps the outcome of a run to the process exit code. An *ExitError
// in the chain supplies its own code and any other error is ExitFailure. A
// successful run after help on env exits with ExitHelpRequested, so a wrapper
// never mistakes help text for an environment.
func exitCode(app *App, err error) types.ExitCode {
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return types.ExitFailure
	}
	if app.HelpRequested() {
		return types.ExitHelpRequested
	}
	return types.ExitSuccess
}
