package cli

// Exit codes of the sie command.
const (
	ExitOK      = 0
	ExitFailure = 1 // the input has errors, or the command failed
	ExitUsage   = 2 // the command line could not be parsed
)

// CommandError signals a command failure with a specific exit code.
// Commands return it after printing their own diagnostics, so Main only
// needs to translate it into an exit code.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of Main.
type CommandResult struct {
	ExitCode int
	Err      error
}

// Success returns a CommandResult indicating successful execution.
func Success() CommandResult {
	return CommandResult{ExitCode: ExitOK}
}

// Failure returns a CommandResult indicating failure with the given error.
func Failure(err error) CommandResult {
	return CommandResult{ExitCode: ExitFailure, Err: err}
}
