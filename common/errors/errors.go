package errors

// ExitCodeError pairs an error with the process exit code the CLI should use.
type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

// Cause returns the wrapped error so pkg/errors.Cause can unwrap through it.
func (e *ExitCodeError) Cause() error {
	return e.error
}
