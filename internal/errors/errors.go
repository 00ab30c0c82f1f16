// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors defines the SDG CLI error contract.
//
// UserError carries the three things a stuck user needs: what went wrong
// (Message), why (Cause), and what to do about it (Fix). Each constructor
// binds one error category to one semantic exit code, so scripts can
// branch on the code and humans get the colored three-line rendering.
//
//	err := errors.NewDatabaseError(
//	    "Cannot load pattern database",
//	    "The file patterns.json is not valid JSON",
//	    "Fix the file or drop --regex-db to use the builtin catalog",
//	    underlyingErr,
//	)
//	errors.FatalError(err, globals.JSON)
//
// renders as
//
//	Error: Cannot load pattern database
//	Cause: The file patterns.json is not valid JSON
//	Fix:   Fix the file or drop --regex-db to use the builtin catalog
//
// and exits with code 2, or in --json mode emits
//
//	{
//	  "error": "Cannot load pattern database",
//	  "cause": "The file patterns.json is not valid JSON",
//	  "fix": "Fix the file or drop --regex-db to use the builtin catalog",
//	  "exit_code": 2
//	}
//
// Exit codes: 0 success, 1 config, 2 pattern database, 3 network/LLM,
// 4 input validation, 5 permission, 6 not found, 10 internal bug.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes, one per error category.
const (
	ExitSuccess = 0

	// ExitConfig: missing or malformed .sdg/config.yaml.
	ExitConfig = 1

	// ExitDatabase: pattern catalog unloadable or corrupt.
	ExitDatabase = 2

	// ExitNetwork: LLM endpoint or other remote call failed.
	ExitNetwork = 3

	// ExitInput: bad flags or a Request that fails validation.
	ExitInput = 4

	// ExitPermission: filesystem access denied.
	ExitPermission = 5

	// ExitNotFound: a named resource (file, credential type) is absent.
	ExitNotFound = 6

	// ExitInternal: a bug; 10 distinguishes "report this" from user error.
	ExitInternal = 10
)

// UserError is a CLI-facing error with remediation context and a bound
// exit code. It wraps an optional underlying error for errors.Is/As.
type UserError struct {
	// Message says what went wrong, in user language.
	Message string

	// Cause is the diagnostic detail behind Message.
	Cause string

	// Fix is the actionable next step, often a command to run.
	Fix string

	// ExitCode is used by FatalError when this error ends the process.
	ExitCode int

	// Err is the wrapped underlying error, if any.
	Err error
}

// Error returns Message, with the wrapped error appended when present.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped error to the stdlib errors helpers.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError builds a configuration error (exit code ExitConfig):
// missing, unreadable, or malformed .sdg/config.yaml.
//
//	return NewConfigError(
//	    "Cannot load configuration",
//	    "The config file .sdg/config.yaml is missing",
//	    "Run 'sdg init' to create a new configuration",
//	    nil,
//	)
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitConfig,
		Err:      err,
	}
}

// NewDatabaseError builds a pattern-database error (exit code
// ExitDatabase): catalog unparseable, regex uncompilable, save failed.
func NewDatabaseError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitDatabase,
		Err:      err,
	}
}

// NewNetworkError builds a network error (exit code ExitNetwork) for
// failed LLM endpoint calls and other remote operations.
//
//	return NewNetworkError(
//	    "Cannot connect to the LLM endpoint",
//	    "Connection timed out after 30 seconds",
//	    "Check that the provider is running, or drop --neural-content",
//	    err,
//	)
func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitNetwork,
		Err:      err,
	}
}

// NewInputError builds a validation error (exit code ExitInput) for bad
// flags or rejected Requests. Input errors carry no wrapped error; the
// input itself is the whole story.
//
//	return NewInputError(
//	    "Unknown credential type",
//	    "'my_token' is not in the pattern catalog",
//	    "Run 'sdg db list' to see the available types",
//	)
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitInput,
		Err:      nil,
	}
}

// NewPermissionError builds a permission error (exit code ExitPermission)
// for filesystem access failures.
//
//	return NewPermissionError(
//	    "Cannot write to output directory",
//	    "Permission denied for out/",
//	    "Run with appropriate permissions or change --output-dir",
//	    err,
//	)
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitPermission,
		Err:      err,
	}
}

// NewNotFoundError builds a not-found error (exit code ExitNotFound).
// Like input errors, these carry no wrapped error.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitNotFound,
		Err:      nil,
	}
}

// NewInternalError builds an internal error (exit code ExitInternal) for
// conditions that indicate a bug rather than a user mistake.
//
//	return NewInternalError(
//	    "Unexpected nil pointer",
//	    "The format binder returned nil unexpectedly",
//	    "This is a bug. Please report it at github.com/kraklabs/sdg/issues",
//	    err,
//	)
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitInternal,
		Err:      err,
	}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format renders the Error/Cause/Fix block for the terminal, red/yellow/
// green respectively. Empty Cause or Fix lines are dropped. Colors honor
// both the noColor parameter and the NO_COLOR environment variable.
//
// The global color.NoColor flag is saved and restored around the render.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON is the --json rendering of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON maps the error onto its machine-readable shape; empty Cause and
// Fix are omitted.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints err to stderr — formatted for the terminal, or as
// JSON when jsonOutput is set — and exits with the error's code. Errors
// that are not UserError exit with ExitInternal. Never returns (except
// for a nil err, which is a no-op).
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			// About to exit; an encode failure still exits with the right code.
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
