// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserErrorMessage(t *testing.T) {
	withErr := &UserError{Message: "Cannot load pattern database", Err: fmt.Errorf("file locked")}
	assert.Equal(t, "Cannot load pattern database: file locked", withErr.Error())

	bare := &UserError{Message: "Invalid request"}
	assert.Equal(t, "Invalid request", bare.Error())
	assert.Nil(t, bare.Unwrap())

	assert.Equal(t, withErr.Err, withErr.Unwrap())
}

func TestExitCodeValues(t *testing.T) {
	// The codes are part of the CLI contract; scripts branch on them.
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitConfig)
	assert.Equal(t, 2, ExitDatabase)
	assert.Equal(t, 3, ExitNetwork)
	assert.Equal(t, 4, ExitInput)
	assert.Equal(t, 5, ExitPermission)
	assert.Equal(t, 6, ExitNotFound)
	assert.Equal(t, 10, ExitInternal)
}

func TestConstructors(t *testing.T) {
	underlying := fmt.Errorf("underlying")

	tests := []struct {
		name     string
		err      *UserError
		wantCode int
		wantErr  bool
	}{
		{"config", NewConfigError("m", "c", "f", underlying), ExitConfig, true},
		{"config nil err", NewConfigError("m", "c", "f", nil), ExitConfig, false},
		{"database", NewDatabaseError("m", "c", "f", underlying), ExitDatabase, true},
		{"network", NewNetworkError("m", "c", "f", underlying), ExitNetwork, true},
		{"input", NewInputError("m", "c", "f"), ExitInput, false},
		{"permission", NewPermissionError("m", "c", "f", underlying), ExitPermission, true},
		{"not found", NewNotFoundError("m", "c", "f"), ExitNotFound, false},
		{"internal", NewInternalError("m", "c", "f", underlying), ExitInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "m", tt.err.Message)
			assert.Equal(t, "c", tt.err.Cause)
			assert.Equal(t, "f", tt.err.Fix)
			assert.Equal(t, tt.wantCode, tt.err.ExitCode)
			assert.Equal(t, tt.wantErr, tt.err.Err != nil)
		})
	}
}

func TestErrorChain(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	wrapped := fmt.Errorf("context: %w", sentinel)
	userErr := NewDatabaseError("Cannot save pattern database", "disk full", "Free space", wrapped)

	assert.True(t, errors.Is(userErr, sentinel), "errors.Is must traverse the UserError chain")

	var target *UserError
	require.True(t, errors.As(userErr, &target))
	assert.Equal(t, ExitDatabase, target.ExitCode)

	// A UserError wrapping another UserError unwraps outer-first.
	inner := NewConfigError("Cannot load configuration", "c", "f", nil)
	outer := NewInternalError("Unexpected state", "c", "f", inner)

	var outerTarget *UserError
	require.True(t, errors.As(outer, &outerTarget))
	assert.Equal(t, ExitInternal, outerTarget.ExitCode)

	var innerTarget *UserError
	require.True(t, errors.As(outerTarget.Err, &innerTarget))
	assert.Equal(t, ExitConfig, innerTarget.ExitCode)
}

func TestFormatRendering(t *testing.T) {
	full := &UserError{
		Message:  "Cannot load pattern database",
		Cause:    "The file patterns.json is not valid JSON",
		Fix:      "Fix the file or drop --regex-db to use the builtin catalog",
		ExitCode: ExitDatabase,
	}
	out := full.Format(true)
	assert.Contains(t, out, "Error: Cannot load pattern database\n")
	assert.Contains(t, out, "Cause: The file patterns.json is not valid JSON\n")
	assert.Contains(t, out, "Fix:   Fix the file or drop --regex-db")

	// Empty Cause and Fix lines are dropped, not printed blank.
	minimal := &UserError{Message: "Generation failed", ExitCode: ExitInternal}
	out = minimal.Format(true)
	assert.Contains(t, out, "Error: Generation failed\n")
	assert.NotContains(t, out, "Cause:")
	assert.NotContains(t, out, "Fix:")
}

func TestFormatHonorsNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	err := &UserError{Message: "m", Cause: "c", Fix: "f", ExitCode: ExitConfig}
	out := err.Format(false) // noColor flag unset, env var must still win
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes with NO_COLOR set")
}

func TestToJSON(t *testing.T) {
	full := NewInputError("Unknown credential type", "'x' is not in the catalog", "Run 'sdg db list'")
	j := full.ToJSON()
	assert.Equal(t, "Unknown credential type", j.Error)
	assert.Equal(t, "'x' is not in the catalog", j.Cause)
	assert.Equal(t, "Run 'sdg db list'", j.Fix)
	assert.Equal(t, ExitInput, j.ExitCode)

	minimal := &UserError{Message: "boom", ExitCode: ExitInternal}
	j = minimal.ToJSON()
	assert.Empty(t, j.Cause)
	assert.Empty(t, j.Fix)
}

// FatalError calls os.Exit for non-nil errors, so only the nil no-op is
// testable in-process.
func TestFatalErrorNilIsNoop(t *testing.T) {
	FatalError(nil, false)
	FatalError(nil, true)
}
