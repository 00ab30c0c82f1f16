// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package output encodes machine-readable CLI output.
//
// Every command honors --json by routing its result through this package,
// so scripts get one consistent shape: pretty-printed JSON on stdout,
// errors as {"error": …} objects on stderr. Human-readable rendering lives
// in the ui package.
//
//	if globals.JSON {
//	    if err := output.JSON(result); err != nil {
//	        errors.FatalError(err, true)
//	    }
//	}
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes data to stdout, pretty-printed with two-space indentation.
// Fails only when data is not encodable (channels, funcs, cycles).
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo is JSON with an explicit writer, for tests.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONCompact writes data to stdout without indentation, one value per
// line, suitable for piping into line-oriented tooling.
func JSONCompact(data any) error {
	return JSONCompactTo(os.Stdout, data)
}

// JSONCompactTo is JSONCompact with an explicit writer, for tests.
func JSONCompactTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// ErrorJSON is the machine-readable error shape.
type ErrorJSON struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSONError writes err to stderr as an ErrorJSON object. Returns an error
// only when the encoding itself fails.
func JSONError(err error) error {
	return JSONErrorTo(os.Stderr, err)
}

// JSONErrorTo is JSONError with an explicit writer, for tests.
func JSONErrorTo(w io.Writer, err error) error {
	errObj := ErrorJSON{Error: err.Error()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(errObj); encErr != nil {
		return fmt.Errorf("JSON error encoding failed: %w", encErr)
	}
	return nil
}
