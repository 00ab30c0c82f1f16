// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONPrettyPrints(t *testing.T) {
	var buf bytes.Buffer

	data := map[string]any{
		"run_id": "a1b2c3d4e5f6",
		"files":  42,
	}
	require.NoError(t, JSONTo(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "  \"run_id\"", "expected two-space indentation")
	assert.Contains(t, out, `"run_id": "a1b2c3d4e5f6"`)
	assert.Contains(t, out, `"files": 42`)
	// json.Encoder terminates the value with a newline.
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
}

func TestJSONCompactSingleLine(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, JSONCompactTo(&buf, map[string]any{"run_id": "a1b2c3d4e5f6"}))

	out := buf.String()
	assert.NotContains(t, out, "  ")
	assert.Contains(t, out, `"run_id":"a1b2c3d4e5f6"`)
}

func TestJSONErrorShape(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, JSONErrorTo(&buf, errors.New("pattern database corrupt")))

	out := buf.String()
	assert.Contains(t, out, `"error": "pattern database corrupt"`)
	assert.NotContains(t, out, `"code"`, "empty code must be omitted")
}

func TestJSONRespectsStructTags(t *testing.T) {
	type summary struct {
		RunID   string `json:"run_id"`
		Files   int    `json:"files"`
		Skipped string `json:"skipped,omitempty"`
		Hidden  string `json:"-"`
	}

	var buf bytes.Buffer
	require.NoError(t, JSONTo(&buf, summary{RunID: "deadbeef0123", Files: 7, Hidden: "nope"}))

	out := buf.String()
	assert.Contains(t, out, `"run_id"`)
	assert.NotContains(t, out, "RunID")
	assert.NotContains(t, out, `"skipped"`)
	assert.NotContains(t, out, "nope")
}

func TestJSONEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONTo(&buf, map[string]string{
		"path": "out/report \"Q1\"\t.pdf",
	}))

	out := buf.String()
	assert.Contains(t, out, `\"Q1\"`)
	assert.Contains(t, out, `\t`)
}

func TestJSONNilPointer(t *testing.T) {
	var buf bytes.Buffer
	type wrapper struct {
		Seed *int64 `json:"seed"`
	}
	require.NoError(t, JSONTo(&buf, wrapper{}))
	assert.Contains(t, buf.String(), `"seed": null`)
}
