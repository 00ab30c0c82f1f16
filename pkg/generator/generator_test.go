// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/sdg/pkg/content"
	"github.com/kraklabs/sdg/pkg/patterndb"
)

func testRequest(t *testing.T, numFiles int, formats ...string) Request {
	t.Helper()
	req := DefaultRequest()
	req.OutputDir = t.TempDir()
	req.NumFiles = numFiles
	req.Formats = formats
	req.CredentialTypes = []string{"aws_access_key"}
	req.Topics = []string{"database migration"}
	req.Languages = []string{"en"}
	req.EmbedStrategy = content.EmbedBody
	return req
}

func seeded(v int64) *int64 { return &v }

func TestValidate(t *testing.T) {
	db := patterndb.Builtin()

	valid := testRequest(t, 2, "eml")
	require.NoError(t, valid.Validate(db))

	cases := map[string]func(*Request){
		"zero files":          func(r *Request) { r.NumFiles = 0 },
		"zero batch":          func(r *Request) { r.BatchSize = 0 },
		"no formats":          func(r *Request) { r.Formats = nil },
		"unsupported format":  func(r *Request) { r.Formats = []string{"tiff"} },
		"no credential types": func(r *Request) { r.CredentialTypes = nil },
		"unknown type":        func(r *Request) { r.CredentialTypes = []string{"nonexistent_type"} },
		"no topics":           func(r *Request) { r.Topics = nil },
		"bad language":        func(r *Request) { r.Languages = []string{"xx"} },
		"ai_determined":       func(r *Request) { r.EmbedStrategy = "ai_determined" },
		"unknown strategy":    func(r *Request) { r.EmbedStrategy = "everywhere" },
		"min below one":       func(r *Request) { r.MinCredentials = 0 },
		"max below min":       func(r *Request) { r.MinCredentials = 2; r.MaxCredentials = 1 },
		"max above types":     func(r *Request) { r.MaxCredentials = 5 },
		"no output dir":       func(r *Request) { r.OutputDir = "" },
	}
	for name, mutate := range cases {
		req := testRequest(t, 2, "eml")
		mutate(&req)
		err := req.Validate(db)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestWorkerCount(t *testing.T) {
	req := Request{MaxWorkers: 3}
	assert.Equal(t, 3, workerCount(req))

	// 2.4 GiB limit caps at two workers regardless of cores.
	req = Request{MemoryLimitGiB: 2.4}
	assert.Equal(t, 2, workerCount(req))

	// A huge limit caps at maxWorkerCap or the CPU share.
	req = Request{MemoryLimitGiB: 1024}
	w := workerCount(req)
	assert.GreaterOrEqual(t, w, 1)
	assert.LessOrEqual(t, w, maxWorkerCap)
}

func TestEffectiveBatchSize(t *testing.T) {
	assert.Equal(t, 50, effectiveBatchSize(2000, 200))
	assert.Equal(t, 50, effectiveBatchSize(1500, 100))
	assert.Equal(t, 200, effectiveBatchSize(100, 200))
	assert.Equal(t, 40, effectiveBatchSize(2000, 40))
	assert.Equal(t, 10, effectiveBatchSize(10, 10))
}

func TestFileSeed(t *testing.T) {
	assert.Equal(t, fileSeed(42, 7), fileSeed(42, 7))
	assert.NotEqual(t, fileSeed(42, 7), fileSeed(42, 8))
	assert.NotEqual(t, fileSeed(42, 7), fileSeed(43, 7))
}

func TestPlanDeterministicAndResolved(t *testing.T) {
	db := patterndb.Builtin()
	o := New(db, content.BuiltinCompanies())

	req := testRequest(t, 20, "eml", "xlsx", "pdf")
	req.CredentialTypes = []string{"aws_access_key", "jwt_token", "github_pat"}
	req.MinCredentials = 1
	req.MaxCredentials = 3
	req.EmbedStrategy = content.EmbedRandom
	req.Languages = nil

	a := o.plan(req, 42)
	b := o.plan(req, 42)
	require.True(t, reflect.DeepEqual(a, b), "plans must be reproducible")

	for _, p := range a {
		assert.Contains(t, []string{content.EmbedBody, content.EmbedMetadata}, p.strategy)
		assert.GreaterOrEqual(t, len(p.types), 1)
		assert.LessOrEqual(t, len(p.types), 3)

		seen := make(map[string]bool)
		for _, ct := range p.types {
			assert.False(t, seen[ct], "type %s sampled twice in one file", ct)
			seen[ct] = true
		}
		assert.Contains(t, content.SupportedLanguages, p.language)
	}

	c := o.plan(req, 43)
	assert.False(t, reflect.DeepEqual(a, c), "different seeds must give different plans")
}

var awsKeyRe = regexp.MustCompile(`AKIA[0-9A-Z]{16}`)

func extractKeys(t *testing.T, paths []string) []string {
	t.Helper()
	var keys []string
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		keys = append(keys, awsKeyRe.FindAllString(string(data), -1)...)
	}
	sort.Strings(keys)
	return keys
}

func TestRunSmallReproducibleEML(t *testing.T) {
	db := patterndb.Builtin()

	run := func() *RunResult {
		o := New(db, content.BuiltinCompanies())
		req := testRequest(t, 2, "eml")
		req.Seed = seeded(42)
		req.Topics = []string{"db"}
		res, err := o.Run(context.Background(), req)
		require.NoError(t, err)
		return res
	}

	res := run()
	require.Len(t, res.Files, 2)
	require.Empty(t, res.Errors)

	subjects := make(map[string]bool)
	for _, path := range res.Files {
		assert.Equal(t, ".eml", filepath.Ext(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		msg := string(data)

		assert.Contains(t, msg, "From: ")
		assert.Contains(t, msg, "Subject: ")
		assert.Len(t, awsKeyRe.FindAllString(msg, -1), 1, "exactly one key per file")

		for _, line := range strings.Split(msg, "\r\n") {
			if strings.HasPrefix(line, "Subject: ") {
				subjects[line] = true
			}
		}
	}
	assert.Len(t, subjects, 2, "subjects must differ between files")

	// A second identical request reproduces the same credential values.
	again := run()
	assert.Equal(t, extractKeys(t, res.Files), extractKeys(t, again.Files))
}

func TestRunMultiFormatUniqueness(t *testing.T) {
	db := patterndb.Builtin()
	o := New(db, content.BuiltinCompanies())

	req := testRequest(t, 10, "eml", "xlsx")
	req.CredentialTypes = []string{"aws_access_key", "jwt_token"}
	req.MinCredentials = 2
	req.MaxCredentials = 2
	req.Seed = seeded(7)
	req.Topics = []string{"t"}

	res, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Files, 10)

	assert.Equal(t, 10, len(res.Files)+len(res.Errors))
	assert.Equal(t, 20, res.Stats.TotalCredentials, "all 20 values unique")
	assert.Equal(t, 10, res.Stats.PerType["aws_access_key"])
	assert.Equal(t, 10, res.Stats.PerType["jwt_token"])

	total := 0
	for _, n := range res.Stats.PerFormat {
		total += n
	}
	assert.Equal(t, 10, total)
}

func TestRunMetadataStrategy(t *testing.T) {
	db := patterndb.Builtin()
	o := New(db, content.BuiltinCompanies())

	req := testRequest(t, 3, "eml")
	req.EmbedStrategy = content.EmbedMetadata
	req.Seed = seeded(11)

	res, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)

	for _, path := range res.Files {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "X-Aws-Access-Key: AKIA",
			"metadata mode must place the value in a header")
	}
}

func TestRunAccounting(t *testing.T) {
	db := patterndb.Builtin()
	o := New(db, content.BuiltinCompanies())

	req := testRequest(t, 7, "rtf", "pdf", "png")
	req.Seed = seeded(3)
	req.BatchSize = 2

	res, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, len(res.Files)+len(res.Errors))
	assert.Equal(t, len(res.Files), res.Stats.FilesGenerated)
	assert.Equal(t, 4, res.Stats.BatchesRun)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.RunID, 12)

	names := make(map[string]bool)
	for _, p := range res.Files {
		assert.False(t, names[p], "duplicate artifact path %s", p)
		names[p] = true
	}
}

func TestRunValidationFailureEscapes(t *testing.T) {
	db := patterndb.Builtin()
	o := New(db, content.BuiltinCompanies())

	req := testRequest(t, 2, "eml")
	req.CredentialTypes = []string{"bogus"}
	_, err := o.Run(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGovernorPressureHalvesBatch(t *testing.T) {
	g := NewGovernor(1)
	g.sample = func() uint64 { return 2 << 30 } // well past the limit

	assert.Equal(t, 5, g.BeforeBatch(10))
	assert.Equal(t, 2, g.BeforeBatch(4))
	assert.Equal(t, 2, g.BeforeBatch(2), "never below the floor")
	assert.GreaterOrEqual(t, g.Cleanups(), 3)
	assert.Len(t, g.History(), 3)
}

func TestGovernorPeriodicCleanup(t *testing.T) {
	g := NewGovernor(1024)
	g.sample = func() uint64 { return 1 << 20 }

	for i := 0; i < 10; i++ {
		assert.Equal(t, 8, g.BeforeBatch(8), "no shrink without pressure")
	}
	assert.Equal(t, 2, g.Cleanups(), "one cleanup per interval")
}

func TestGovernorHistoryBounded(t *testing.T) {
	g := NewGovernor(1024)
	g.sample = func() uint64 { return 1 << 20 }
	for i := 0; i < historyCap+20; i++ {
		g.BeforeBatch(4)
	}
	assert.Len(t, g.History(), historyCap)
}

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown(true)

	tasks := make([]*Task, 20)
	for i := range tasks {
		tasks[i] = p.Submit(func(ctx context.Context) (string, error) {
			return fmt.Sprintf("job-%d", i), nil
		})
	}
	for i, task := range tasks {
		path, err := task.Await(5 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("job-%d", i), path)
	}
}

func TestPoolAwaitTimeout(t *testing.T) {
	p := NewPool(1)
	defer p.Shutdown(false)

	task := p.Submit(func(ctx context.Context) (string, error) {
		select {
		case <-time.After(2 * time.Second):
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	_, err := task.Await(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrJobTimeout)
}

func TestPoolWorkerIDs(t *testing.T) {
	assert.Equal(t, 0, WorkerID(context.Background()), "outside a pool the id is zero")

	p := NewPool(3)
	defer p.Shutdown(true)

	tasks := make([]*Task, 30)
	for i := range tasks {
		tasks[i] = p.Submit(func(ctx context.Context) (string, error) {
			return strconv.Itoa(WorkerID(ctx)), nil
		})
	}
	for _, task := range tasks {
		out, err := task.Await(5 * time.Second)
		require.NoError(t, err)
		id, err := strconv.Atoi(out)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, 3)
	}
}

// offlineNeural always errors, pushing the assembler onto its template path.
type offlineNeural struct{}

func (offlineNeural) GenerateText(context.Context, string, int, float64) (string, error) {
	return "", errors.New("backend offline")
}

func TestRunIsolatedNeuralHandles(t *testing.T) {
	db := patterndb.Builtin()

	var minted atomic.Int32
	o := New(db, content.BuiltinCompanies(),
		WithNeural(offlineNeural{}),
		WithNeuralFactory(func() TextGenerator {
			minted.Add(1)
			return offlineNeural{}
		}))

	req := testRequest(t, 4, "eml")
	req.UseNeuralContent = true
	req.UseProcessIsolation = true
	req.MaxWorkers = 3
	req.Seed = seeded(5)

	res, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Files, 4)
	assert.Equal(t, int32(3), minted.Load(), "one handle per worker")
}

func TestRunIsolationOffSharesOneHandle(t *testing.T) {
	db := patterndb.Builtin()

	var minted atomic.Int32
	o := New(db, content.BuiltinCompanies(),
		WithNeural(offlineNeural{}),
		WithNeuralFactory(func() TextGenerator {
			minted.Add(1)
			return offlineNeural{}
		}))

	req := testRequest(t, 2, "eml")
	req.UseNeuralContent = true
	req.MaxWorkers = 3
	req.Seed = seeded(5)

	res, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
	assert.Zero(t, minted.Load(), "the factory only runs under isolation")
}

func TestPoolShutdownDrains(t *testing.T) {
	p := NewPool(2)
	done := make([]*Task, 6)
	for i := range done {
		done[i] = p.Submit(func(ctx context.Context) (string, error) {
			time.Sleep(5 * time.Millisecond)
			return "ok", nil
		})
	}
	p.Shutdown(true)
	for _, task := range done {
		path, err := task.Await(time.Second)
		require.NoError(t, err)
		assert.Equal(t, "ok", path)
	}
}
