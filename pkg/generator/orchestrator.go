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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/kraklabs/sdg/pkg/content"
	"github.com/kraklabs/sdg/pkg/credgen"
	"github.com/kraklabs/sdg/pkg/patterndb"
	"github.com/kraklabs/sdg/pkg/synth"
)

// maxWorkerCap bounds the derived worker count.
const maxWorkerCap = 12

// TextGenerator is the neural capability shared by the assembler and the
// credential factory.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Orchestrator drives whole runs over a loaded pattern database and company
// map. Both collaborators are read-only and shared across runs.
type Orchestrator struct {
	db        *patterndb.DB
	companies *content.CompanyMap

	neural           TextGenerator
	neuralFactory    func() TextGenerator
	parallelSections bool

	// onFile, when set, is called after every finished job with the number
	// of completed files so far. Invoked from the aggregation loop only.
	onFile func(completed, total int)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNeural attaches the neural generator. It is only exercised when the
// Request enables a neural path.
func WithNeural(gen TextGenerator) Option {
	return func(o *Orchestrator) { o.neural = gen }
}

// WithNeuralFactory registers a constructor for independent neural
// handles. When a Request sets UseProcessIsolation, every pool worker gets
// its own handle instead of sharing one client.
func WithNeuralFactory(fn func() TextGenerator) Option {
	return func(o *Orchestrator) { o.neuralFactory = fn }
}

// WithParallelSections enables bounded intra-file parallelism in the
// assembler.
func WithParallelSections(on bool) Option {
	return func(o *Orchestrator) { o.parallelSections = on }
}

// WithProgress registers a per-file completion callback, e.g. a progress
// bar update.
func WithProgress(fn func(completed, total int)) Option {
	return func(o *Orchestrator) { o.onFile = fn }
}

// New builds an Orchestrator.
func New(db *patterndb.DB, companies *content.CompanyMap, opts ...Option) *Orchestrator {
	o := &Orchestrator{db: db, companies: companies}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// filePlan fixes every random choice for one file index. Plans are derived
// from (seed, fileIndex) alone, so they are identical across runs and
// independent of scheduling order.
type filePlan struct {
	index    int
	format   string
	topic    string
	language string
	strategy string
	types    []string
	rngSeed  int64
}

// outcome is one finished file job.
type outcome struct {
	index    int
	path     string
	format   string
	types    []string
	err      error
	category string
}

// Run executes one request end to end. Only validation and database errors
// escape; every per-file failure lands in RunResult.Errors and the run
// continues.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*RunResult, error) {
	start := time.Now()
	if err := req.Validate(o.db); err != nil {
		return nil, err
	}

	root := time.Now().UnixNano()
	if req.Seed != nil {
		root = *req.Seed
	}

	workers := workerCount(req)
	batchSize := effectiveBatchSize(req.NumFiles, req.BatchSize)
	plans := o.plan(req, root)

	result := &RunResult{
		RunID: runID(req, root),
		Stats: Stats{
			PerFormat: make(map[string]int),
			PerType:   make(map[string]int),
			Workers:   workers,
		},
	}

	slog.Info("generate.run.start",
		"run_id", result.RunID, "num_files", req.NumFiles, "workers", workers,
		"batch_size", batchSize, "formats", req.Formats, "seed", root)
	if batchSize != req.BatchSize {
		slog.Info("generate.batch.shrink", "requested", req.BatchSize, "effective", batchSize)
	}

	reg := credgen.NewRegistry()
	assemblers := o.buildAssemblers(req, reg, workers)
	binders := synth.NewRegistry(req.OutputDir)

	gov := NewGovernor(req.MemoryLimitGiB)
	pool := NewPool(workers)
	defer pool.Shutdown(true)

	sequential := workers <= 1
	for offset := 0; offset < len(plans); {
		size := gov.BeforeBatch(batchSize)
		end := offset + size
		if end > len(plans) {
			end = len(plans)
		}
		batch := plans[offset:end]
		offset = end

		batchStart := time.Now()
		outcomes := o.runBatch(ctx, pool, sequential, batch, assemblers, binders)

		// A batch where every job died in the pool machinery points at the
		// pool itself; redo it in-line and stay sequential from here on.
		if !sequential && allPoolFailures(outcomes) {
			slog.Warn("generate.pool.sequential_fallback", "batch_size", len(batch))
			recordPoolFallback()
			sequential = true
			outcomes = o.runBatch(ctx, nil, true, batch, assemblers, binders)
		}

		for _, out := range outcomes {
			if o.onFile != nil {
				o.onFile(len(result.Files)+len(result.Errors)+1, req.NumFiles)
			}
			if out.err != nil {
				result.Errors = append(result.Errors, FileError{
					Index:    out.index,
					Category: out.category,
					Message:  out.err.Error(),
				})
				recordFileError()
				slog.Warn("generate.file.error",
					"file_index", out.index, "category", out.category, "error", out.err)
				continue
			}
			result.Files = append(result.Files, out.path)
			result.Stats.PerFormat[out.format]++
			for _, t := range out.types {
				result.Stats.PerType[t]++
			}
		}

		result.Stats.BatchesRun++
		recordBatch(time.Since(batchStart).Seconds(), size < batchSize)
	}

	result.Stats.FilesGenerated = len(result.Files)
	result.Stats.TotalCredentials = reg.Total()
	result.Stats.MemoryCleanups = gov.Cleanups()
	result.Stats.Elapsed = time.Since(start)
	recordMemCleanups(gov.Cleanups())
	recordRun(result.Stats.Elapsed.Seconds())

	slog.Info("generate.run.done",
		"run_id", result.RunID, "files", len(result.Files), "errors", len(result.Errors),
		"credentials", result.Stats.TotalCredentials, "elapsed", result.Stats.Elapsed)
	return result, nil
}

// buildAssemblers constructs the run's assemblers: a single shared one, or
// one per worker when the request isolates the neural handle. Every
// assembler shares the uniqueness registry, so isolation never weakens the
// cross-file uniqueness guarantee.
func (o *Orchestrator) buildAssemblers(req Request, reg *credgen.Registry, workers int) []*content.Assembler {
	build := func(neural TextGenerator) *content.Assembler {
		factory := credgen.NewFactory(o.db, reg)
		if req.UseNeuralCredentials && neural != nil {
			factory = factory.WithNeural(neural)
		}
		a := content.NewAssembler(factory, o.companies).
			WithUltraFast(req.UltraFast).
			WithParallelSections(o.parallelSections)
		if req.UseNeuralContent && neural != nil {
			a = a.WithNeural(neural)
		}
		return a
	}

	neuralInUse := o.neural != nil && (req.UseNeuralContent || req.UseNeuralCredentials)
	if req.UseProcessIsolation && neuralInUse && o.neuralFactory != nil && workers > 1 {
		assemblers := make([]*content.Assembler, workers)
		for w := range assemblers {
			assemblers[w] = build(o.neuralFactory())
		}
		slog.Info("generate.neural.isolated", "handles", workers)
		return assemblers
	}
	return []*content.Assembler{build(o.neural)}
}

// runBatch executes one batch, in the pool or in-line, and returns outcomes
// indexed like the batch.
func (o *Orchestrator) runBatch(ctx context.Context, pool *Pool, sequential bool, batch []filePlan, assemblers []*content.Assembler, binders *synth.Registry) []outcome {
	outcomes := make([]outcome, len(batch))

	if sequential {
		for i, plan := range batch {
			outcomes[i] = o.buildFile(ctx, plan, assemblers, binders)
		}
		return outcomes
	}

	// Each task owns its result struct; the main goroutine only reads it
	// after Await confirms the done channel closed, so a job that outlives
	// its timeout can finish writing without racing the aggregation.
	tasks := make([]*Task, len(batch))
	results := make([]*outcome, len(batch))
	for i, plan := range batch {
		res := &outcome{}
		results[i] = res
		tasks[i] = pool.Submit(func(jctx context.Context) (string, error) {
			*res = o.buildFile(jctx, plan, assemblers, binders)
			return res.path, res.err
		})
	}
	for i, t := range tasks {
		if t == nil {
			outcomes[i] = outcome{
				index: batch[i].index, format: batch[i].format,
				err: errors.New("worker pool rejected the job"), category: CategoryWorker,
			}
			continue
		}
		if _, err := t.Await(defaultJobTimeout + 5*time.Second); errors.Is(err, ErrJobTimeout) {
			outcomes[i] = outcome{
				index: batch[i].index, format: batch[i].format,
				err: err, category: CategoryTimeout,
			}
			continue
		}
		outcomes[i] = *results[i]
	}
	return outcomes
}

// buildFile assembles and synthesizes one file on its worker's assembler.
func (o *Orchestrator) buildFile(ctx context.Context, plan filePlan, assemblers []*content.Assembler, binders *synth.Registry) outcome {
	assembler := assemblers[WorkerID(ctx)%len(assemblers)]
	out := outcome{index: plan.index, format: plan.format, types: plan.types}
	fileStart := time.Now()

	cs, err := assembler.Assemble(ctx, content.Params{
		Topic:           plan.topic,
		CredentialTypes: plan.types,
		Language:        plan.language,
		Format:          plan.format,
		EmbedStrategy:   plan.strategy,
		Rand:            rand.New(rand.NewSource(plan.rngSeed)), //nolint:gosec // deterministic per-file stream
		FileIndex:       plan.index,
		Temperature:     temperatureFor(plan),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			out.err, out.category = err, CategoryTimeout
			return out
		}
		out.err = fmt.Errorf("assemble file %d: %w", plan.index, err)
		out.category = CategoryGeneration
		return out
	}

	path, err := binders.Synthesize(cs)
	if err != nil {
		out.err = fmt.Errorf("synthesize file %d: %w", plan.index, err)
		out.category = CategorySynthesis
		return out
	}

	out.path = path
	recordFileGenerated(len(cs.Credentials), time.Since(fileStart).Seconds())
	return out
}

func temperatureFor(plan filePlan) float64 {
	_ = plan
	return 0.7
}

// plan fixes every file's choices up front from its derived RNG.
func (o *Orchestrator) plan(req Request, root int64) []filePlan {
	plans := make([]filePlan, req.NumFiles)
	for i := range plans {
		seed := fileSeed(root, i)
		r := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic per-file stream

		plan := filePlan{
			index:   i,
			format:  req.Formats[r.Intn(len(req.Formats))],
			topic:   req.Topics[r.Intn(len(req.Topics))],
			rngSeed: r.Int63(),
		}

		switch len(req.Languages) {
		case 0:
			// No preference: draw a language, the company draw follows it.
			plan.language = content.SupportedLanguages[r.Intn(len(content.SupportedLanguages))]
		case 1:
			plan.language = req.Languages[0]
		default:
			plan.language = req.Languages[r.Intn(len(req.Languages))]
		}

		plan.strategy = req.EmbedStrategy
		if plan.strategy == content.EmbedRandom {
			if r.Intn(2) == 0 {
				plan.strategy = content.EmbedBody
			} else {
				plan.strategy = content.EmbedMetadata
			}
		}

		count := req.MinCredentials
		if req.MaxCredentials > req.MinCredentials {
			count += r.Intn(req.MaxCredentials - req.MinCredentials + 1)
		}
		types := make([]string, len(req.CredentialTypes))
		copy(types, req.CredentialTypes)
		r.Shuffle(len(types), func(a, b int) { types[a], types[b] = types[b], types[a] })
		plan.types = types[:count]

		plans[i] = plan
	}
	return plans
}

// fileSeed mixes the root seed with the file index so every file gets an
// independent, reproducible stream.
func fileSeed(root int64, index int) int64 {
	x := uint64(root) + uint64(index+1)*0x9E3779B97F4A7C15 //nolint:gosec // G115: wrapping mix
	x ^= x >> 33
	x *= 0xFF51AFD7ED558CCD
	x ^= x >> 33
	return int64(x) //nolint:gosec // G115: wrapping mix
}

// workerCount derives W = min(0.8·cores, memGiB/1.2, 12), at least 1. An
// explicit MaxWorkers wins.
func workerCount(req Request) int {
	if req.MaxWorkers > 0 {
		return req.MaxWorkers
	}
	byCPU := runtime.NumCPU() * 8 / 10
	memGiB := req.MemoryLimitGiB
	if memGiB <= 0 {
		memGiB = systemMemoryGiB()
	}
	byMem := int(memGiB / 1.2)

	w := byCPU
	if byMem < w {
		w = byMem
	}
	if w > maxWorkerCap {
		w = maxWorkerCap
	}
	if w < 1 {
		w = 1
	}
	return w
}

// effectiveBatchSize bounds peak memory on very large runs by shrinking
// oversized batches to min(50, numFiles/20).
func effectiveBatchSize(numFiles, batchSize int) int {
	if numFiles < 1000 || batchSize <= 50 {
		return batchSize
	}
	shrunk := numFiles / 20
	if shrunk > 50 {
		shrunk = 50
	}
	if shrunk < 1 {
		shrunk = 1
	}
	return shrunk
}

func allPoolFailures(outcomes []outcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, out := range outcomes {
		if out.category != CategoryWorker && out.category != CategoryTimeout {
			return false
		}
	}
	return true
}

// runID names the run: a short digest of the request and its seed.
func runID(req Request, root int64) string {
	payload, _ := json.Marshal(req)
	h := sha256.New()
	h.Write(payload)
	fmt.Fprintf(h, "|%d", root)
	return hex.EncodeToString(h.Sum(nil))[:12]
}
