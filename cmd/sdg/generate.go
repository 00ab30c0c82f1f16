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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/sdg/internal/errors"
	"github.com/kraklabs/sdg/internal/output"
	"github.com/kraklabs/sdg/internal/ui"
	"github.com/kraklabs/sdg/pkg/content"
	"github.com/kraklabs/sdg/pkg/generator"
	"github.com/kraklabs/sdg/pkg/llm"
	"github.com/kraklabs/sdg/pkg/patterndb"
)

// runGenerate executes the 'generate' CLI command.
//
// Examples:
//
//	sdg generate --num-files 100 --formats eml,xlsx --credential-types aws_access_key --topics "cloud migration"
//	sdg generate --num-files 10 --formats docx,pdf --language fr --embed-strategy metadata --seed 42
//	sdg generate --num-files 500 --neural-content --llm-model llama3.2 --metrics-addr :9102
func runGenerate(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	outputDir := fs.String("output-dir", "", "Output directory (default from config)")
	numFiles := fs.Int("num-files", 1, "Number of files to generate")
	formats := fs.StringSlice("formats", nil, "Comma-separated output formats")
	credTypes := fs.StringSlice("credential-types", nil, "Comma-separated credential type ids")
	regexDB := fs.String("regex-db", "", "Pattern database JSON (default: builtin catalog)")
	topics := fs.StringSlice("topics", nil, "Comma-separated document topics")
	languages := fs.StringSlice("language", nil, "Language code(s); empty for a per-file draw")
	embedStrategy := fs.String("embed-strategy", "random", "Credential placement: random, metadata, or body")
	batchSize := fs.Int("batch-size", 0, "Files per batch (default from config)")
	seed := fs.Int64("seed", 0, "RNG seed for reproducible runs")
	minCreds := fs.Int("min-credentials", 1, "Minimum credentials per file")
	maxCreds := fs.Int("max-credentials", 0, "Maximum credentials per file (default: min)")
	neuralContent := fs.Bool("neural-content", false, "Generate titles and bodies with the LLM")
	neuralCreds := fs.Bool("neural-credentials", false, "Generate credential values with the LLM")
	llmModel := fs.String("llm-model", "", "LLM model name (default from config)")
	llmProvider := fs.String("llm-provider", "", "LLM provider: ollama, openai, anthropic, mock")
	ultraFast := fs.Bool("ultra-fast", false, "Cache companies and section templates per run")
	procIsolation := fs.Bool("process-isolation", false, "Give each worker its own LLM client handle")
	maxWorkers := fs.Int("max-workers", 0, "Worker count override (0 = derive from host)")
	memoryLimit := fs.Float64("memory-limit", 0, "Memory limit in GiB for the governor")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sdg generate [options]

Generates synthetic business documents seeded with regex-conformant fake
credentials. The credential values are decorative; they satisfy their
declared pattern and nothing more.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	db, err := loadPatternDB(firstNonEmpty(*regexDB, cfg.RegexDB))
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	companies, err := loadCompanies(cfg.Companies)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	req := generator.DefaultRequest()
	req.OutputDir = firstNonEmpty(*outputDir, cfg.OutputDir)
	req.NumFiles = *numFiles
	req.Formats = *formats
	req.CredentialTypes = *credTypes
	req.Topics = *topics
	req.Languages = *languages
	req.EmbedStrategy = *embedStrategy
	req.MinCredentials = *minCreds
	req.MaxCredentials = *maxCreds
	if req.MaxCredentials == 0 {
		req.MaxCredentials = req.MinCredentials
	}
	req.BatchSize = *batchSize
	if req.BatchSize == 0 {
		req.BatchSize = cfg.Generation.BatchSize
	}
	if fs.Changed("seed") {
		req.Seed = seed
	}
	req.UseNeuralContent = *neuralContent
	req.UseNeuralCredentials = *neuralCreds
	req.UltraFast = *ultraFast || cfg.Generation.UltraFast
	req.UseProcessIsolation = *procIsolation
	req.MaxWorkers = *maxWorkers
	if req.MaxWorkers == 0 {
		req.MaxWorkers = cfg.Generation.MaxWorkers
	}
	req.MemoryLimitGiB = *memoryLimit
	if req.MemoryLimitGiB == 0 {
		req.MemoryLimitGiB = cfg.Generation.MemoryLimitGiB
	}
	req.Temperature = cfg.LLM.Temperature

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			slog.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	opts := []generator.Option{generator.WithParallelSections(true)}
	progress := NewProgressConfig(globals)

	if req.UseNeuralContent || req.UseNeuralCredentials {
		spinner := NewSpinner(progress, "Probing LLM")
		gen, err := buildNeural(ctx, cfg, *llmProvider, *llmModel)
		if spinner != nil {
			_ = spinner.Finish()
		}
		if err != nil {
			// The neural path is best effort; the template path covers it.
			ui.Warningf("LLM unavailable, using template content: %v", err)
		} else {
			opts = append(opts,
				generator.WithNeural(gen),
				generator.WithNeuralFactory(func() generator.TextGenerator {
					handle := gen.Clone()
					handle.Load(ctx)
					return handle
				}),
			)
		}
	}

	bar := NewProgressBar(progress, int64(req.NumFiles), "Generating")
	if bar != nil {
		opts = append(opts, generator.WithProgress(func(completed, total int) {
			_ = bar.Set(completed)
		}))
	}

	orch := generator.New(db, companies, opts...)
	result, err := orch.Run(ctx, req)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Generation request rejected",
			err.Error(),
			"Adjust the flags; see 'sdg generate --help' and 'sdg db list'",
		), globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(err, true)
		}
	} else {
		printSummary(result)
	}

	if len(result.Files) == 0 {
		os.Exit(errors.ExitInternal)
	}
}

// printSummary renders the human-readable run report.
func printSummary(result *generator.RunResult) {
	ui.Header("Generation Summary")
	fmt.Printf("  Run ID:       %s\n", result.RunID)
	fmt.Printf("  Files:        %s\n", ui.CountText(result.Stats.FilesGenerated))
	fmt.Printf("  Credentials:  %s\n", ui.CountText(result.Stats.TotalCredentials))
	fmt.Printf("  Batches:      %d (cleanups: %d, workers: %d)\n",
		result.Stats.BatchesRun, result.Stats.MemoryCleanups, result.Stats.Workers)
	fmt.Printf("  Elapsed:      %s\n", result.Stats.Elapsed.Round(1e6))

	if len(result.Stats.PerFormat) > 0 {
		ui.SubHeader("Per format")
		for _, k := range sortedKeys(result.Stats.PerFormat) {
			fmt.Printf("  %-8s %d\n", k, result.Stats.PerFormat[k])
		}
	}
	if len(result.Stats.PerType) > 0 {
		ui.SubHeader("Per credential type")
		for _, k := range sortedKeys(result.Stats.PerType) {
			fmt.Printf("  %-24s %d\n", k, result.Stats.PerType[k])
		}
	}

	if len(result.Errors) > 0 {
		ui.SubHeader("Errors")
		for _, fe := range result.Errors {
			ui.Errorf("file %d [%s]: %s", fe.Index, fe.Category, fe.Message)
		}
	} else {
		ui.Success("All files generated")
	}
}

// loadPatternDB loads the catalog from path, or the builtin catalog when
// path is empty.
func loadPatternDB(path string) (*patterndb.DB, error) {
	if path == "" {
		return patterndb.Builtin(), nil
	}
	db, err := patterndb.Load(path)
	if err != nil {
		return nil, errors.NewDatabaseError(
			"Cannot load pattern database",
			fmt.Sprintf("Loading %s failed: %v", path, err),
			"Fix the JSON file or drop --regex-db to use the builtin catalog",
			err,
		)
	}
	return db, nil
}

func loadCompanies(path string) (*content.CompanyMap, error) {
	if path == "" {
		return content.BuiltinCompanies(), nil
	}
	m, err := content.LoadCompanies(path)
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot load company map",
			fmt.Sprintf("Loading %s failed: %v", path, err),
			"Fix the JSON file or remove the companies setting",
			err,
		)
	}
	return m, nil
}

// buildNeural wires the LLM generator and waits for its readiness probe.
func buildNeural(ctx context.Context, cfg *Config, providerFlag, modelFlag string) (*llm.Generator, error) {
	pcfg := llm.ProviderConfig{
		Type:         firstNonEmpty(providerFlag, cfg.LLM.Provider),
		DefaultModel: firstNonEmpty(modelFlag, cfg.LLM.Model),
	}
	provider, err := llm.NewProvider(pcfg)
	if err != nil {
		return nil, err
	}
	gen := llm.NewGenerator(provider)
	gen.Load(ctx)
	return gen, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
