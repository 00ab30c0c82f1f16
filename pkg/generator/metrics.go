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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsGenerate holds Prometheus metrics for the generation subsystem.
type metricsGenerate struct {
	once sync.Once

	filesGenerated prometheus.Counter
	fileErrors     prometheus.Counter
	credentials    prometheus.Counter
	batchesRun     prometheus.Counter
	batchShrinks   prometheus.Counter
	memCleanups    prometheus.Counter
	poolFallbacks  prometheus.Counter

	fileDuration  prometheus.Histogram
	batchDuration prometheus.Histogram
	runDuration   prometheus.Histogram
}

var genMetrics metricsGenerate

func (m *metricsGenerate) init() {
	m.once.Do(func() {
		m.filesGenerated = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_files_total", Help: "Archivos sintéticos generados"})
		m.fileErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_file_errors_total", Help: "Fallos por archivo (el run continúa)"})
		m.credentials = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_credentials_total", Help: "Credenciales sintéticas embebidas"})
		m.batchesRun = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_batches_total", Help: "Batches despachados al pool"})
		m.batchShrinks = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_batch_shrinks_total", Help: "Reducciones de batch por presión de memoria"})
		m.memCleanups = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_memory_cleanups_total", Help: "Limpiezas de memoria del governor"})
		m.poolFallbacks = prometheus.NewCounter(prometheus.CounterOpts{Name: "sdg_gen_pool_fallbacks_total", Help: "Batches reintentados en modo secuencial"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.fileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "sdg_gen_file_seconds", Help: "Duración de generación por archivo", Buckets: buckets})
		m.batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "sdg_gen_batch_seconds", Help: "Duración por batch", Buckets: buckets})
		m.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "sdg_gen_run_seconds", Help: "Duración total del run", Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600}})

		prometheus.MustRegister(
			m.filesGenerated, m.fileErrors, m.credentials,
			m.batchesRun, m.batchShrinks, m.memCleanups, m.poolFallbacks,
			m.fileDuration, m.batchDuration, m.runDuration,
		)
	})
}

// record helpers - used by the orchestrator
func recordFileGenerated(creds int, seconds float64) {
	genMetrics.init()
	genMetrics.filesGenerated.Inc()
	genMetrics.credentials.Add(float64(creds))
	genMetrics.fileDuration.Observe(seconds)
}

func recordFileError() { genMetrics.init(); genMetrics.fileErrors.Inc() }

func recordBatch(seconds float64, shrunk bool) {
	genMetrics.init()
	genMetrics.batchesRun.Inc()
	genMetrics.batchDuration.Observe(seconds)
	if shrunk {
		genMetrics.batchShrinks.Inc()
	}
}

func recordRun(seconds float64) { genMetrics.init(); genMetrics.runDuration.Observe(seconds) }

func recordMemCleanups(n int) { genMetrics.init(); genMetrics.memCleanups.Add(float64(n)) }

func recordPoolFallback() { genMetrics.init(); genMetrics.poolFallbacks.Inc() }
