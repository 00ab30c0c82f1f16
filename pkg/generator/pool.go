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
	"sync"
	"time"
)

// ErrJobTimeout is returned by Await when a job misses its deadline. The
// underlying goroutine keeps running until its context fires; its late
// result is discarded.
var ErrJobTimeout = errors.New("job timed out")

// defaultJobTimeout bounds one file end to end.
const defaultJobTimeout = 300 * time.Second

// JobFunc is one file-generation unit of work.
type JobFunc func(ctx context.Context) (string, error)

// Task is the future for a submitted job.
type Task struct {
	fn   JobFunc
	done chan struct{}

	path string
	err  error
}

// Await blocks until the job completes or timeout elapses.
func (t *Task) Await(timeout time.Duration) (string, error) {
	select {
	case <-t.done:
		return t.path, t.err
	case <-time.After(timeout):
		return "", ErrJobTimeout
	}
}

// Pool runs jobs on a fixed set of worker goroutines. The submission queue
// is bounded to twice the worker count, so callers block rather than pile
// up outstanding work.
type Pool struct {
	workers int
	jobs    chan *Task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	jobTimeout time.Duration

	closeOnce sync.Once
}

// NewPool starts workers goroutines ready to execute jobs.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers:    workers,
		jobs:       make(chan *Task, 2*workers),
		ctx:        ctx,
		cancel:     cancel,
		jobTimeout: defaultJobTimeout,
	}
	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go p.worker(w)
	}
	return p
}

// Workers reports the pool's concurrency.
func (p *Pool) Workers() int { return p.workers }

type workerIDKey struct{}

// WorkerID returns the index of the pool worker running the job. Jobs
// executed outside a pool report 0.
func WorkerID(ctx context.Context) int {
	id, _ := ctx.Value(workerIDKey{}).(int)
	return id
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for t := range p.jobs {
		jctx, jcancel := context.WithTimeout(p.ctx, p.jobTimeout)
		t.path, t.err = t.fn(context.WithValue(jctx, workerIDKey{}, id))
		jcancel()
		close(t.done)
	}
}

// Submit queues fn and returns its future. Submit blocks while 2·W jobs are
// outstanding; it returns a nil Task after Shutdown.
func (p *Pool) Submit(fn JobFunc) *Task {
	t := &Task{fn: fn, done: make(chan struct{})}
	select {
	case p.jobs <- t:
		return t
	case <-p.ctx.Done():
		return nil
	}
}

// Shutdown stops the pool. With wait=true queued jobs drain first; with
// wait=false in-flight job contexts are canceled and the queue is dropped.
func (p *Pool) Shutdown(wait bool) {
	if !wait {
		p.cancel()
	}
	p.closeOnce.Do(func() { close(p.jobs) })
	p.wg.Wait()
	p.cancel()
}
