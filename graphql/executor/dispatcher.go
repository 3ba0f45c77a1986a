/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/botobag/artemis/concurrent"
	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/iterator"
)

// Task is a unit of work dispatched to run by a Dispatcher. ExecuteNodeTask and AsyncValueTask are
// the two kinds of Task scheduled during execution of the synchronous (initial) result; patch
// workers (scheduled via Dispatcher.schedule for deferred fragments and streamed list items) are
// plain functions run on their own goroutine and do not need to implement Task.
type Task interface {
	run()
}

// DataLoaderCycle counts the number of times pending DataLoader's have been dispatched during one
// execution. An AsyncValueTask records the cycle in effect when it started waiting for a Future so
// that at most one goroutine dispatches a given cycle's batch (see tryDispatchDataLoaders).
type DataLoaderCycle int64

// executor is implemented by Dispatcher. It is the facet of the Dispatcher that ExecuteNodeTask and
// AsyncValueTask need: schedule a Task to run, park a Task until its Future wakes it (Yield),
// re-schedule a parked Task (Resume), record a located error, and coordinate DataLoader dispatch
// cycles.
type executor interface {
	// Dispatch runs task, synchronously or on a worker goroutine depending on the Dispatcher's
	// configuration.
	Dispatch(task Task)

	// Yield parks task; it will not run again until Resume is called for it (normally from the
	// task's Future waker).
	Yield(task Task)

	// Resume re-dispatches a previously yielded task.
	Resume(task Task)

	// AppendError records a located error in the errors sink that is currently in scope (the initial
	// result's errors list, or the owning patch's errors list for work running inside a scheduled
	// deferred/streamed unit).
	AppendError(err *graphql.Error, result *ResultNode)

	// DataLoaderCycle returns the current dispatch cycle counter.
	DataLoaderCycle() DataLoaderCycle

	// IncDataLoaderCycle attempts to advance the cycle counter to next, returning true if this
	// goroutine won the race to do so (and therefore owns dispatching that cycle's loaders).
	IncDataLoaderCycle(next DataLoaderCycle) bool
}

// patchResult is what a scheduled unit of deferred/streamed work settles to.
type patchResult struct {
	label      string
	hasLabel   bool
	path       *Path
	data       *ResultNode
	errs       graphql.Errors
	isClosing  bool // true for the async-iterator stream closing marker (no data, no path)
}

// Dispatcher owns the outstanding patch workers scheduled for one execution and produces the lazy
// sequence of patches in completion order, as described for the "Dispatcher" component.
//
// Single-writer discipline: outstanding/errors are only ever mutated by the goroutine that currently
// holds mutex, and every goroutine that completes a unit of work sends exactly once on
// results before touching outstanding again, which keeps the channel send as the single
// synchronization point between the producer goroutines and the consumer pulling PatchStream.Next.
type Dispatcher struct {
	// runner optionally off-loads Task execution and patch workers to a worker pool; nil means run
	// tasks synchronously on the calling goroutine (cooperative single-threaded scheduling).
	runner concurrent.Executor

	mutex sync.Mutex

	// outstanding counts patch workers that have been scheduled but have not yet sent their result.
	outstanding int

	// results receives one patchResult per scheduled unit as it completes.
	results chan patchResult

	// dataLoaderCycle is read/written only via atomic operations (may be touched by many goroutines
	// concurrently, unlike the rest of the Dispatcher's state).
	dataLoaderCycle int64

	// errs accumulates errors for whichever scope the Dispatcher is currently serving. The top-level
	// Executor gives it the initial result's errors sink; patch workers carry their own sink (see
	// scheduleWithSink).
	errs *graphql.Errors
}

// NewDispatcher creates a Dispatcher. runner may be nil to run everything on the calling goroutine.
func NewDispatcher(runner concurrent.Executor, errs *graphql.Errors) *Dispatcher {
	return &Dispatcher{
		runner:  runner,
		results: make(chan patchResult, 8),
		errs:    errs,
	}
}

// Dispatch implements executor. It runs task immediately (optionally on the worker pool).
func (d *Dispatcher) Dispatch(task Task) {
	if d.runner == nil {
		task.run()
		return
	}
	// Errors from Submit indicate the pool rejected the task (e.g., shut down); fall back to running
	// it inline rather than losing the work.
	if _, err := d.runner.Submit(concurrent.TaskFunc(func() (interface{}, error) {
		task.run()
		return nil, nil
	})); err != nil {
		task.run()
	}
}

// Yield implements executor. This Dispatcher has no separate parked-task bookkeeping: the Task
// itself is retained by its Future's waker closure, so Yield is a no-op hook kept for symmetry with
// Resume and to mirror the teacher's AsyncValueTask contract.
func (d *Dispatcher) Yield(task Task) {}

// Resume implements executor.
func (d *Dispatcher) Resume(task Task) {
	d.Dispatch(task)
}

// AppendError implements executor.
func (d *Dispatcher) AppendError(err *graphql.Error, result *ResultNode) {
	d.mutex.Lock()
	d.errs.Append(err)
	d.mutex.Unlock()
}

// DataLoaderCycle implements executor.
func (d *Dispatcher) DataLoaderCycle() DataLoaderCycle {
	return DataLoaderCycle(atomic.LoadInt64(&d.dataLoaderCycle))
}

// IncDataLoaderCycle implements executor.
func (d *Dispatcher) IncDataLoaderCycle(next DataLoaderCycle) bool {
	return atomic.CompareAndSwapInt64(&d.dataLoaderCycle, int64(next)-1, int64(next))
}

// schedule registers one unit of deferred/streamed work to run on its own goroutine (or the worker
// pool, if configured) and enqueues its patchResult onto d.results once it settles. worker runs with
// its own errors sink so that errors raised inside it are attributed to the owning patch rather than
// the initial result.
func (d *Dispatcher) schedule(label string, hasLabel bool, path *Path, worker func(errs *graphql.Errors) *ResultNode) {
	d.mutex.Lock()
	d.outstanding++
	d.mutex.Unlock()

	run := func() {
		var errs graphql.Errors
		data := worker(&errs)
		d.complete(patchResult{
			label:    label,
			hasLabel: hasLabel,
			path:     path,
			data:     data,
			errs:     errs,
		})
	}

	if d.runner == nil {
		go run()
		return
	}
	if _, err := d.runner.Submit(concurrent.TaskFunc(func() (interface{}, error) {
		run()
		return nil, nil
	})); err != nil {
		go run()
	}
}

// beginOutstanding marks one unit of out-of-band work as scheduled without itself spawning a
// goroutine; used by StreamDriver's Iterable pump, which produces many patches off of a single
// goroutine and so manages its own outstanding count per emitted element instead of going through
// schedule (which assumes one worker produces exactly one patch).
func (d *Dispatcher) beginOutstanding() {
	d.mutex.Lock()
	d.outstanding++
	d.mutex.Unlock()
}

// complete records the settlement of one scheduled unit. The decrement of outstanding and the
// channel send happen under the same critical section that hasScheduledWork reads, so a consumer
// that observes "outstanding == 0 and the channel is empty" can never be racing a producer that has
// decremented but not yet enqueued its result (or vice versa): both happen atomically here.
func (d *Dispatcher) complete(result patchResult) {
	d.mutex.Lock()
	d.results <- result
	d.outstanding--
	d.mutex.Unlock()
}

// hasScheduledWork reports whether any unit has been scheduled (and therefore whether the Executor
// must return a lazy sequence instead of a single result).
func (d *Dispatcher) hasScheduledWork() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.outstanding > 0 || len(d.results) > 0
}

//===----------------------------------------------------------------------------------------====//
// PatchStream
//===----------------------------------------------------------------------------------------====//

// Patch is one incremental delivery unit, corresponding to the wire contract in §6: a deferred
// fragment's data, or a streamed list element, anchored at path, tagged with hasNext.
type Patch struct {
	// Data is the patch payload. nil for the async-iterator closing marker.
	Data *ResultNode

	// Path anchors Data in the initial result tree. nil for the closing marker.
	Path graphql.ResponsePath

	// Label is the directive's label, if any.
	Label string
	// HasLabel is true iff the originating directive carried a label argument.
	HasLabel bool

	Errors graphql.Errors

	// HasNext is true on every emitted element except the last.
	HasNext bool
}

// PatchStream is the lazy, pull-based sequence returned by Executor when deferred or streamed work
// was scheduled: an initial result followed by patches in completion order. Its Next method follows
// the iterator package's Next()-returning-iterator.Done idiom used throughout this repository.
type PatchStream struct {
	dispatcher *Dispatcher
	ctx        context.Context

	// initial is the first element to yield; haveInitial is cleared after the first Next call.
	initial     *ExecutionResult
	haveInitial bool

	done bool
}

// newPatchStream wraps initial with dispatcher's outstanding patches into a PatchStream.
func newPatchStream(ctx context.Context, dispatcher *Dispatcher, initial *ExecutionResult) *PatchStream {
	return &PatchStream{
		dispatcher:  dispatcher,
		ctx:         ctx,
		initial:     initial,
		haveInitial: true,
	}
}

// Next pulls the next element of the sequence. The first call always yields the initial result. It
// returns iterator.Done once the closing element (hasNext == false) has been yielded.
func (s *PatchStream) Next() (interface{}, error) {
	if s.done {
		return nil, iterator.Done
	}

	if s.haveInitial {
		s.haveInitial = false
		hasNext := s.dispatcher.hasScheduledWork()
		if !hasNext {
			s.done = true
		}
		return &InitialResult{ExecutionResult: *s.initial, HasNext: hasNext}, nil
	}

	select {
	case <-s.ctx.Done():
		s.done = true
		return nil, s.ctx.Err()
	case result := <-s.dispatcher.results:
		hasNext := s.dispatcher.hasScheduledWork()
		if !hasNext {
			s.done = true
		}

		if result.isClosing {
			return &Patch{HasNext: hasNext}, nil
		}

		return &Patch{
			Data:     result.data,
			Path:     result.path.ResponsePath(),
			Label:    result.label,
			HasLabel: result.hasLabel,
			Errors:   result.errs,
			HasNext:  hasNext,
		}, nil
	}
}

// InitialResult is the first element of a PatchStream: the synchronous execution result plus the
// terminal flag.
type InitialResult struct {
	ExecutionResult
	HasNext bool
}
