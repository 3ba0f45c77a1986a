/**
 * Copyright (c) 2018, The Artemis Authors.
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

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/internal/value"
)

// An ExecutionContext contains data which are required for an Executor to fulfill a request for
// execution. The context includes the operation to execute, variables supplied and request-specific
// values, and (unlike a non-incremental engine) the single Dispatcher instance that owns every
// deferred/streamed unit scheduled while walking the operation.
type ExecutionContext struct {
	// Context for the execution
	ctx context.Context

	// operation being executed.
	operation *PreparedOperation

	// rootValue is the "source" data for the top level field ("root fields").
	rootValue interface{}

	// appContext contains application-specific data which will get passed to all resolve functions.
	appContext interface{}

	// variableValues contains values to the parameters in current query. The values has passed input
	// coercion.
	variableValues graphql.VariableValues

	// dataLoaderManager tracks DataLoader usage across the execution, shared with ResolveInfo.
	dataLoaderManager graphql.DataLoaderManager

	// dispatcher owns outstanding patch workers and doubles as the executor facet ExecuteNodeTask and
	// AsyncValueTask dispatch through.
	dispatcher *Dispatcher

	// deferEnabled/streamEnabled record whether the schema's directive registry includes @defer/
	// @stream (see readDeferArguments/readStreamArguments, §4.2): a document using either without schema support is a
	// validation error, not something this engine silently accepts.
	deferEnabled  bool
	streamEnabled bool
}

// newExecutionContext initializes an ExecutionContext given the operation to execute and the
// request data.
func newExecutionContext(ctx context.Context, operation *PreparedOperation, params *ExecuteParams) (*ExecutionContext, graphql.Errors) {
	// Run input coercion on variable values.
	variableValues, errs := value.CoerceVariableValues(
		operation.Schema(),
		operation.VariableDefinitions(),
		params.VariableValues)
	if errs.HaveOccurred() {
		return nil, errs
	}

	schema := operation.Schema()

	return &ExecutionContext{
		ctx:               ctx,
		operation:         operation,
		rootValue:         params.RootValue,
		appContext:        params.AppContext,
		variableValues:    variableValues,
		dataLoaderManager: params.DataLoaderManager,
		deferEnabled:      schema.Directives().Lookup("defer") != nil,
		streamEnabled:     schema.Directives().Lookup("stream") != nil,
	}, graphql.NoErrors()
}

// Context returns the context.Context given to Execute.
func (c *ExecutionContext) Context() context.Context {
	return c.ctx
}

// Operation returns c.operation.
func (c *ExecutionContext) Operation() *PreparedOperation {
	return c.operation
}

// Schema is a shortcut for c.Operation().Schema().
func (c *ExecutionContext) Schema() graphql.Schema {
	return c.operation.Schema()
}

// RootValue returns c.rootValue.
func (c *ExecutionContext) RootValue() interface{} {
	return c.rootValue
}

// AppContext returns c.appContext.
func (c *ExecutionContext) AppContext() interface{} {
	return c.appContext
}

// VariableValues returns c.variableValues.
func (c *ExecutionContext) VariableValues() graphql.VariableValues {
	return c.variableValues
}

// DataLoaderManager returns c.dataLoaderManager.
func (c *ExecutionContext) DataLoaderManager() graphql.DataLoaderManager {
	return c.dataLoaderManager
}

// Dispatcher returns the Dispatcher that owns every Task and patch worker scheduled while
// evaluating this execution. It is set once, by Execute, right after newExecutionContext returns.
func (c *ExecutionContext) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// DeferEnabled reports whether the schema's directive registry includes @defer.
func (c *ExecutionContext) DeferEnabled() bool {
	return c.deferEnabled
}

// StreamEnabled reports whether the schema's directive registry includes @stream.
func (c *ExecutionContext) StreamEnabled() bool {
	return c.streamEnabled
}
