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
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/botobag/artemis/concurrent/future"
	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
	values "github.com/botobag/artemis/graphql/internal/value"
	"github.com/botobag/artemis/iterator"
)

// allocateObjectChildResults wires result up as an object value comprised of childNodes and
// allocates their (still-unresolved) field ResultNode's, marking the ones backed by a NonNull field
// so completion can propagate null up to the nearest nullable ancestor.
func allocateObjectChildResults(result *ResultNode, childNodes []*ExecutionNode) []ResultNode {
	nodeResults := make([]ResultNode, len(childNodes))
	result.Kind = ResultKindObject
	result.Value = &ObjectResultValue{
		ExecutionNodes: childNodes,
		FieldValues:    nodeResults,
	}

	for i, childNode := range childNodes {
		nodeResult := &nodeResults[i]
		nodeResult.Parent = result
		if graphql.IsNonNullType(childNode.Field.Type()) {
			nodeResult.SetIsNonNull()
		}
	}

	return nodeResults
}

// dispatchTasksForObject sets up result as an object value comprised of childNodes, each collected
// against objectType, and dispatches one ExecuteNodeTask per child field. path is the response path
// already reaching result; each child task's own path extends it with the child's response key.
// rootWG, when non-nil, is shared by every task spawned anywhere in the subtree rooted at this
// object so that a caller serializing top-level mutation fields can wait for one field's entire
// subtree (including asynchronous work) to settle before starting the next (see
// dispatchTasksForObjectSerially).
func dispatchTasksForObject(
	ctx *ExecutionContext,
	executor executor,
	result *ResultNode,
	path *Path,
	childNodes []*ExecutionNode,
	objectType graphql.Object,
	source interface{},
	rootWG *sync.WaitGroup) {

	nodeResults := allocateObjectChildResults(result, childNodes)

	for i, childNode := range childNodes {
		childPath := path.WithFieldName(childNode.ResponseKey())
		task := newExecuteNodeTask(executor, ctx, childNode, &nodeResults[i], childPath, objectType, source, rootWG)
		if rootWG != nil {
			rootWG.Add(1)
		}
		executor.Dispatch(task)
	}
}

// dispatchTasksForObjectSerially is dispatchTasksForObject's mutation variant: per the spec's
// requirement that top-level mutation fields execute one at a time, in document order, it dispatches
// one child field task and blocks (via a dedicated WaitGroup covering the task's entire subtree,
// including deferred async work) until that field fully settles before dispatching the next.
func dispatchTasksForObjectSerially(
	ctx *ExecutionContext,
	executor executor,
	result *ResultNode,
	path *Path,
	childNodes []*ExecutionNode,
	objectType graphql.Object,
	source interface{}) {

	nodeResults := allocateObjectChildResults(result, childNodes)

	for i, childNode := range childNodes {
		var wg sync.WaitGroup
		wg.Add(1)

		childPath := path.WithFieldName(childNode.ResponseKey())
		task := newExecuteNodeTask(executor, ctx, childNode, &nodeResults[i], childPath, objectType, source, &wg)
		executor.Dispatch(task)

		wg.Wait()
	}
}

//===----------------------------------------------------------------------------------------====//
// ExecuteNodeTask
//===----------------------------------------------------------------------------------------====//

var executeNodeTaskFreeList = sync.Pool{
	New: func() interface{} {
		return &ExecuteNodeTask{}
	},
}

func newExecuteNodeTask(
	executor executor,
	ctx *ExecutionContext,
	node *ExecutionNode,
	result *ResultNode,
	path *Path,
	parentType graphql.Object,
	source interface{},
	rootWG *sync.WaitGroup,
) *ExecuteNodeTask {

	task := executeNodeTaskFreeList.Get().(*ExecuteNodeTask)
	task.executor = executor
	task.ctx = ctx
	task.node = node
	task.result = result
	task.path = path
	task.parentType = parentType
	task.source = source
	task.rootWG = rootWG
	task.refCount = 1

	return task
}

// ExecuteNodeTask executes a field (represented by an ExecutionNode). It is scheduled and run by an
// executor (the Dispatcher).
//
// Allocation is pooled via executeNodeTaskFreeList, tracked with a reference count: an
// AsyncValueTask waiting on an eventual field value holds a reference, so the task is not recycled
// while that wait is outstanding.
type ExecuteNodeTask struct {
	executor executor
	ctx      *ExecutionContext
	node     *ExecutionNode

	// result is where the field's completed value is written.
	result *ResultNode

	// path is this field's response path, threaded explicitly rather than derived from result (see
	// Path in path.go).
	path *Path

	// parentType is the runtime Object type whose selection set node belongs to; exposed via
	// ResolveInfo.Object().
	parentType graphql.Object

	// source is the value passed to the field resolver (the parent's completed value).
	source interface{}

	// rootWG, when non-nil, is shared by every task in this field's subtree; Add(1) at dispatch,
	// Done() at conclusive settlement, so a caller serializing mutation root fields can wait for one
	// field's subtree (including async work) to finish before dispatching the next.
	rootWG *sync.WaitGroup

	refCount int64
}

func (task *ExecuteNodeTask) retain() *ExecuteNodeTask {
	atomic.AddInt64(&task.refCount, 1)
	return task
}

func (task *ExecuteNodeTask) release() {
	if atomic.AddInt64(&task.refCount, -1) == 0 {
		executeNodeTaskFreeList.Put(task)
	}
}

// run implements Task. It resolves the field's value and completes it against the field's
// declared type, writing into task.result; errors are appended to task.executor.
func (task *ExecuteNodeTask) run() {
	var (
		ctx    = task.ctx
		node   = task.node
		result = task.result
		field  = node.Field
	)

	resolver := field.Resolver()
	if resolver == nil {
		resolver = ctx.Operation().DefaultFieldResolver()
	}

	value, err := resolver.Resolve(ctx.Context(), task.source, task.newResolveInfoFor(result, task.path))
	if err != nil {
		task.handleNodeError(err, result, task.path)
		task.doneRootWG()
		task.release()
		return
	}

	task.completeValue(field.Type(), result, task.path, value)
	task.doneRootWG()
	task.release()
}

// doneRootWG signals task.rootWG, if any, that this dispatch has concluded. It is paired 1:1 with
// the rootWG.Add(1) performed wherever this task was dispatched (dispatchTasksForObject,
// dispatchTasksForObjectSerially, or completeDetachedElement). The Add(1) in completeValuePrologue
// is paired with AsyncValueTask's own done instead.
func (task *ExecuteNodeTask) doneRootWG() {
	if task.rootWG != nil {
		task.rootWG.Done()
	}
}

// handleNodeError converts err into a located *graphql.Error anchored at path and the field's AST
// nodes, nils out result, and records it with the executor.
func (task *ExecuteNodeTask) handleNodeError(err error, result *ResultNode, path *Path) {
	node := task.node

	locations := make([]graphql.ErrorLocation, len(node.Definitions))
	for i := range node.Definitions {
		locations[i] = graphql.ErrorLocationOfASTNode(node.Definitions[i])
	}

	responsePath := path.ResponsePath()

	e, ok := err.(*graphql.Error)
	if !ok {
		e = graphql.NewError(err.Error(), locations, responsePath).(*graphql.Error)
	} else {
		e.Locations = locations
		e.Path = responsePath
	}

	result.Kind = ResultKindNil
	result.Value = nil

	task.executor.AppendError(e, result)
}

// completeValue implements value completion: it ensures the value resolved from a field resolver
// (or a list element, or a streamed element) adheres to its declared return type.
//
// Reference: https://facebook.github.io/graphql/June2018/#sec-Value-Completion
func (task *ExecuteNodeTask) completeValue(
	returnType graphql.Type,
	result *ResultNode,
	path *Path,
	value interface{}) {

	if wrappingType, isWrappingType := returnType.(graphql.WrappingType); isWrappingType {
		task.completeWrappingValue(wrappingType, result, path, value)
	} else {
		task.completeNonWrappingValue(returnType, result, path, value)
	}
}

// completeValuePrologue handles the two cross-cutting cases common to every return type: a resolver
// signaling failure by returning a *graphql.Error directly, and a resolver returning a Future whose
// value is not available yet.
func (task *ExecuteNodeTask) completeValuePrologue(
	returnType graphql.Type,
	result *ResultNode,
	path *Path,
	value interface{}) (completed bool) {

	if err, ok := value.(*graphql.Error); ok && err != nil {
		task.handleNodeError(err, result, path)
		return true
	}

	if value, ok := value.(future.Future); ok {
		if task.rootWG != nil {
			task.rootWG.Add(1)
		}
		task.executor.Dispatch(&AsyncValueTask{
			nodeTask:        task.retain(),
			dataLoaderCycle: task.executor.DataLoaderCycle(),
			returnType:      returnType,
			result:          result,
			path:            path,
			value:           value,
			rootWG:          task.rootWG,
		})
		return true
	}

	return false
}

// completeWrappingValue completes a value for a NonNull or List type (and arbitrary nestings of the
// two), following the non-null propagation rule: an error or null value inside a NonNull region
// nils out the nearest nullable ancestor instead of just the immediate result.
func (task *ExecuteNodeTask) completeWrappingValue(
	returnType graphql.WrappingType,
	result *ResultNode,
	path *Path,
	value interface{}) {

	if task.completeValuePrologue(returnType, result, path, value) {
		return
	}

	if streamArgs, isStream, err := task.streamArgumentsFor(returnType); err != nil {
		task.handleNodeError(err, result, path)
		return
	} else if isStream && streamArgs.If {
		if handled := task.tryStreamListValue(returnType, result, path, value, streamArgs); handled {
			return
		}
	}

	type valueNode struct {
		returnType graphql.WrappingType
		result     *ResultNode
		path       *Path
		value      interface{}
	}
	queue := []valueNode{{returnType, result, path, value}}

	for len(queue) > 0 {
		var node *valueNode
		node, queue = &queue[0], queue[1:]

		var (
			returnType graphql.Type = node.returnType
			result                  = node.result
			path                    = node.path
			value                   = node.value
		)

		if result.Parent.IsNil() {
			continue
		}

		nonNullType, isNonNullType := returnType.(graphql.NonNull)
		if isNonNullType {
			returnType = nonNullType.InnerType()
		}

		if values.IsNullish(value) {
			if isNonNullType {
				task.handleNodeError(
					graphql.NewError(fmt.Sprintf("Cannot return null for non-nullable field %s.%s.",
						task.parentType.Name(), task.node.Field.Name())),
					result, path)
			} else {
				result.Kind = ResultKindNil
				result.Value = nil
			}
			continue
		}

		listType, isListType := returnType.(graphql.List)
		if !isListType {
			task.completeNonWrappingValue(returnType, result, path, value)
			continue
		}

		elementType := listType.ElementType()
		elementWrappingType, isWrappingElementType := elementType.(graphql.WrappingType)

		var (
			iterable    Iterable
			v           reflect.Value
			resultNodes ResultNodeList
			numElements int
		)

		if iterableValue, ok := value.(Iterable); ok {
			iterable = iterableValue
			if sizedIterable, ok := iterable.(SizedIterable); ok {
				resultNodes = NewFixedSizeResultNodeList(sizedIterable.Size())
			} else {
				resultNodes = NewResultNodeList()
			}
		} else {
			v = reflect.ValueOf(value)
			if v.Kind() == reflect.Ptr {
				v = v.Elem()
			}

			if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
				task.handleNodeError(
					graphql.NewError(
						fmt.Sprintf("Expected Iterable, but did not find one for field %s.%s.",
							task.parentType.Name(), task.node.Field.Name())),
					result, path)
				continue
			}

			numElements = v.Len()
			resultNodes = NewFixedSizeResultNodeList(numElements)
		}

		result.Kind = ResultKindList
		result.Value = resultNodes

		if iterable != nil {
			iter := iterable.Iterator()
			index := 0
			for {
				value, err := iter.Next()
				if err == iterator.Done {
					break
				} else if err != nil {
					task.handleNodeError(
						graphql.NewError(
							fmt.Sprintf("Error occurred while enumerating values in the list field %s.%s.",
								task.parentType.Name(), task.node.Field.Name()), err),
						result, path)
					break
				}

				elementPath := path.WithListIndex(index)
				index++
				resultNode := resultNodes.EmplaceBack(result, !isNonNullType)

				if isWrappingElementType {
					queue = append(queue, valueNode{elementWrappingType, resultNode, elementPath, value})
				} else if !task.completeNonWrappingValue(elementType, resultNode, elementPath, value) {
					if result.IsNil() {
						break
					}
				}
			}
		} else {
			if isWrappingElementType {
				for i := 0; i < numElements; i++ {
					resultNode := resultNodes.EmplaceBack(result, !isNonNullType)
					queue = append(queue, valueNode{
						returnType: elementWrappingType,
						result:     resultNode,
						path:       path.WithListIndex(i),
						value:      v.Index(i).Interface(),
					})
				}
			} else {
				for i := 0; i < numElements; i++ {
					resultNode := resultNodes.EmplaceBack(result, !isNonNullType)
					elementValue := v.Index(i).Interface()
					if !task.completeNonWrappingValue(elementType, resultNode, path.WithListIndex(i), elementValue) {
						if result.IsNil() {
							break
						}
					}
				}
			}
		}
	}
}

func (task *ExecuteNodeTask) completeNonWrappingValue(
	returnType graphql.Type,
	result *ResultNode,
	path *Path,
	value interface{}) (ok bool) {

	if task.completeValuePrologue(returnType, result, path, value) {
		return true
	}

	if values.IsNullish(value) {
		result.Value = nil
		result.Kind = ResultKindNil
		return true
	}

	switch returnType := returnType.(type) {
	case graphql.LeafType:
		return task.completeLeafValue(returnType, result, value)

	case graphql.Object:
		return task.completeObjectValue(returnType, result, path, value)

	case graphql.AbstractType:
		return task.completeAbstractValue(returnType, result, path, value)
	}

	task.handleNodeError(
		graphql.NewError(fmt.Sprintf(`Cannot complete value of unexpected type "%v".`, returnType)),
		result, path)

	return false
}

func (task *ExecuteNodeTask) completeLeafValue(
	returnType graphql.LeafType,
	result *ResultNode,
	value interface{}) (ok bool) {

	coercedValue, err := returnType.CoerceResultValue(value)
	if err != nil {
		if e, ok := err.(*graphql.Error); !ok || e.Kind != graphql.ErrKindCoercion {
			err = graphql.NewDefaultResultCoercionError(returnType.Name(), value, err)
		}
		task.handleNodeError(err, result, task.path)
		return false
	}

	result.Kind = ResultKindLeaf
	result.Value = coercedValue
	return true
}

func (task *ExecuteNodeTask) completeObjectValue(
	returnType graphql.Object,
	result *ResultNode,
	path *Path,
	value interface{}) (ok bool) {

	childNodes, deferred, err := collectChildNodes(task.ctx, task.node, returnType)
	if err != nil {
		task.handleNodeError(err, result, path)
		return false
	}

	dispatchTasksForObject(task.ctx, task.executor, result, path, childNodes, returnType, value, task.rootWG)

	if len(deferred) > 0 {
		scheduleDeferredFragments(task.ctx, task.executor, result, path, returnType, value, deferred)
	}

	return true
}

func (task *ExecuteNodeTask) completeAbstractValue(
	returnType graphql.AbstractType,
	result *ResultNode,
	path *Path,
	value interface{}) (ok bool) {

	resolver := returnType.TypeResolver()
	if resolver == nil {
		task.handleNodeError(
			graphql.NewError(
				fmt.Sprintf("Abstract type %s must provide a resolver to resolve to an Object type at "+
					"runtime for field %s.%s with value %s.",
					returnType, task.parentType.Name(), task.node.Field.Name(),
					graphql.Inspect(value))), result, path)
		return false
	}

	runtimeType, err := resolver.Resolve(task.ctx.Context(), value, task.newResolveInfoFor(result, path))
	if err != nil {
		task.handleNodeError(err, result, path)
		return false
	}

	if runtimeType == nil {
		task.handleNodeError(
			graphql.NewError(
				fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime for field %s.%s "+
					"with value %s, received nil.",
					returnType, task.parentType.Name(), task.node.Field.Name(),
					graphql.Inspect(value))), result, path)
		return false
	}

	if !task.ctx.Schema().PossibleTypes(returnType).Contains(runtimeType) {
		task.handleNodeError(
			graphql.NewError(
				fmt.Sprintf(`Runtime Object type "%s" is not a possible type for "%s".`,
					runtimeType, returnType)), result, path)
		return false
	}

	return task.completeObjectValue(runtimeType, result, path, value)
}

// streamArgumentsFor reads @stream from the field's directives if returnType (after stripping one
// leading NonNull) is a List type; @stream is only meaningful on list-typed fields.
func (task *ExecuteNodeTask) streamArgumentsFor(returnType graphql.Type) (streamArguments, bool, error) {
	if nonNull, ok := returnType.(graphql.NonNull); ok {
		returnType = nonNull.InnerType()
	}
	if _, ok := returnType.(graphql.List); !ok {
		return streamArguments{}, false, nil
	}
	return readStreamArguments(task.ctx, task.node.Definitions[0].Directives)
}

// newResolveInfoFor creates a graphql.ResolveInfo for completing result at path with current task
// context. When result/path are task's own, task itself satisfies graphql.ResolveInfo directly
// (avoiding an allocation); otherwise (when resolving the runtime type of an abstract-typed list
// element or streamed element) a detached resolveInfo value is built around the element's
// result/path.
func (task *ExecuteNodeTask) newResolveInfoFor(result *ResultNode, path *Path) graphql.ResolveInfo {
	if result == task.result {
		return task
	}

	return &resolveInfo{
		ctx:        task.ctx,
		node:       task.node,
		result:     result,
		path:       path,
		parentType: task.parentType,
	}
}

//===----------------------------------------------------------------------------------------====//
// graphql.ResolveInfo implementation
//===----------------------------------------------------------------------------------------====//

// resolveInfo implements graphql.ResolveInfo for a result/path pair that is not the ExecuteNodeTask
// running it. It is passed to the type resolver of an abstract-typed list element or streamed
// element, since the owning task's own path/result refer to the list field itself.
type resolveInfo struct {
	ctx        *ExecutionContext
	node       *ExecutionNode
	result     *ResultNode
	path       *Path
	parentType graphql.Object
}

var _ graphql.ResolveInfo = (*resolveInfo)(nil)

func (info *resolveInfo) Schema() graphql.Schema                 { return info.ctx.Schema() }
func (info *resolveInfo) Document() ast.Document                 { return info.ctx.Operation().Document() }
func (info *resolveInfo) Operation() *ast.OperationDefinition    { return info.ctx.Operation().Definition() }
func (info *resolveInfo) DataLoaderManager() graphql.DataLoaderManager {
	return info.ctx.DataLoaderManager()
}
func (info *resolveInfo) RootValue() interface{}    { return info.ctx.RootValue() }
func (info *resolveInfo) AppContext() interface{}   { return info.ctx.AppContext() }
func (info *resolveInfo) VariableValues() graphql.VariableValues { return info.ctx.VariableValues() }
func (info *resolveInfo) ParentFieldSelection() graphql.FieldSelectionInfo {
	return fieldSelectionInfo{info.node.Parent}
}
func (info *resolveInfo) Object() graphql.Object          { return info.parentType }
func (info *resolveInfo) FieldDefinitions() []*ast.Field  { return info.node.Definitions }
func (info *resolveInfo) Field() graphql.Field            { return info.node.Field }
func (info *resolveInfo) Path() graphql.ResponsePath      { return info.path.ResponsePath() }
func (info *resolveInfo) Args() graphql.ArgumentValues    { return info.node.Args }

// fieldSelectionInfo adapts an ExecutionNode to graphql.FieldSelectionInfo.
type fieldSelectionInfo struct {
	node *ExecutionNode
}

var _ graphql.FieldSelectionInfo = fieldSelectionInfo{}

func (info fieldSelectionInfo) Parent() graphql.FieldSelectionInfo {
	return fieldSelectionInfo{info.node.Parent}
}
func (info fieldSelectionInfo) FieldDefinitions() []*ast.Field { return info.node.Definitions }
func (info fieldSelectionInfo) Field() graphql.Field           { return info.node.Field }
func (info fieldSelectionInfo) Args() graphql.ArgumentValues   { return info.node.Args }

// The following implement graphql.ResolveInfo directly on ExecuteNodeTask as a memory optimization:
// when completing task.result itself (the common case), newResolveInfoFor returns task rather than
// allocating a resolveInfo value.

func (task *ExecuteNodeTask) Schema() graphql.Schema              { return task.ctx.Schema() }
func (task *ExecuteNodeTask) Document() ast.Document               { return task.ctx.Operation().Document() }
func (task *ExecuteNodeTask) Operation() *ast.OperationDefinition  { return task.ctx.Operation().Definition() }
func (task *ExecuteNodeTask) DataLoaderManager() graphql.DataLoaderManager {
	return task.ctx.DataLoaderManager()
}
func (task *ExecuteNodeTask) RootValue() interface{}  { return task.ctx.RootValue() }
func (task *ExecuteNodeTask) AppContext() interface{} { return task.ctx.AppContext() }
func (task *ExecuteNodeTask) VariableValues() graphql.VariableValues {
	return task.ctx.VariableValues()
}
func (task *ExecuteNodeTask) ParentFieldSelection() graphql.FieldSelectionInfo {
	return fieldSelectionInfo{task.node.Parent}
}
func (task *ExecuteNodeTask) Object() graphql.Object         { return task.parentType }
func (task *ExecuteNodeTask) FieldDefinitions() []*ast.Field { return task.node.Definitions }
func (task *ExecuteNodeTask) Field() graphql.Field           { return task.node.Field }
func (task *ExecuteNodeTask) Path() graphql.ResponsePath     { return task.path.ResponsePath() }
func (task *ExecuteNodeTask) Args() graphql.ArgumentValues   { return task.node.Args }

var _ graphql.ResolveInfo = (*ExecuteNodeTask)(nil)

//===----------------------------------------------------------------------------------------====//
// AsyncValueTask
//===----------------------------------------------------------------------------------------====//

// AsyncValueTask polls a Future to obtain a value from an asynchronous computation, then uses it to
// complete the field that was waiting on it (by calling completeValue).
type AsyncValueTask struct {
	nodeTask *ExecuteNodeTask

	// dataLoaderCycle is the dispatch cycle this task was waiting on when it started (see
	// tryDispatchDataLoaders).
	dataLoaderCycle DataLoaderCycle

	value future.Future

	returnType graphql.Type
	result     *ResultNode
	path       *Path

	// rootWG mirrors the nodeTask's rootWG at the time this AsyncValueTask was dispatched; Done() is
	// called here (not on nodeTask) once this poll conclusively settles, pairing with the Add(1) done
	// in completeValuePrologue.
	rootWG *sync.WaitGroup
}

var _ Task = (*AsyncValueTask)(nil)

// run implements Task.
func (task *AsyncValueTask) run() {
	value, err := task.value.Poll(future.WakerFunc(task.wake))
	if err != nil {
		task.nodeTask.handleNodeError(err, task.result, task.path)
		task.done()
	} else if value != future.PollResultPending {
		task.nodeTask.completeValue(task.returnType, task.result, task.path, value)
		task.done()
	} else {
		task.nodeTask.executor.Yield(task)
		tryDispatchDataLoaders(task.nodeTask.ctx, task.nodeTask.executor, task.dataLoaderCycle)
	}
}

// done releases the retained nodeTask reference and signals rootWG; called from both of run()'s
// conclusive branches, never from the still-pending branch.
func (task *AsyncValueTask) done() {
	if task.rootWG != nil {
		task.rootWG.Done()
	}
	task.nodeTask.release()
}

func (task *AsyncValueTask) wake() error {
	task.nodeTask.executor.Resume(task)
	return nil
}

// tryDispatchDataLoaders dispatches pending DataLoader batches if they haven't been dispatched yet
// for taskCycle.
func tryDispatchDataLoaders(
	ctx *ExecutionContext,
	executor executor,
	taskCycle DataLoaderCycle) (newCycle DataLoaderCycle) {

	dataLoaderManager := ctx.DataLoaderManager()
	if dataLoaderManager == nil || !dataLoaderManager.HasPendingDataLoaders() {
		return
	}

	for {
		curCycle := executor.DataLoaderCycle()

		if taskCycle == curCycle {
			if executor.IncDataLoaderCycle(taskCycle + 1) {
				dispatchDataLoaders(ctx.Context(), dataLoaderManager)
				return taskCycle + 1
			}
		} else {
			return curCycle
		}
	}
}

func dispatchDataLoaders(ctx context.Context, manager graphql.DataLoaderManager) {
	for {
		pendingLoaders := manager.GetAndResetPendingDataLoaders()
		if len(pendingLoaders) == 0 {
			break
		}

		for loader := range pendingLoaders {
			loader.Dispatch(ctx)
		}
	}
}
