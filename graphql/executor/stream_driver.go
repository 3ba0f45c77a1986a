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
	"fmt"
	"reflect"
	"sync"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
	values "github.com/botobag/artemis/graphql/internal/value"
	"github.com/botobag/artemis/iterator"
)

// patchExecutor adapts a Dispatcher for running the field tasks that build one deferred fragment's
// or one streamed list element's result: Dispatch/Yield/Resume/DataLoaderCycle delegate straight to
// the Dispatcher (same runner, same DataLoader cycle), but AppendError routes to the patch's own
// errs rather than the initial result's, so a patch's errors land next to its own data in the wire
// format instead of the initial response's "errors" array.
type patchExecutor struct {
	dispatcher *Dispatcher

	mutex sync.Mutex
	errs  *graphql.Errors
}

var _ executor = (*patchExecutor)(nil)

func (e *patchExecutor) Dispatch(task Task) { e.dispatcher.Dispatch(task) }
func (e *patchExecutor) Yield(task Task)    { e.dispatcher.Yield(task) }
func (e *patchExecutor) Resume(task Task)   { e.dispatcher.Resume(task) }

func (e *patchExecutor) DataLoaderCycle() DataLoaderCycle {
	return e.dispatcher.DataLoaderCycle()
}

func (e *patchExecutor) IncDataLoaderCycle(next DataLoaderCycle) bool {
	return e.dispatcher.IncDataLoaderCycle(next)
}

func (e *patchExecutor) AppendError(err *graphql.Error, result *ResultNode) {
	e.mutex.Lock()
	e.errs.Append(err)
	e.mutex.Unlock()
}

//===----------------------------------------------------------------------------------------====//
// @defer
//===----------------------------------------------------------------------------------------====//

// scheduleDeferredFragments registers one patch worker per fragment in deferred, each resolving its
// own selections against parentType/source and completing independently of the rest of the
// enclosing object's fields.
func scheduleDeferredFragments(
	ctx *ExecutionContext,
	exec executor,
	result *ResultNode,
	path *Path,
	parentType graphql.Object,
	source interface{},
	deferred []DeferredFragment) {

	dispatcher := ctx.Dispatcher()

	for _, fragment := range deferred {
		fragment := fragment
		dispatcher.schedule(fragment.Label, fragment.HasLabel, path, func(errs *graphql.Errors) *ResultNode {
			return executeDeferredFragment(ctx, dispatcher, errs, path, parentType, source, fragment)
		})
	}
}

// executeDeferredFragment runs on the fragment's own patch worker goroutine: it collects the
// fragment's selections against parentType (fresh, not cached on any ExecutionNode since a deferred
// fragment's own unit of work is never revisited) and blocks until every field it dispatches, and
// anything those fields spawn asynchronously, has settled.
func executeDeferredFragment(
	ctx *ExecutionContext,
	dispatcher *Dispatcher,
	errs *graphql.Errors,
	path *Path,
	parentType graphql.Object,
	source interface{},
	fragment DeferredFragment) *ResultNode {

	childNodes, nestedDeferred, err := collectFragmentChildNodes(ctx, fragment)
	if err != nil {
		errs.Append(graphql.NewError(err.Error(), []graphql.ErrorLocation{}, path.ResponsePath()))
		return nil
	}

	patchExec := &patchExecutor{dispatcher: dispatcher, errs: errs}

	result := &ResultNode{}
	var wg sync.WaitGroup
	dispatchTasksForObject(ctx, patchExec, result, path, childNodes, parentType, source, &wg)
	wg.Wait()

	if len(nestedDeferred) > 0 {
		scheduleDeferredFragments(ctx, patchExec, result, path, parentType, source, nestedDeferred)
	}

	return result
}

// collectFragmentChildNodes collects fields for a DeferredFragment's own selections. Unlike
// collectChildNodes, it does not cache its result on an ExecutionNode: a deferred fragment is
// scheduled once and never revisited the way a List field's selection set is.
func collectFragmentChildNodes(ctx *ExecutionContext, fragment DeferredFragment) ([]*ExecutionNode, []DeferredFragment, error) {
	result := collectFieldsResult{
		fields: map[string][]*ast.Field{},
	}
	if err := collectFields(ctx, fragment.ParentType, fragment.Selections, map[string]bool{}, &result); err != nil {
		return nil, nil, err
	}

	nodes := make([]*ExecutionNode, 0, len(result.order))
	for _, responseKey := range result.order {
		defs := result.fields[responseKey]

		field, err := findFieldDef(ctx, fragment.ParentType, defs[0])
		if err != nil {
			return nil, nil, err
		}

		args, err := values.ArgumentValues(field, defs[0], ctx.VariableValues())
		if err != nil {
			return nil, nil, err
		}

		nodes = append(nodes, &ExecutionNode{
			Definitions: defs,
			Field:       field,
			Args:        args,
		})
	}

	return nodes, result.deferred, nil
}

//===----------------------------------------------------------------------------------------====//
// @stream
//===----------------------------------------------------------------------------------------====//

// tryStreamListValue implements @stream on a List-typed field: the first streamArgs.InitialCount
// elements complete inline, exactly like an ordinary list; the remainder complete as independent
// patches. It reports false when returnType does not resolve to a List or value is nullish, leaving
// the caller's ordinary (unstreamed) completion path to run instead.
func (task *ExecuteNodeTask) tryStreamListValue(
	returnType graphql.WrappingType,
	result *ResultNode,
	path *Path,
	value interface{},
	streamArgs streamArguments) bool {

	listType, isNonNull := unwrapListType(returnType)
	if listType == nil || values.IsNullish(value) {
		return false
	}

	elementType := listType.ElementType()
	dispatcher := task.ctx.Dispatcher()

	initialCount := streamArgs.InitialCount
	if initialCount < 0 {
		initialCount = 0
	}

	result.Kind = ResultKindList

	if iterable, ok := value.(Iterable); ok {
		var resultNodes ResultNodeList
		if sizedIterable, ok := iterable.(SizedIterable); ok {
			size := sizedIterable.Size()
			if initialCount > size {
				initialCount = size
			}
			resultNodes = NewFixedSizeResultNodeList(initialCount)
		} else {
			resultNodes = NewResultNodeList()
		}
		result.Value = resultNodes

		iter := iterable.Iterator()
		index := 0
		for ; index < initialCount; index++ {
			elementValue, err := iter.Next()
			if err == iterator.Done {
				return true
			} else if err != nil {
				task.handleNodeError(task.errorEnumeratingList(err), result, path)
				return true
			}

			elementPath := path.WithListIndex(index)
			resultNode := resultNodes.EmplaceBack(result, !isNonNull)
			task.completeNonWrappingOrWrapping(elementType, resultNode, elementPath, elementValue)
		}

		task.streamRemainingIterator(dispatcher, iter, elementType, path, index, streamArgs)
		return true
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return false
	}

	numElements := v.Len()
	if initialCount > numElements {
		initialCount = numElements
	}
	resultNodes := NewFixedSizeResultNodeList(numElements)
	result.Value = resultNodes

	for index := 0; index < initialCount; index++ {
		elementPath := path.WithListIndex(index)
		resultNode := resultNodes.EmplaceBack(result, !isNonNull)
		task.completeNonWrappingOrWrapping(elementType, resultNode, elementPath, v.Index(index).Interface())
	}

	for index := initialCount; index < numElements; index++ {
		elementPath := path.WithListIndex(index)
		elementValue := v.Index(index).Interface()
		dispatcher.schedule(streamArgs.Label, streamArgs.HasLabel, elementPath, func(errs *graphql.Errors) *ResultNode {
			patchExec := &patchExecutor{dispatcher: dispatcher, errs: errs}
			return task.completeDetachedElement(patchExec, elementType, elementPath, elementValue)
		})
	}

	return true
}

// streamRemainingIterator drains the rest of an Iterable source on a single dedicated goroutine
// (Iterator.Next is not expected to be safe for concurrent use), emitting one patch per element as
// soon as it is ready, and finishing with the mandatory closing patch that signals the end of an
// Iterable-backed stream.
func (task *ExecuteNodeTask) streamRemainingIterator(
	dispatcher *Dispatcher,
	iter Iterator,
	elementType graphql.Type,
	path *Path,
	startIndex int,
	streamArgs streamArguments) {

	// Reserve one outstanding unit for the closing patch up front so that hasScheduledWork never
	// observes "nothing outstanding" while this goroutine still has work left to do.
	dispatcher.beginOutstanding()

	go func() {
		index := startIndex
		for {
			value, err := iter.Next()
			if err == iterator.Done {
				break
			}

			elementPath := path.WithListIndex(index)
			index++

			dispatcher.beginOutstanding()

			var errs graphql.Errors
			var data *ResultNode
			if err != nil {
				errs.Append(task.errorEnumeratingList(err))
			} else {
				patchExec := &patchExecutor{dispatcher: dispatcher, errs: &errs}
				data = task.completeDetachedElement(patchExec, elementType, elementPath, value)
			}

			dispatcher.complete(patchResult{
				label:    streamArgs.Label,
				hasLabel: streamArgs.HasLabel,
				path:     elementPath,
				data:     data,
				errs:     errs,
			})

			if err != nil {
				break
			}
		}

		dispatcher.complete(patchResult{isClosing: true})
	}()
}

// completeDetachedElement completes one list element against elementType on behalf of a patch
// worker: it runs with exec as its executor (so errors and any nested dispatch land in the patch's
// own scope) and blocks until the element's entire subtree, including asynchronous work, settles.
func (task *ExecuteNodeTask) completeDetachedElement(
	exec executor,
	elementType graphql.Type,
	path *Path,
	value interface{}) *ResultNode {

	result := &ResultNode{}
	var wg sync.WaitGroup

	elementTask := &ExecuteNodeTask{
		executor:   exec,
		ctx:        task.ctx,
		node:       task.node,
		parentType: task.parentType,
		source:     task.source,
		rootWG:     &wg,
		refCount:   1,
	}

	wg.Add(1)
	elementTask.completeValue(elementType, result, path, value)
	elementTask.doneRootWG()
	wg.Wait()
	elementTask.release()

	return result
}

// completeNonWrappingOrWrapping dispatches to whichever of completeWrappingValue/
// completeNonWrappingValue fits elementType; list elements may themselves be of a wrapping type
// (a list of lists, or a NonNull-wrapped element).
func (task *ExecuteNodeTask) completeNonWrappingOrWrapping(
	elementType graphql.Type,
	result *ResultNode,
	path *Path,
	value interface{}) {

	if wrappingType, ok := elementType.(graphql.WrappingType); ok {
		task.completeWrappingValue(wrappingType, result, path, value)
	} else {
		task.completeNonWrappingValue(elementType, result, path, value)
	}
}

// unwrapListType strips one leading NonNull wrapper, if present, and reports whether what remains
// is a List type (the only type @stream is meaningful on).
func unwrapListType(returnType graphql.WrappingType) (listType graphql.List, isNonNull bool) {
	t := graphql.Type(returnType)
	if nonNull, ok := t.(graphql.NonNull); ok {
		isNonNull = true
		t = nonNull.InnerType()
	}
	listType, _ = t.(graphql.List)
	return listType, isNonNull
}

// errorEnumeratingList wraps an error surfaced from an Iterator.Next call with the field context,
// mirroring the message produced by the ordinary (unstreamed) list completion path.
func (task *ExecuteNodeTask) errorEnumeratingList(err error) error {
	return graphql.NewError(
		fmt.Sprintf("Error occurred while enumerating values in the list field %s.%s.",
			task.parentType.Name(), task.node.Field.Name()), err)
}
