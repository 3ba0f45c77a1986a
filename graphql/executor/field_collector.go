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

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
	"github.com/botobag/artemis/graphql/internal/value"
)

// DeferredFragment is a selection set that was requested with @defer: the collector stops
// recursing into it and hands the caller enough information to schedule it as a separate unit of
// work once the enclosing object resolves (see StreamDriver/Dispatcher).
type DeferredFragment struct {
	Label    string
	HasLabel bool

	// ParentType is the runtime Object type in whose selection set the fragment was found.
	ParentType graphql.Object

	// Selections are the fragment's own selections, not yet merged into sibling groups: deferred
	// work re-collects them against ParentType once it is scheduled.
	Selections ast.SelectionSet
}

// collectFieldsResult is what collectFields produces for one selection set evaluated against one
// runtime Object type: the fields to execute now, plus any @defer'd fragments found directly in
// the set (deferral does not recurse: fields nested under a deferred fragment are collected again,
// from scratch, when that fragment's own unit of work runs).
type collectFieldsResult struct {
	// order preserves first-occurrence order of response keys, per spec CollectFields().
	order []string
	// fields maps response key to every ast.Field node requesting it (for validated, mergeable
	// multi-occurrence fields).
	fields map[string][]*ast.Field

	deferred []DeferredFragment
}

// collectFields gathers fields in selectionSet (and, recursively, in fragments it spreads) into
// collectFieldsResult, honoring @skip/@include and partitioning out @defer'd fragments.
//
// Reference: https://graphql.github.io/graphql-spec/June2018/#CollectFields()
func collectFields(
	ctx *ExecutionContext,
	runtimeType graphql.Object,
	selectionSet ast.SelectionSet,
	visitedFragments map[string]bool,
	result *collectFieldsResult) error {

	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			included, err := shouldIncludeNode(ctx, selection.Directives)
			if err != nil {
				return err
			}
			if !included {
				continue
			}

			responseKey := selection.ResponseKey()
			if _, seen := result.fields[responseKey]; !seen {
				result.order = append(result.order, responseKey)
			}
			result.fields[responseKey] = append(result.fields[responseKey], selection)

		case *ast.InlineFragment:
			included, err := shouldIncludeNode(ctx, selection.Directives)
			if err != nil {
				return err
			}
			if !included {
				continue
			}

			if selection.HasTypeCondition() && !doesTypeConditionSatisfy(ctx, selection.TypeCondition, runtimeType) {
				continue
			}

			deferArgs, deferred, err := readDeferArguments(ctx, selection.Directives)
			if err != nil {
				return err
			}
			if deferred && deferArgs.If {
				result.deferred = append(result.deferred, DeferredFragment{
					Label:      deferArgs.Label,
					HasLabel:   deferArgs.HasLabel,
					ParentType: runtimeType,
					Selections: selection.SelectionSet,
				})
				continue
			}

			if err := collectFields(ctx, runtimeType, selection.SelectionSet, visitedFragments, result); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			included, err := shouldIncludeNode(ctx, selection.Directives)
			if err != nil {
				return err
			}
			if !included {
				continue
			}

			fragmentName := selection.Name.Value()

			deferArgs, deferred, err := readDeferArguments(ctx, selection.Directives)
			if err != nil {
				return err
			}
			if deferred && deferArgs.If {
				fragment := ctx.Operation().FragmentDef(fragmentName)
				if fragment == nil {
					continue
				}
				if !doesTypeConditionSatisfy(ctx, fragment.TypeCondition, runtimeType) {
					continue
				}
				result.deferred = append(result.deferred, DeferredFragment{
					Label:      deferArgs.Label,
					HasLabel:   deferArgs.HasLabel,
					ParentType: runtimeType,
					Selections: fragment.SelectionSet,
				})
				continue
			}

			if visitedFragments[fragmentName] {
				continue
			}
			visitedFragments[fragmentName] = true

			fragment := ctx.Operation().FragmentDef(fragmentName)
			if fragment == nil {
				continue
			}

			if !doesTypeConditionSatisfy(ctx, fragment.TypeCondition, runtimeType) {
				continue
			}

			if err := collectFields(ctx, runtimeType, fragment.SelectionSet, visitedFragments, result); err != nil {
				return err
			}
		}
	}

	return nil
}

// doesTypeConditionSatisfy reports whether typeCondition (from a fragment) applies to runtimeType.
func doesTypeConditionSatisfy(ctx *ExecutionContext, typeCondition ast.NamedType, runtimeType graphql.Object) bool {
	conditionType := ctx.Schema().TypeFromAST(typeCondition)
	if conditionType == nil {
		return false
	}
	if conditionType == graphql.Type(runtimeType) {
		return true
	}
	if abstractType, ok := conditionType.(graphql.AbstractType); ok {
		return ctx.Schema().PossibleTypes(abstractType).Contains(runtimeType)
	}
	return false
}

// findFieldDef resolves the schema Field for one ast.Field selection against parentType, including
// the meta-fields (__schema, __type, __typename) available per spec.
func findFieldDef(ctx *ExecutionContext, parentType graphql.Object, fieldNode *ast.Field) (graphql.Field, error) {
	fieldName := fieldNode.Name.Value()

	switch fieldName {
	case typenameMetaFieldName:
		return typenameMetaField{}, nil

	case schemaMetaFieldName:
		if parentType == ctx.Schema().Query() {
			return schemaMetaField{}, nil
		}

	case typeMetaFieldName:
		if parentType == ctx.Schema().Query() {
			return typeMetaField{}, nil
		}
	}

	field := parentType.Fields().Lookup(fieldName)
	if field == nil {
		return nil, fmt.Errorf("Cannot query field %q on type %q.", fieldName, parentType.Name())
	}
	return field, nil
}

// collectChildNodes resolves the child ExecutionNodes and @defer'd fragments for node's selection
// set(s) evaluated against runtimeType, caching the result on node so that revisiting the same node
// with the same runtime type (a common case when completing a List of Interface/Union values) does
// not repeat field collection.
func collectChildNodes(
	ctx *ExecutionContext,
	node *ExecutionNode,
	runtimeType graphql.Object) ([]*ExecutionNode, []DeferredFragment, error) {

	if node.Children == nil {
		node.Children = map[graphql.Object][]*ExecutionNode{}
		node.deferred = map[graphql.Object][]DeferredFragment{}
	} else if childNodes, ok := node.Children[runtimeType]; ok {
		return childNodes, node.deferred[runtimeType], nil
	}

	result := collectFieldsResult{
		fields: map[string][]*ast.Field{},
	}
	visitedFragments := map[string]bool{}

	if node.IsRoot() {
		selectionSet := ctx.Operation().Definition().SelectionSet
		if err := collectFields(ctx, runtimeType, selectionSet, visitedFragments, &result); err != nil {
			return nil, nil, err
		}
	} else {
		// A field requested multiple times in the document (coalesced onto one node by the validator)
		// contributes its own selection set; all of them merge into the same response-key grouping.
		for _, definition := range node.Definitions {
			if err := collectFields(ctx, runtimeType, definition.SelectionSet, visitedFragments, &result); err != nil {
				return nil, nil, err
			}
		}
	}

	nodes := make([]*ExecutionNode, 0, len(result.order))
	for _, responseKey := range result.order {
		defs := result.fields[responseKey]

		field, err := findFieldDef(ctx, runtimeType, defs[0])
		if err != nil {
			return nil, nil, err
		}

		args, err := value.ArgumentValues(field, defs[0], ctx.VariableValues())
		if err != nil {
			return nil, nil, err
		}

		nodes = append(nodes, &ExecutionNode{
			Parent:      node,
			Definitions: defs,
			Field:       field,
			Args:        args,
		})
	}

	node.Children[runtimeType] = nodes
	node.deferred[runtimeType] = result.deferred

	return nodes, result.deferred, nil
}
