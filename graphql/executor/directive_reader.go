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
	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
	values "github.com/botobag/artemis/graphql/internal/value"
)

// deferArguments is the coerced argument set of an @defer directive usage.
type deferArguments struct {
	If    bool
	Label string
	// HasLabel is true when the directive usage supplied a "label" argument explicitly.
	HasLabel bool
}

// streamArguments is the coerced argument set of an @stream directive usage.
type streamArguments struct {
	If           bool
	Label        string
	HasLabel     bool
	InitialCount int
}

// shouldIncludeNode determines if a field should be included based on the @include and @skip
// directives, where @skip has higher precedence than @include.
//
// Reference: https://facebook.github.io/graphql/June2018/#sec--include
func shouldIncludeNode(ctx *ExecutionContext, directives ast.Directives) (bool, error) {
	skip, err := values.DirectiveValues(
		graphql.SkipDirective(), directives, ctx.VariableValues())
	if err != nil {
		return false, err
	}
	if shouldSkip := skip.Get("if"); shouldSkip != nil && shouldSkip.(bool) {
		return false, nil
	}

	include, err := values.DirectiveValues(
		graphql.IncludeDirective(), directives, ctx.VariableValues())
	if err != nil {
		return false, err
	}
	if shouldInclude := include.Get("if"); shouldInclude != nil && !shouldInclude.(bool) {
		return false, nil
	}

	return true, nil
}

// readDeferArguments reads the @defer directive, if present, from directives. ok is false when
// there is no @defer usage.
func readDeferArguments(ctx *ExecutionContext, directives ast.Directives) (args deferArguments, ok bool, err error) {
	if !ctx.DeferEnabled() {
		return args, false, nil
	}

	directiveNode := findDirective(directives, "defer")
	if directiveNode == nil {
		return args, false, nil
	}

	argValues, err := values.DirectiveValues(graphql.DeferDirective(), directives, ctx.VariableValues())
	if err != nil {
		return args, false, err
	}

	args.If = true
	if ifValue := argValues.Get("if"); ifValue != nil {
		args.If = ifValue.(bool)
	}
	if label, present := argValues.Lookup("label"); present && label != nil {
		args.Label = label.(string)
		args.HasLabel = true
	}

	return args, true, nil
}

// readStreamArguments reads the @stream directive, if present, from a field's directives.
func readStreamArguments(ctx *ExecutionContext, directives ast.Directives) (args streamArguments, ok bool, err error) {
	if !ctx.StreamEnabled() {
		return args, false, nil
	}

	directiveNode := findDirective(directives, "stream")
	if directiveNode == nil {
		return args, false, nil
	}

	argValues, err := values.DirectiveValues(graphql.StreamDirective(), directives, ctx.VariableValues())
	if err != nil {
		return args, false, err
	}

	args.If = true
	if ifValue := argValues.Get("if"); ifValue != nil {
		args.If = ifValue.(bool)
	}
	if label, present := argValues.Lookup("label"); present && label != nil {
		args.Label = label.(string)
		args.HasLabel = true
	}
	if initialCount := argValues.Get("initialCount"); initialCount != nil {
		args.InitialCount = initialCount.(int)
	}

	return args, true, nil
}

// findDirective finds the AST node for the named directive in a directive list, or nil if absent.
func findDirective(directives ast.Directives, name string) *ast.Directive {
	for _, directive := range directives {
		if directive.Name.Value() == name {
			return directive
		}
	}
	return nil
}
