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
)

// A Path is an immutable, reverse-linked node in a response path. Each node carries one segment
// (a field response key or a list index) and a pointer to its parent. Unlike ResultNode, a Path
// does not refer to any live result tree: it can be built once and kept around after the node that
// produced it has been released, which is what a deferred or streamed patch needs since its data is
// anchored by path into the *initial* result tree while its own completion runs in a detached
// sub-tree.
//
// Reference: https://facebook.github.io/graphql/June2018/#sec-Path
type Path struct {
	parent *Path

	// Exactly one of fieldName/listIndex is meaningful; isIndex selects which.
	fieldName string
	listIndex int
	isIndex   bool
}

// WithFieldName returns a new Path extending p with a field response key segment.
func (p *Path) WithFieldName(name string) *Path {
	return &Path{parent: p, fieldName: name}
}

// WithListIndex returns a new Path extending p with a list index segment.
func (p *Path) WithListIndex(index int) *Path {
	return &Path{parent: p, listIndex: index, isIndex: true}
}

// ResponsePath flattens p into a graphql.ResponsePath, in root-to-leaf order. A nil Path flattens
// to the empty path.
func (p *Path) ResponsePath() graphql.ResponsePath {
	var path graphql.ResponsePath
	if p == nil {
		return path
	}

	// Count segments first so we can build keys in a single pass without repeated slice growth.
	var segments []*Path
	for node := p; node != nil; node = node.parent {
		segments = append(segments, node)
	}

	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		if segment.isIndex {
			path.AppendIndex(segment.listIndex)
		} else {
			path.AppendFieldName(segment.fieldName)
		}
	}

	return path
}
