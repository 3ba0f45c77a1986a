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

package graphql

// PossibleTypeSet records the concrete Object types that can occur for an abstract (Interface or
// Union) type, letting the executor test a resolved value's runtime type against a fragment's type
// condition in O(1) instead of walking the schema for every field.
type PossibleTypeSet struct {
	types map[Object]bool
}

// NewPossibleTypeSet creates an empty PossibleTypeSet.
func NewPossibleTypeSet() PossibleTypeSet {
	return PossibleTypeSet{
		types: map[Object]bool{},
	}
}

// Add records t as a possible type in the set.
func (s PossibleTypeSet) Add(t Object) {
	s.types[t] = true
}

// Contains reports whether t was recorded in the set.
func (s PossibleTypeSet) Contains(t Object) bool {
	return s.types[t]
}

// Len returns the number of types in the set.
func (s PossibleTypeSet) Len() int {
	return len(s.types)
}
