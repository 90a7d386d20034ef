/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package collection implements the ordered descriptor list shared by field
// and method lists.
package collection

import (
	"iter"

	"dirpx.dev/mirror/name"
)

// Named is anything that carries a member name.
type Named interface {
	Name() name.Name
}

// List is an ordered, append-only sequence of descriptors.
// The zero value is an empty list. A List is never mutated after
// construction; With returns a new one.
type List[E Named] struct {
	items []E
}

// Of builds a list from items in the given order.
func Of[E Named](items ...E) List[E] {
	return List[E]{items: append([]E(nil), items...)}
}

// With returns a new list with e appended. l is left untouched.
func (l List[E]) With(e E) List[E] {
	items := make([]E, len(l.items), len(l.items)+1)
	copy(items, l.items)
	return List[E]{items: append(items, e)}
}

// Len returns the number of descriptors.
func (l List[E]) Len() int { return len(l.items) }

// At returns the i-th descriptor in declaration order.
func (l List[E]) At(i int) E { return l.items[i] }

// Lookup returns the first descriptor named n.
// Duplicate names are not rejected; later duplicates are unreachable by name.
func (l List[E]) Lookup(n name.Name) (E, bool) {
	for _, e := range l.items {
		if e.Name().Equal(n) {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// All iterates descriptors in declaration order.
func (l List[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, e := range l.items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// ForEach calls fn for each descriptor in declaration order until fn returns false.
func (l List[E]) ForEach(fn func(E) bool) {
	for _, e := range l.items {
		if !fn(e) {
			return
		}
	}
}

// Names returns descriptor names in declaration order.
func (l List[E]) Names() []name.Name {
	out := make([]name.Name, len(l.items))
	for i, e := range l.items {
		out[i] = e.Name()
	}
	return out
}
