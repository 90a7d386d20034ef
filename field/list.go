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

package field

import (
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/mirror/internal/collection"
	"dirpx.dev/mirror/name"
)

// List is the ordered field collection of T.
type List[T any] struct {
	collection.List[Typed[T]]
}

// NewList builds a list from fields in declaration order.
func NewList[T any](fields ...Typed[T]) List[T] {
	return List[T]{collection.Of(fields...)}
}

// With returns a new list with f appended.
func (l List[T]) With(f Typed[T]) List[T] {
	return List[T]{l.List.With(f)}
}

// Of returns the field named n as a typed descriptor.
func Of[V, T any](l List[T], n name.Name) (Field[T, V], error) {
	e, ok := l.Lookup(n)
	if !ok {
		return Field[T, V]{}, errors.Wrapf(ErrFieldNotFound, "%q on %v", n, reflect.TypeFor[T]())
	}
	f, ok := e.(Field[T, V])
	if !ok {
		return Field[T, V]{}, errors.Wrapf(ErrFieldType, "%q on %v holds %v, not %v", n, e.DeclaringType(), e.ValueType(), reflect.TypeFor[V]())
	}
	return f, nil
}
