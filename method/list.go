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

package method

import (
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/mirror/internal/collection"
	"dirpx.dev/mirror/name"
)

// List is the ordered method collection of T.
type List[T any] struct {
	collection.List[Typed[T]]
}

// NewList builds a list from methods in declaration order.
func NewList[T any](methods ...Typed[T]) List[T] {
	return List[T]{collection.Of(methods...)}
}

// With returns a new list with m appended.
func (l List[T]) With(m Typed[T]) List[T] {
	return List[T]{l.List.With(m)}
}

// Of returns the method named n as a typed descriptor.
func Of[F, T any](l List[T], n name.Name) (Method[T, F], error) {
	e, ok := l.Lookup(n)
	if !ok {
		return Method[T, F]{}, errors.Wrapf(ErrMethodNotFound, "%q on %v", n, reflect.TypeFor[T]())
	}
	m, ok := e.(Method[T, F])
	if !ok {
		return Method[T, F]{}, errors.Wrapf(ErrMethodType, "%q on %v is %v, not %v", n, e.DeclaringType(), e.FuncType(), reflect.TypeFor[F]())
	}
	return m, nil
}
