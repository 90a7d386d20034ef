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

// Package typeinfo implements type descriptors and their builder.
//
// A descriptor is assembled step by step; every step returns a new Builder
// and leaves the previous one untouched:
//
//	var characterType = typeinfo.New[Character]().
//		WithName("reflected_character").
//		WithField(CharacterHP).
//		WithField(CharacterMana).
//		Result()
package typeinfo

import (
	"reflect"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/field"
	"dirpx.dev/mirror/method"
	"dirpx.dev/mirror/name"
)

// Type is the immutable descriptor of T.
type Type[T any] struct {
	name    name.Name
	fields  field.List[T]
	methods method.List[T]
}

// Ensure Type implements apis.TypeInfo.
var _ apis.TypeInfo = (*Type[struct{}])(nil)

// Name returns the display name, empty unless one was set.
func (t *Type[T]) Name() name.Name { return t.name }

// Fields returns the field collection.
func (t *Type[T]) Fields() field.List[T] { return t.fields }

// Methods returns the method collection.
func (t *Type[T]) Methods() method.List[T] { return t.methods }

// GoType returns T.
func (t *Type[T]) GoType() reflect.Type { return reflect.TypeFor[T]() }

// NumField returns the number of fields.
func (t *Type[T]) NumField() int { return t.fields.Len() }

// FieldAt returns the i-th field in declaration order.
func (t *Type[T]) FieldAt(i int) apis.FieldInfo { return t.fields.At(i) }

// FieldByName returns the first field named n.
func (t *Type[T]) FieldByName(n name.Name) (apis.FieldInfo, bool) {
	f, ok := t.fields.Lookup(n)
	if !ok {
		return nil, false
	}
	return f, true
}

// NumMethod returns the number of methods.
func (t *Type[T]) NumMethod() int { return t.methods.Len() }

// MethodAt returns the i-th method in declaration order.
func (t *Type[T]) MethodAt(i int) apis.MethodInfo { return t.methods.At(i) }

// MethodByName returns the first method named n.
func (t *Type[T]) MethodByName(n name.Name) (apis.MethodInfo, bool) {
	m, ok := t.methods.Lookup(n)
	if !ok {
		return nil, false
	}
	return m, true
}

// Builder accumulates a descriptor of T. It is a value: each With* call
// returns an extended copy.
type Builder[T any] struct {
	name    name.Name
	fields  field.List[T]
	methods method.List[T]
}

// New starts a descriptor of T with no name, fields or methods.
func New[T any]() Builder[T] {
	return Builder[T]{}
}

// WithName returns a builder with the display name set to n.
func (b Builder[T]) WithName(n name.Name) Builder[T] {
	b.name = n
	return b
}

// WithField returns a builder with f appended to the fields.
func (b Builder[T]) WithField(f field.Typed[T]) Builder[T] {
	b.fields = b.fields.With(f)
	return b
}

// WithMethod returns a builder with m appended to the methods.
func (b Builder[T]) WithMethod(m method.Typed[T]) Builder[T] {
	b.methods = b.methods.With(m)
	return b
}

// Result finalizes the descriptor.
func (b Builder[T]) Result() *Type[T] {
	return &Type[T]{name: b.name, fields: b.fields, methods: b.methods}
}
