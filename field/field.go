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

// Package field implements field descriptors: a name bound to an accessor
// yielding the address of one field of a declaring type.
//
// A descriptor is an immutable value normally declared once at package level:
//
//	var CharacterHP = field.New("hp", func(c *Character) *float32 { return &c.HP })
//
// Its typed operations (Ref, Load, View, Set) compile down to a direct field
// access through the accessor. The erased operations (Get, Addr, Assign)
// serve generic consumers that only hold an apis.FieldInfo.
package field

import (
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/internal/convert"
	"dirpx.dev/mirror/member"
	"dirpx.dev/mirror/name"
)

var (
	// ErrEmptyName is raised when a field is declared without a name.
	ErrEmptyName = errors.New("mirror(field): empty field name")
	// ErrNilAccessor is raised when a field is declared without an accessor.
	ErrNilAccessor = errors.New("mirror(field): nil accessor")
	// ErrFieldNotFound is returned when no field has the requested name.
	ErrFieldNotFound = errors.New("mirror(field): field not found")
	// ErrFieldType is returned when a field exists but holds another value type.
	ErrFieldType = errors.New("mirror(field): field value type mismatch")
	// ErrValueType is returned when a value cannot be stored into a field.
	ErrValueType = errors.New("mirror(field): value not assignable to field")
	// ErrInstance is returned when an instance is not of the declaring type.
	ErrInstance = errors.New("mirror(field): instance is not of the declaring type")
)

// Typed is a field descriptor known to belong to T. Only descriptors built by
// this package satisfy it, so a field of one type cannot be attached to
// another type's descriptor.
type Typed[T any] interface {
	apis.FieldInfo
	declaredBy(*T)
}

// Field describes the field of T holding a V.
type Field[T, V any] struct {
	name name.Name
	acc  member.Accessor[T, V]
}

// Ensure Field implements Typed.
var _ Typed[struct{}] = Field[struct{}, int]{}

// New declares a field descriptor. It panics on an empty name or nil
// accessor: descriptors are declarations, not runtime input.
func New[T, V any](n name.Name, acc func(*T) *V) Field[T, V] {
	if n.IsZero() {
		panic(errors.Wrapf(ErrEmptyName, "on %v", reflect.TypeFor[T]()))
	}
	if acc == nil {
		panic(errors.Wrapf(ErrNilAccessor, "field %q on %v", n, reflect.TypeFor[T]()))
	}
	return Field[T, V]{name: n, acc: acc}
}

// Name returns the field name.
func (f Field[T, V]) Name() name.Name { return f.name }

// DeclaringType returns T.
func (f Field[T, V]) DeclaringType() reflect.Type { return reflect.TypeFor[T]() }

// ValueType returns V.
func (f Field[T, V]) ValueType() reflect.Type { return reflect.TypeFor[V]() }

// Accessor returns the underlying accessor.
func (f Field[T, V]) Accessor() member.Accessor[T, V] { return f.acc }

// Ref returns a pointer to the field storage inside obj.
func (f Field[T, V]) Ref(obj *T) *V { return f.acc(obj) }

// Load returns a copy of the field value.
func (f Field[T, V]) Load(obj *T) V { return *f.acc(obj) }

// View returns a copy of the field value of a read-only instance.
func (f Field[T, V]) View(obj T) V { return *f.acc(&obj) }

// Set stores v into the field.
func (f Field[T, V]) Set(obj *T, v V) { *f.acc(obj) = v }

// Get implements apis.FieldInfo. obj may be T or *T.
func (f Field[T, V]) Get(obj any) (any, error) {
	switch o := obj.(type) {
	case *T:
		if o == nil {
			return nil, errors.Wrapf(ErrInstance, "nil *%v", f.DeclaringType())
		}
		return *f.acc(o), nil
	case T:
		return *f.acc(&o), nil
	}
	return nil, errors.Wrapf(ErrInstance, "field %q: got %T, want %v", f.name, obj, f.DeclaringType())
}

// Addr implements apis.FieldInfo and returns a *V. obj must be *T.
func (f Field[T, V]) Addr(obj any) (any, error) {
	o, err := f.mutable(obj)
	if err != nil {
		return nil, err
	}
	return f.acc(o), nil
}

// Assign implements apis.FieldInfo. obj must be *T; v must be a V or a
// value convertible to V without loss.
func (f Field[T, V]) Assign(obj any, v any) error {
	o, err := f.mutable(obj)
	if err != nil {
		return err
	}
	if tv, ok := v.(V); ok {
		*f.acc(o) = tv
		return nil
	}
	rv, ok := convert.To(v, f.ValueType())
	if !ok {
		return errors.Wrapf(ErrValueType, "field %q of %v: cannot store %T into %v", f.name, f.DeclaringType(), v, f.ValueType())
	}
	reflect.ValueOf(f.acc(o)).Elem().Set(rv)
	return nil
}

func (f Field[T, V]) mutable(obj any) (*T, error) {
	o, ok := obj.(*T)
	if !ok {
		return nil, errors.Wrapf(ErrInstance, "field %q: got %T, want *%v", f.name, obj, f.DeclaringType())
	}
	if o == nil {
		return nil, errors.Wrapf(ErrInstance, "nil *%v", f.DeclaringType())
	}
	return o, nil
}

func (Field[T, V]) declaredBy(*T) {}
