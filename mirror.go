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

package mirror

import (
	"errors"
	"reflect"

	pkgerrors "github.com/pkg/errors"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/field"
	"dirpx.dev/mirror/method"
	"dirpx.dev/mirror/name"
	"dirpx.dev/mirror/registry"
	"dirpx.dev/mirror/resolver"
	"dirpx.dev/mirror/typeinfo"
)

// ErrNotReflected is returned for types that have no usable descriptor.
var ErrNotReflected = errors.New("mirror: type is not reflected")

// Register associates t with its type in the global registry (the
// non-intrusive path). Registering the same descriptor twice is a no-op.
func Register[T any](t *typeinfo.Type[T]) error {
	if t == nil {
		return registry.ErrNilTypeInfo
	}
	// Rebuilds migrate entries under buildMu; registering under it too keeps
	// an entry from landing in a registry that is being replaced.
	buildMu.Lock()
	defer buildMu.Unlock()
	return st.Load().reg.Register(t)
}

// MustRegister is like Register but panics on error. It is meant for
// package-level declarations:
//
//	var _ = mirror.MustRegister(point3DType)
func MustRegister[T any](t *typeinfo.Type[T]) *typeinfo.Type[T] {
	if err := Register(t); err != nil {
		panic(err)
	}
	return t
}

// Classify reports how T is reflected.
func Classify[T any]() apis.Kind {
	return ClassifyType(reflect.TypeFor[T]())
}

// ClassifyType reports how t is reflected. A failed resolution still
// reports the kind it detected (e.g. Ambiguous).
func ClassifyType(t reflect.Type) apis.Kind {
	s := st.Load()
	r, _ := s.res.Resolve(t, s.cfg)
	return r.Kind
}

// Reflected reports whether T resolves to a usable descriptor under the
// current configuration. Unlike Classify[T]().Reflected(), it is true for an
// Ambiguous type when the ambiguity policy picks one of its descriptors.
func Reflected[T any]() bool {
	_, err := TypeOf[T]()
	return err == nil
}

// Resolve returns the descriptor that applies to t (or the type t points to).
func Resolve(t reflect.Type) (apis.TypeInfo, error) {
	s := st.Load()
	r, err := s.res.Resolve(t, s.cfg)
	if err != nil {
		return nil, err
	}
	if r.Info == nil {
		return nil, pkgerrors.Wrapf(ErrNotReflected, "type %v", t)
	}
	return r.Info, nil
}

// TypeOf returns the typed descriptor of T, whichever way it was declared.
func TypeOf[T any]() (*typeinfo.Type[T], error) {
	info, err := Resolve(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	ti, ok := info.(*typeinfo.Type[T])
	if !ok {
		return nil, pkgerrors.Wrapf(resolver.ErrTypeMismatch, "descriptor of %v is %T", reflect.TypeFor[T](), info)
	}
	return ti, nil
}

// TypeName returns the display name of T; it is empty unless one was declared.
func TypeName[T any]() (name.Name, error) {
	ti, err := TypeOf[T]()
	if err != nil {
		return "", err
	}
	return ti.Name(), nil
}

// FieldCount returns the number of reflected fields of T.
func FieldCount[T any]() (int, error) {
	ti, err := TypeOf[T]()
	if err != nil {
		return 0, err
	}
	return ti.Fields().Len(), nil
}

// MethodCount returns the number of reflected methods of T.
func MethodCount[T any]() (int, error) {
	ti, err := TypeOf[T]()
	if err != nil {
		return 0, err
	}
	return ti.Methods().Len(), nil
}

// ForEachField calls fn for every field of T in declaration order until fn
// returns false.
func ForEachField[T any](fn func(field.Typed[T]) bool) error {
	ti, err := TypeOf[T]()
	if err != nil {
		return err
	}
	ti.Fields().ForEach(fn)
	return nil
}

// ForEachMethod calls fn for every method of T in declaration order until
// fn returns false.
func ForEachMethod[T any](fn func(method.Typed[T]) bool) error {
	ti, err := TypeOf[T]()
	if err != nil {
		return err
	}
	ti.Methods().ForEach(fn)
	return nil
}

// FieldOf returns the field of T named n, holding a V.
func FieldOf[V, T any](n name.Name) (field.Field[T, V], error) {
	ti, err := TypeOf[T]()
	if err != nil {
		return field.Field[T, V]{}, err
	}
	return field.Of[V](ti.Fields(), n)
}

// MethodOf returns the method of T named n, whose method expression is an F.
func MethodOf[F, T any](n name.Name) (method.Method[T, F], error) {
	ti, err := TypeOf[T]()
	if err != nil {
		return method.Method[T, F]{}, err
	}
	return method.Of[F](ti.Methods(), n)
}

// Get returns a copy of the field of obj named n.
func Get[V, T any](obj *T, n name.Name) (V, error) {
	var zero V
	if obj == nil {
		return zero, pkgerrors.Wrapf(field.ErrInstance, "nil %v", reflect.TypeFor[*T]())
	}
	f, err := FieldOf[V, T](n)
	if err != nil {
		return zero, err
	}
	return f.Load(obj), nil
}

// Ref returns a mutable reference to the field of obj named n.
func Ref[V, T any](obj *T, n name.Name) (*V, error) {
	if obj == nil {
		return nil, pkgerrors.Wrapf(field.ErrInstance, "nil %v", reflect.TypeFor[*T]())
	}
	f, err := FieldOf[V, T](n)
	if err != nil {
		return nil, err
	}
	return f.Ref(obj), nil
}

// Set stores v into the field of obj named n.
func Set[T, V any](obj *T, n name.Name, v V) error {
	p, err := Ref[V](obj, n)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Invoke calls the method of obj named n with args and returns its results.
// Panics raised by the method propagate to the caller.
func Invoke[T any](obj *T, n name.Name, args ...any) ([]any, error) {
	if obj == nil {
		return nil, pkgerrors.Wrapf(method.ErrInstance, "nil %v", reflect.TypeFor[*T]())
	}
	ti, err := TypeOf[T]()
	if err != nil {
		return nil, err
	}
	m, ok := ti.Methods().Lookup(n)
	if !ok {
		return nil, pkgerrors.Wrapf(method.ErrMethodNotFound, "%q on %v", n, reflect.TypeFor[T]())
	}
	return m.Call(obj, args...)
}
