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

// Package method implements method descriptors: a name bound to a method
// expression of a declaring type.
//
//	var Pos2DMove = method.New[Pos2D]("move", (*Pos2D).Move)
//
// Func returns the method expression with its static type, so
// Pos2DMove.Func()(&p, 1, 2) is an ordinary direct call. Invoke and
// InvokeValue forward loosely typed arguments for generic callers.
package method

import (
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/internal/convert"
	"dirpx.dev/mirror/member"
	"dirpx.dev/mirror/name"
)

var (
	// ErrEmptyName is returned when a method is declared without a name.
	ErrEmptyName = errors.New("mirror(method): empty method name")
	// ErrNilFunc is returned when a method is declared with a nil expression.
	ErrNilFunc = errors.New("mirror(method): nil method expression")
	// ErrMethodNotFound is returned when no method has the requested name.
	ErrMethodNotFound = errors.New("mirror(method): method not found")
	// ErrMethodType is returned when a method exists but has another signature.
	ErrMethodType = errors.New("mirror(method): method signature mismatch")
	// ErrMutableReceiver is returned when a pointer-receiver method is
	// invoked on a read-only value.
	ErrMutableReceiver = errors.New("mirror(method): method requires a mutable receiver")
	// ErrArity is returned when the argument count does not match.
	ErrArity = errors.New("mirror(method): wrong number of arguments")
	// ErrArgType is returned when an argument cannot be passed as the parameter type.
	ErrArgType = errors.New("mirror(method): argument type mismatch")
	// ErrInstance is returned when an instance is not of the declaring type.
	ErrInstance = errors.New("mirror(method): instance is not of the declaring type")
)

// Typed is a method descriptor known to belong to T.
type Typed[T any] interface {
	apis.MethodInfo
	declaredBy(*T)
}

// Method describes a method of T whose method expression has type F.
type Method[T, F any] struct {
	name name.Name
	fn   F
	fv   reflect.Value
	tr   member.Traits
}

// Ensure Method implements Typed.
var _ Typed[struct{}] = Method[struct{}, func()]{}

// Make declares a method descriptor, validating that fn is a method
// expression on T or *T.
func Make[T, F any](n name.Name, fn F) (Method[T, F], error) {
	if n.IsZero() {
		return Method[T, F]{}, errors.Wrapf(ErrEmptyName, "on %v", reflect.TypeFor[T]())
	}
	tr, err := member.MethodTraitsOf[T](fn)
	if err != nil {
		return Method[T, F]{}, errors.Wrapf(err, "method %q", n)
	}
	fv := reflect.ValueOf(fn)
	if fv.IsNil() {
		return Method[T, F]{}, errors.Wrapf(ErrNilFunc, "method %q on %v", n, tr.Declaring)
	}
	return Method[T, F]{name: n, fn: fn, fv: fv, tr: tr}, nil
}

// New is Make for package-level declarations; it panics on invalid input.
func New[T, F any](n name.Name, fn F) Method[T, F] {
	m, err := Make[T](n, fn)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the method name.
func (m Method[T, F]) Name() name.Name { return m.name }

// DeclaringType returns T.
func (m Method[T, F]) DeclaringType() reflect.Type { return reflect.TypeFor[T]() }

// ReturnType returns the first result type, or nil.
func (m Method[T, F]) ReturnType() reflect.Type { return m.tr.Return() }

// Returns returns all result types.
func (m Method[T, F]) Returns() []reflect.Type { return append([]reflect.Type(nil), m.tr.Results...) }

// Params returns the parameter types, receiver excluded.
func (m Method[T, F]) Params() []reflect.Type { return append([]reflect.Type(nil), m.tr.Params...) }

// FuncType returns F as a reflect.Type.
func (m Method[T, F]) FuncType() reflect.Type { return m.tr.Func }

// PointerReceiver reports whether the method is declared on *T.
func (m Method[T, F]) PointerReceiver() bool { return m.tr.PointerReceiver }

// Func returns the method expression.
func (m Method[T, F]) Func() F { return m.fn }

// Invoke calls the method on obj. Both pointer and value receiver methods
// are callable through a pointer.
func (m Method[T, F]) Invoke(obj *T, args ...any) ([]any, error) {
	if obj == nil {
		return nil, errors.Wrapf(ErrInstance, "method %q: nil *%v", m.name, m.DeclaringType())
	}
	recv := reflect.ValueOf(obj)
	if !m.tr.PointerReceiver {
		recv = recv.Elem()
	}
	return m.call(recv, args)
}

// InvokeValue calls the method on a read-only copy of obj. Methods declared
// on *T are refused with ErrMutableReceiver.
func (m Method[T, F]) InvokeValue(obj T, args ...any) ([]any, error) {
	if m.tr.PointerReceiver {
		return nil, errors.Wrapf(ErrMutableReceiver, "method %q is declared on *%v", m.name, m.DeclaringType())
	}
	return m.call(reflect.ValueOf(&obj).Elem(), args)
}

// Call implements apis.MethodInfo. obj may be *T (Invoke) or T (InvokeValue).
func (m Method[T, F]) Call(obj any, args ...any) ([]any, error) {
	switch o := obj.(type) {
	case *T:
		return m.Invoke(o, args...)
	case T:
		return m.InvokeValue(o, args...)
	}
	return nil, errors.Wrapf(ErrInstance, "method %q: got %T, want %v", m.name, obj, m.DeclaringType())
}

func (m Method[T, F]) call(recv reflect.Value, args []any) ([]any, error) {
	params := m.tr.Params
	if m.tr.Variadic {
		if len(args) < len(params)-1 {
			return nil, errors.Wrapf(ErrArity, "method %q: got %d arguments, want at least %d", m.name, len(args), len(params)-1)
		}
	} else if len(args) != len(params) {
		return nil, errors.Wrapf(ErrArity, "method %q: got %d arguments, want %d", m.name, len(args), len(params))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, recv)
	for i, a := range args {
		pt := m.paramAt(i)
		av, ok := convert.To(a, pt)
		if !ok {
			return nil, errors.Wrapf(ErrArgType, "method %q: argument %d is %T, want %v", m.name, i, a, pt)
		}
		in = append(in, av)
	}

	out := m.fv.Call(in)
	res := make([]any, len(out))
	for i, v := range out {
		res[i] = v.Interface()
	}
	return res, nil
}

// paramAt returns the type of the i-th argument, expanding a variadic tail.
func (m Method[T, F]) paramAt(i int) reflect.Type {
	params := m.tr.Params
	if m.tr.Variadic && i >= len(params)-1 {
		return params[len(params)-1].Elem()
	}
	return params[i]
}

func (Method[T, F]) declaredBy(*T) {}
