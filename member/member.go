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

// Package member extracts declaring, value and return types from the Go
// counterparts of member pointers: field accessors and method expressions.
package member

import (
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrNotMember is returned when a value is not a method expression
	// (a function whose first parameter is a named type or a pointer to one).
	ErrNotMember = errors.New("mirror(member): not a method expression")
	// ErrReceiverMismatch is returned when a method expression's receiver is
	// neither T nor *T.
	ErrReceiverMismatch = errors.New("mirror(member): receiver does not match declaring type")
)

// Accessor is the field counterpart of a pointer to data member: given an
// instance it yields the address of one field inside it.
//
//	member.Accessor[Character, float32](func(c *Character) *float32 { return &c.HP })
type Accessor[T, V any] func(*T) *V

// FieldTraits returns the declaring and value types of acc.
func FieldTraits[T, V any](Accessor[T, V]) (declaring, value reflect.Type) {
	return reflect.TypeFor[T](), reflect.TypeFor[V]()
}

// Traits describes a method expression.
type Traits struct {
	// Declaring is the receiver type with any pointer stripped.
	Declaring reflect.Type
	// PointerReceiver is true for methods declared on *T. Such methods
	// cannot be called on a read-only value.
	PointerReceiver bool
	// Params are the argument types, receiver excluded.
	Params []reflect.Type
	// Results are the result types.
	Results []reflect.Type
	// Variadic mirrors reflect.Type.IsVariadic for the expression.
	Variadic bool
	// Func is the full method expression type.
	Func reflect.Type
}

// Return returns the first result type, or nil when the method returns nothing.
func (t Traits) Return() reflect.Type {
	if len(t.Results) == 0 {
		return nil
	}
	return t.Results[0]
}

// MethodTraits inspects fn, a method expression such as (*T).Show or T.Area.
func MethodTraits(fn any) (Traits, error) {
	if fn == nil {
		return Traits{}, errors.Wrap(ErrNotMember, "nil value")
	}
	ft := reflect.TypeOf(fn)
	if ft.Kind() != reflect.Func {
		return Traits{}, errors.Wrapf(ErrNotMember, "%v is not a function", ft)
	}
	if ft.NumIn() == 0 || (ft.IsVariadic() && ft.NumIn() == 1) {
		return Traits{}, errors.Wrapf(ErrNotMember, "%v has no receiver parameter", ft)
	}

	recv := ft.In(0)
	ptr := false
	if recv.Kind() == reflect.Ptr {
		recv = recv.Elem()
		ptr = true
	}
	if recv.Name() == "" || recv.PkgPath() == "" || recv.Kind() == reflect.Interface || recv.Kind() == reflect.Ptr {
		return Traits{}, errors.Wrapf(ErrNotMember, "receiver %v of %v is not a named concrete type", ft.In(0), ft)
	}

	tr := Traits{
		Declaring:       recv,
		PointerReceiver: ptr,
		Params:          make([]reflect.Type, 0, ft.NumIn()-1),
		Results:         make([]reflect.Type, 0, ft.NumOut()),
		Variadic:        ft.IsVariadic(),
		Func:            ft,
	}
	for i := 1; i < ft.NumIn(); i++ {
		tr.Params = append(tr.Params, ft.In(i))
	}
	for i := 0; i < ft.NumOut(); i++ {
		tr.Results = append(tr.Results, ft.Out(i))
	}
	return tr, nil
}

// MethodTraitsOf is MethodTraits with the additional requirement that the
// receiver is T or *T.
func MethodTraitsOf[T any](fn any) (Traits, error) {
	tr, err := MethodTraits(fn)
	if err != nil {
		return Traits{}, err
	}
	if want := reflect.TypeFor[T](); tr.Declaring != want {
		return Traits{}, errors.Wrapf(ErrReceiverMismatch, "%v declared on %v, want %v", tr.Func, tr.Declaring, want)
	}
	return tr, nil
}
