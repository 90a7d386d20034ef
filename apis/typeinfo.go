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

package apis

import (
	"reflect"

	"dirpx.dev/mirror/name"
)

// Provider is the intrusive declaration: a type that carries its own
// descriptor. MirrorType must be declared on the value receiver and must not
// depend on the receiver's state, so it can be answered from the zero value.
//
//	type Character struct{ HP, Mana float32 }
//
//	func (Character) MirrorType() apis.TypeInfo { return characterType }
type Provider interface {
	MirrorType() TypeInfo
}

// TypeInfo is the type-erased view of a type descriptor. Generic consumers
// (formatters, serializers) work against it when the concrete type is only
// known as a reflect.Type.
type TypeInfo interface {
	// GoType is the declaring type described.
	GoType() reflect.Type
	// Name is the display name; empty unless one was declared.
	Name() name.Name

	NumField() int
	// FieldAt returns fields in declaration order.
	FieldAt(i int) FieldInfo
	// FieldByName returns the first field named n.
	FieldByName(n name.Name) (FieldInfo, bool)

	NumMethod() int
	MethodAt(i int) MethodInfo
	MethodByName(n name.Name) (MethodInfo, bool)
}

// FieldInfo is the type-erased view of a field descriptor.
type FieldInfo interface {
	Name() name.Name
	DeclaringType() reflect.Type
	ValueType() reflect.Type

	// Get returns a copy of the field value. obj may be T or *T.
	Get(obj any) (any, error)
	// Addr returns a *V pointing at the field storage. obj must be *T.
	Addr(obj any) (any, error)
	// Assign stores v into the field. obj must be *T and v assignable or
	// convertible to the value type.
	Assign(obj any, v any) error
}

// MethodInfo is the type-erased view of a method descriptor.
type MethodInfo interface {
	Name() name.Name
	DeclaringType() reflect.Type
	// ReturnType is the first result type, or nil for methods without results.
	ReturnType() reflect.Type
	// FuncType is the method expression type, receiver first.
	FuncType() reflect.Type

	// Call invokes the method on obj (T or *T) with args.
	Call(obj any, args ...any) ([]any, error)
}
