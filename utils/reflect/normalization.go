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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("mirror(reflect): nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after stripping
	// pointers) is not a named type (e.g., anonymous struct, slice, map).
	ErrReflectTypeNotNamed = errors.New("mirror(reflect): type is not a named type")
)

// Normalize strips pointers according to cfg.MaxUnwrap and returns the
// declaring type they lead to, or an error if it is not a named type.
//
// Unwrapping policy:
//   - ptr -> Elem(), at most MaxUnwrap times;
//   - slices, arrays, maps and channels are never unwrapped: a []T is a
//     different type from T and is not described by T's descriptor;
//   - the result must be named: anonymous types yield ErrReflectTypeNotNamed.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap && t.Kind() == reflect.Ptr; i++ {
		t = t.Elem()
	}

	// Still a pointer after reaching max depth, or anonymous.
	if t.Kind() == reflect.Ptr || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// Deref returns the value v points to after stripping as many pointer
// levels as Normalize would. ok is false if a nil pointer is met.
func Deref(v reflect.Value, cfg apis.Config) (reflect.Value, bool) {
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}
	for i := 0; i < maxUnwrap && v.Kind() == reflect.Ptr; i++ {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}
