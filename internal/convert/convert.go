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

// Package convert adapts loosely typed values (decoded documents, call
// arguments) to the exact Go type of a field or parameter.
package convert

import (
	"math"
	"reflect"
)

// To returns v as a value of type to. Assignable values pass through.
// Numeric values are converted between kinds when the value survives the
// conversion unchanged; any other conversion is refused. A nil v yields the
// zero value of to when to is nillable.
func To(v any, to reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch to.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(to), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	return Value(rv, to)
}

// Value is To for an already reflected value.
func Value(rv reflect.Value, to reflect.Type) (reflect.Value, bool) {
	if rv.Type().AssignableTo(to) {
		return rv, true
	}
	switch {
	case isInt(rv.Kind()):
		return fromInt(rv.Int(), to)
	case isUint(rv.Kind()):
		u := rv.Uint()
		if u > math.MaxInt64 {
			if isUint(to.Kind()) && !reflect.Zero(to).OverflowUint(u) {
				return reflect.ValueOf(u).Convert(to), true
			}
			return reflect.Value{}, false
		}
		return fromInt(int64(u), to)
	case isFloat(rv.Kind()):
		f := rv.Float()
		if isFloat(to.Kind()) {
			if reflect.Zero(to).OverflowFloat(f) {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(f).Convert(to), true
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return reflect.Value{}, false
		}
		return fromInt(int64(f), to)
	case rv.Kind() == to.Kind() && rv.Type().ConvertibleTo(to):
		// Named/unnamed variants of the same kind, e.g. string -> type ID string.
		return rv.Convert(to), true
	}
	return reflect.Value{}, false
}

func fromInt(i int64, to reflect.Type) (reflect.Value, bool) {
	z := reflect.Zero(to)
	switch {
	case isInt(to.Kind()):
		if z.OverflowInt(i) {
			return reflect.Value{}, false
		}
	case isUint(to.Kind()):
		if i < 0 || z.OverflowUint(uint64(i)) {
			return reflect.Value{}, false
		}
	case isFloat(to.Kind()):
		out := reflect.ValueOf(i).Convert(to)
		if f := out.Float(); f >= math.MaxInt64 || int64(f) != i {
			return reflect.Value{}, false
		}
		return out, true
	default:
		return reflect.Value{}, false
	}
	return reflect.ValueOf(i).Convert(to), true
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
