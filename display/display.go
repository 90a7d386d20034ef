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

// Package display renders reflected values as text:
//
//	reflected_character: { hp: 10, mana: 3 }
//
// Fields whose values are themselves reflected are rendered the same way,
// everything else with fmt's %v.
package display

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"dirpx.dev/mirror"
	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

// ErrTooDeep is returned when reflected values nest deeper than MaxDepth,
// which usually means a pointer cycle.
var ErrTooDeep = errors.New("mirror(display): value nests too deeply")

// DefaultMaxDepth bounds recursion into reflected fields.
const DefaultMaxDepth = 32

// Printer formats values. The zero value prints without color through the
// global resolver.
type Printer struct {
	// Colors enables colored output when non-nil.
	Colors *Colors
	// Resolve finds descriptors; nil means mirror.Resolve.
	Resolve func(reflect.Type) (apis.TypeInfo, error)
	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
}

// Fprint writes v to w with a zero Printer.
func Fprint(w io.Writer, v any) error {
	return Printer{}.Fprint(w, v)
}

// Sprint formats v with a zero Printer.
func Sprint(v any) (string, error) {
	return Printer{}.Sprint(v)
}

// Sprint formats v.
func (p Printer) Sprint(v any) (string, error) {
	var b strings.Builder
	if err := p.Fprint(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Fprint writes v to w.
func (p Printer) Fprint(w io.Writer, v any) error {
	var b strings.Builder
	if err := p.write(&b, reflect.ValueOf(v), 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (p Printer) resolve(t reflect.Type) (apis.TypeInfo, error) {
	if p.Resolve != nil {
		return p.Resolve(t)
	}
	return mirror.Resolve(t)
}

func (p Printer) write(b *strings.Builder, v reflect.Value, depth int) error {
	limit := p.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if depth > limit {
		return pkgerrors.Wrapf(ErrTooDeep, "more than %d levels", limit)
	}
	if !v.IsValid() {
		b.WriteString(p.Colors.Color(NilColor, "<nil>"))
		return nil
	}

	info, err := p.resolve(v.Type())
	switch {
	case errors.Is(err, mirror.ErrNotReflected):
		b.WriteString(p.Colors.Color(ValueColor, fmt.Sprintf("%v", v.Interface())))
		return nil
	case err != nil:
		return err
	}

	// A reflected type behind pointers.
	v, ok := uref.Deref(v, mirror.Config())
	if !ok {
		b.WriteString(p.Colors.Color(NilColor, "<nil>"))
		return nil
	}

	tn := info.Name().String()
	if tn == "" {
		tn = uref.TypeName(info.GoType())
	}
	b.WriteString(p.Colors.Color(TypeNameColor, tn))
	b.WriteString(p.Colors.Color(SepColor, ": {"))

	obj := v.Interface()
	for i := range info.NumField() {
		f := info.FieldAt(i)
		if i > 0 {
			b.WriteString(p.Colors.Color(SepColor, ","))
		}
		b.WriteByte(' ')
		b.WriteString(p.Colors.Color(FieldColor, f.Name().String()))
		b.WriteString(p.Colors.Color(SepColor, ": "))

		fv, err := f.Get(obj)
		if err != nil {
			return err
		}
		if err := p.write(b, valueOf(fv, f.ValueType()), depth+1); err != nil {
			return pkgerrors.Wrapf(err, "field %q", f.Name())
		}
	}
	b.WriteString(p.Colors.Color(SepColor, " }"))
	return nil
}

// valueOf keeps the static field type for nil interface values so a nil
// pointer field still prints as <nil>.
func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}
