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

// Package codec converts reflected values to and from documents.
//
// Only declared fields are visited, under their declared names and in
// declaration order. A field whose type is itself reflected becomes a nested
// document; anything else is a leaf handed to the YAML library as is.
//
//	game_save:
//	  time_played: 238290
//	  character_data:
//	    exp: 2389043
//	    enemies_killed: 12000
package codec

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	pkgerrors "github.com/pkg/errors"

	"dirpx.dev/mirror"
	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/internal/convert"
	uref "dirpx.dev/mirror/utils/reflect"
)

var (
	// ErrTarget is returned when the decode target is not a non-nil pointer.
	ErrTarget = errors.New("mirror(codec): decode target must be a non-nil pointer")
	// ErrShape is returned when a document value does not fit its field.
	ErrShape = errors.New("mirror(codec): document value does not fit field")
	// ErrTooDeep is returned when values nest deeper than MaxDepth.
	ErrTooDeep = errors.New("mirror(codec): value nests too deeply")
)

// DefaultMaxDepth bounds recursion into reflected fields.
const DefaultMaxDepth = 32

// Codec encodes and decodes reflected values. The zero value uses the global
// resolver.
type Codec struct {
	// Resolve finds descriptors; nil means mirror.Resolve.
	Resolve func(reflect.Type) (apis.TypeInfo, error)
	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// Validator, when set, checks the `validate` tags of every decoded
	// struct. Its errors are validator.ValidationErrors.
	Validator *validator.Validate
}

// Encode returns the document of v, which must be a reflected value or a
// pointer to one.
func Encode(v any) (yaml.MapSlice, error) { return Codec{}.Encode(v) }

// Decode fills the reflected value dst points to from doc.
func Decode(doc map[string]any, dst any) error { return Codec{}.Decode(doc, dst) }

// MarshalYAML encodes v as a YAML document.
func MarshalYAML(v any) ([]byte, error) { return Codec{}.MarshalYAML(v) }

// UnmarshalYAML decodes a YAML document into dst.
func UnmarshalYAML(data []byte, dst any) error { return Codec{}.UnmarshalYAML(data, dst) }

// MarshalJSON encodes v as a JSON document.
func MarshalJSON(v any) ([]byte, error) { return Codec{}.MarshalJSON(v) }

// UnmarshalJSON decodes a JSON document into dst.
func UnmarshalJSON(data []byte, dst any) error { return Codec{}.UnmarshalJSON(data, dst) }

// MarshalYAML encodes v as a YAML document.
func (c Codec) MarshalYAML(v any) ([]byte, error) {
	doc, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// MarshalJSON encodes v as a JSON document.
func (c Codec) MarshalJSON(v any) ([]byte, error) {
	doc, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	return yaml.MarshalWithOptions(doc, yaml.JSON())
}

// UnmarshalYAML decodes a YAML document into dst.
func (c Codec) UnmarshalYAML(data []byte, dst any) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return pkgerrors.Wrap(err, "mirror(codec): parse")
	}
	return c.Decode(doc, dst)
}

// UnmarshalJSON decodes a JSON document into dst. JSON is read as the YAML
// subset it is.
func (c Codec) UnmarshalJSON(data []byte, dst any) error {
	return c.UnmarshalYAML(data, dst)
}

func (c Codec) resolve(t reflect.Type) (apis.TypeInfo, error) {
	if c.Resolve != nil {
		return c.Resolve(t)
	}
	return mirror.Resolve(t)
}

func (c Codec) limit() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// Encode returns the document of v, which must be a reflected value or a
// pointer to one.
func (c Codec) Encode(v any) (yaml.MapSlice, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, pkgerrors.Wrap(mirror.ErrNotReflected, "nil value")
	}
	info, err := c.resolve(rv.Type())
	if err != nil {
		return nil, err
	}
	rv, ok := uref.Deref(rv, mirror.Config())
	if !ok {
		return nil, nil
	}
	return c.encodeStruct(info, rv, 0)
}

func (c Codec) encodeStruct(info apis.TypeInfo, v reflect.Value, depth int) (yaml.MapSlice, error) {
	if depth > c.limit() {
		return nil, pkgerrors.Wrapf(ErrTooDeep, "more than %d levels", c.limit())
	}
	obj := v.Interface()
	doc := make(yaml.MapSlice, 0, info.NumField())
	for i := range info.NumField() {
		f := info.FieldAt(i)
		fv, err := f.Get(obj)
		if err != nil {
			return nil, err
		}
		out, err := c.encodeValue(reflect.ValueOf(fv), depth+1)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "field %q", f.Name())
		}
		doc = append(doc, yaml.MapItem{Key: f.Name().String(), Value: out})
	}
	return doc, nil
}

// encodeValue turns a field value into a document value.
func (c Codec) encodeValue(v reflect.Value, depth int) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	info, err := c.resolve(v.Type())
	switch {
	case err == nil:
		v, ok := uref.Deref(v, mirror.Config())
		if !ok {
			return nil, nil
		}
		return c.encodeStruct(info, v, depth)
	case !errors.Is(err, mirror.ErrNotReflected):
		return nil, err
	}

	// Sequences of reflected values are encoded element-wise.
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && c.reflected(v.Type().Elem()) {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		seq := make([]any, v.Len())
		for i := range seq {
			e, err := c.encodeValue(v.Index(i), depth+1)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "index %d", i)
			}
			seq[i] = e
		}
		return seq, nil
	}
	if v.Kind() == reflect.Map && c.reflected(v.Type().Elem()) {
		if v.IsNil() {
			return nil, nil
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		doc := make(yaml.MapSlice, 0, len(keys))
		for _, k := range keys {
			e, err := c.encodeValue(v.MapIndex(k), depth+1)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "key %v", k.Interface())
			}
			doc = append(doc, yaml.MapItem{Key: k.Interface(), Value: e})
		}
		return doc, nil
	}
	return v.Interface(), nil
}

// Decode fills the reflected value dst points to from doc. Keys without a
// matching field are ignored; fields without a key keep their value.
func (c Codec) Decode(doc map[string]any, dst any) error {
	rv := reflect.ValueOf(dst)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return pkgerrors.Wrapf(ErrTarget, "got %T", dst)
	}
	info, err := c.resolve(rv.Type())
	if err != nil {
		return err
	}
	// Reach the *T the descriptor's fields accept.
	for rv.Elem().Kind() == reflect.Ptr {
		if rv.Elem().IsNil() {
			rv.Elem().Set(reflect.New(rv.Elem().Type().Elem()))
		}
		rv = rv.Elem()
	}
	if err := c.decodeStruct(info, doc, rv.Interface(), 0); err != nil {
		return err
	}
	if c.Validator == nil || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	if err := c.Validator.Struct(rv.Interface()); err != nil {
		return pkgerrors.Wrapf(err, "mirror(codec): validate %v", rv.Elem().Type())
	}
	return nil
}

func (c Codec) decodeStruct(info apis.TypeInfo, doc map[string]any, ptr any, depth int) error {
	if depth > c.limit() {
		return pkgerrors.Wrapf(ErrTooDeep, "more than %d levels", c.limit())
	}
	for i := range info.NumField() {
		f := info.FieldAt(i)
		raw, ok := doc[f.Name().String()]
		if !ok {
			continue
		}
		cur, err := f.Get(ptr)
		if err != nil {
			return err
		}
		v, err := c.decodeValue(raw, f.ValueType(), reflect.ValueOf(cur), depth+1)
		if err != nil {
			return pkgerrors.Wrapf(err, "field %q", f.Name())
		}
		if err := f.Assign(ptr, v.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// decodeValue turns a document value into a value of type t. cur is the
// value being replaced, if any; a reflected value is decoded on top of it so
// that keys missing from raw keep their value.
func (c Codec) decodeValue(raw any, t reflect.Type, cur reflect.Value, depth int) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(t), nil
	}
	info, err := c.resolve(t)
	switch {
	case err == nil:
		doc, ok := asDoc(raw)
		if !ok {
			return reflect.Value{}, pkgerrors.Wrapf(ErrShape, "%T is not a document for %v", raw, t)
		}
		out := reflect.New(t).Elem()
		if cur.IsValid() && cur.Type().AssignableTo(t) {
			out.Set(cur)
		}
		// Allocate through every nil pointer level of t.
		target := out
		for target.Kind() == reflect.Ptr {
			if target.IsNil() {
				target.Set(reflect.New(target.Type().Elem()))
			}
			target = target.Elem()
		}
		if err := c.decodeStruct(info, doc, target.Addr().Interface(), depth); err != nil {
			return reflect.Value{}, err
		}
		return out, nil
	case !errors.Is(err, mirror.ErrNotReflected):
		return reflect.Value{}, err
	}

	if v, ok := convert.To(raw, t); ok {
		return v, nil
	}
	if seq, ok := raw.([]any); ok && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		return c.decodeSeq(seq, t, depth)
	}
	if t.Kind() == reflect.Map {
		if m, ok := asMap(raw); ok {
			return c.decodeMap(m, t, depth)
		}
	}
	if t.Kind() == reflect.Struct || isComposite(raw) {
		return decodeLeaf(raw, t)
	}
	return reflect.Value{}, pkgerrors.Wrapf(ErrShape, "%T does not fit %v", raw, t)
}

func (c Codec) decodeSeq(seq []any, t reflect.Type, depth int) (reflect.Value, error) {
	var out reflect.Value
	if t.Kind() == reflect.Array {
		if len(seq) > t.Len() {
			return reflect.Value{}, pkgerrors.Wrapf(ErrShape, "%d elements do not fit %v", len(seq), t)
		}
		out = reflect.New(t).Elem()
	} else {
		out = reflect.MakeSlice(t, len(seq), len(seq))
	}
	for i, raw := range seq {
		e, err := c.decodeValue(raw, t.Elem(), reflect.Value{}, depth+1)
		if err != nil {
			return reflect.Value{}, pkgerrors.Wrapf(err, "index %d", i)
		}
		out.Index(i).Set(e)
	}
	return out, nil
}

func (c Codec) decodeMap(m []yaml.MapItem, t reflect.Type, depth int) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(t, len(m))
	for _, it := range m {
		k, err := c.decodeValue(it.Key, t.Key(), reflect.Value{}, depth+1)
		if err != nil {
			return reflect.Value{}, pkgerrors.Wrapf(err, "key %v", it.Key)
		}
		v, err := c.decodeValue(it.Value, t.Elem(), reflect.Value{}, depth+1)
		if err != nil {
			return reflect.Value{}, pkgerrors.Wrapf(err, "key %v", it.Key)
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

// decodeLeaf hands a composite value of a non-reflected type back to the
// YAML library, which encoded it in the first place.
func decodeLeaf(raw any, t reflect.Type) (reflect.Value, error) {
	b, err := yaml.Marshal(raw)
	if err != nil {
		return reflect.Value{}, pkgerrors.Wrapf(ErrShape, "%T does not fit %v: %v", raw, t, err)
	}
	out := reflect.New(t)
	if err := yaml.Unmarshal(b, out.Interface()); err != nil {
		return reflect.Value{}, pkgerrors.Wrapf(ErrShape, "%T does not fit %v: %v", raw, t, err)
	}
	return out.Elem(), nil
}

func isComposite(raw any) bool {
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// asMap returns the entries of any mapping shape, keys untouched.
func asMap(raw any) ([]yaml.MapItem, bool) {
	if ms, ok := raw.(yaml.MapSlice); ok {
		return ms, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	items := make([]yaml.MapItem, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		items = append(items, yaml.MapItem{Key: iter.Key().Interface(), Value: iter.Value().Interface()})
	}
	return items, true
}

func (c Codec) reflected(t reflect.Type) bool {
	_, err := c.resolve(t)
	return err == nil
}

// asDoc accepts the mapping shapes YAML decoders and Encode produce.
func asDoc(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		doc := make(map[string]any, len(m))
		for k, v := range m {
			doc[fmt.Sprint(k)] = v
		}
		return doc, true
	case yaml.MapSlice:
		doc := make(map[string]any, len(m))
		for _, it := range m {
			doc[fmt.Sprint(it.Key)] = it.Value
		}
		return doc, true
	}
	return nil, false
}
