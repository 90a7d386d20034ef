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

package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// ErrUnsupported is returned for annotated declarations that cannot be
// reflected (non-structs, generic types, missing or promoted methods).
var ErrUnsupported = errors.New("mirror(gen): unsupported declaration")

// reserved are the package names generated code refers to.
var reserved = map[string]string{
	"apis":     "dirpx.dev/mirror/apis",
	"field":    "dirpx.dev/mirror/field",
	"method":   "dirpx.dev/mirror/method",
	"mirror":   "dirpx.dev/mirror",
	"typeinfo": "dirpx.dev/mirror/typeinfo",
}

// Collect builds the generator input from a type-checked package. With
// external set, every type is registered instead of made intrusive.
func Collect(fset *token.FileSet, files []*ast.File, pkg *types.Package, external bool) (*Package, error) {
	out := &Package{
		Name:    pkg.Name(),
		Path:    pkg.Path(),
		Imports: map[string]string{},
	}
	q := newQualifier(pkg, out.Imports)

	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				d, err := ParseDirective(fset, doc)
				if err != nil {
					return nil, err
				}
				if !d.Reflect {
					continue
				}
				t, err := collectType(pkg, ts, d, q)
				if err != nil {
					return nil, errors.Wrapf(err, "%s", d.Pos)
				}
				t.External = t.External || external
				out.Types = append(out.Types, t)
			}
		}
	}
	return out, nil
}

func collectType(pkg *types.Package, ts *ast.TypeSpec, d Directive, q *qualifier) (Type, error) {
	t := Type{GoName: ts.Name.Name, Name: d.Name, External: d.External}
	if ts.Assign.IsValid() {
		return t, errors.Wrapf(ErrUnsupported, "%s is an alias", t.GoName)
	}
	obj, ok := pkg.Scope().Lookup(t.GoName).(*types.TypeName)
	if !ok {
		return t, errors.Wrapf(ErrUnsupported, "%s is not a package-level type", t.GoName)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return t, errors.Wrapf(ErrUnsupported, "%s is not a named type", t.GoName)
	}
	if named.TypeParams().Len() > 0 {
		return t, errors.Wrapf(ErrUnsupported, "%s is generic", t.GoName)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return t, errors.Wrapf(ErrUnsupported, "%s is not a struct", t.GoName)
	}

	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Embedded() || !f.Exported() {
			continue
		}
		n := strcase.ToSnake(f.Name())
		if tag, ok := reflect.StructTag(st.Tag(i)).Lookup("mirror"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				n = tag
			}
		}
		t.Fields = append(t.Fields, Field{
			GoName: f.Name(),
			Name:   n,
			Type:   types.TypeString(f.Type(), q.qualify),
		})
	}

	ms := types.NewMethodSet(types.NewPointer(named))
	for _, md := range d.Methods {
		sel := ms.Lookup(pkg, md.GoName)
		if sel == nil {
			return t, errors.Wrapf(ErrUnsupported, "%s has no method %s", t.GoName, md.GoName)
		}
		if len(sel.Index()) > 1 {
			return t, errors.Wrapf(ErrUnsupported, "%s.%s is promoted from an embedded field", t.GoName, md.GoName)
		}
		fn := sel.Obj().(*types.Func)
		if !fn.Exported() {
			return t, errors.Wrapf(ErrUnsupported, "%s.%s is not exported", t.GoName, md.GoName)
		}
		sig := fn.Type().(*types.Signature)
		_, ptr := sig.Recv().Type().(*types.Pointer)
		n := md.Name
		if n == "" {
			n = strcase.ToSnake(md.GoName)
		}
		t.Methods = append(t.Methods, Method{
			GoName:  md.GoName,
			Name:    n,
			Pointer: ptr,
			Func:    funcType(t.GoName, ptr, sig, q),
		})
	}
	return t, nil
}

// funcType renders the method expression type: the receiver becomes the
// first parameter.
func funcType(recv string, ptr bool, sig *types.Signature, q *qualifier) string {
	if ptr {
		recv = "*" + recv
	}
	params := []string{recv}
	for i := range sig.Params().Len() {
		pt := sig.Params().At(i).Type()
		if sig.Variadic() && i == sig.Params().Len()-1 {
			params = append(params, "..."+types.TypeString(pt.(*types.Slice).Elem(), q.qualify))
			continue
		}
		params = append(params, types.TypeString(pt, q.qualify))
	}

	var b strings.Builder
	b.WriteString("func(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	switch res := sig.Results(); res.Len() {
	case 0:
	case 1:
		b.WriteString(" " + types.TypeString(res.At(0).Type(), q.qualify))
	default:
		rs := make([]string, res.Len())
		for i := range rs {
			rs[i] = types.TypeString(res.At(i).Type(), q.qualify)
		}
		b.WriteString(" (" + strings.Join(rs, ", ") + ")")
	}
	return b.String()
}

// qualifier names the packages field types refer to, renaming those that
// clash with each other or with the packages generated code imports.
type qualifier struct {
	self  *types.Package
	names map[string]string // path -> name
	used  map[string]string // name -> path
}

func newQualifier(self *types.Package, names map[string]string) *qualifier {
	q := &qualifier{self: self, names: names, used: map[string]string{}}
	for n, p := range reserved {
		q.used[n] = p
	}
	return q
}

func (q *qualifier) qualify(p *types.Package) string {
	if p == q.self {
		return ""
	}
	if n, ok := q.names[p.Path()]; ok {
		return n
	}
	n := p.Name()
	if used, ok := q.used[n]; ok && used == p.Path() {
		// One of our own packages, e.g. a name.Name field.
		q.names[p.Path()] = n
		return n
	}
	for i := 2; q.used[n] != ""; i++ {
		n = fmt.Sprintf("%s%d", p.Name(), i)
	}
	q.names[p.Path()] = n
	q.used[n] = p.Path()
	return n
}
