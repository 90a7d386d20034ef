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
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

const gameSrc = `package game

import "time"

// Character is a player.
//
//mirror:reflect reflected_character
//mirror:method Heal
//mirror:method IsAlive alive
type Character struct {
	HP       int
	MaxMana  float64 ` + "`mirror:\"mana\"`" + `
	Secret   string  ` + "`mirror:\"-\"`" + `
	Born     time.Time
	Tags     []string
	internal int
}

func (c *Character) Heal(n int) { c.HP += n }

func (c Character) IsAlive() bool { return c.HP > 0 }

func (c Character) Log(format string, args ...any) {}

//mirror:reflect
//mirror:external
type Point struct{ X, Y float64 }

type Plain struct{ A int }
`

func check(t *testing.T, src string) (*token.FileSet, []*ast.File, *types.Package) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "game.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("example.com/game", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return fset, []*ast.File{f}, pkg
}

func TestCollect(t *testing.T) {
	fset, files, pkg := check(t, gameSrc)
	got, err := Collect(fset, files, pkg, false)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := &Package{
		Name:    "game",
		Path:    "example.com/game",
		Imports: map[string]string{"time": "time"},
		Types: []Type{
			{
				GoName: "Character",
				Name:   "reflected_character",
				Fields: []Field{
					{GoName: "HP", Name: "hp", Type: "int"},
					{GoName: "MaxMana", Name: "mana", Type: "float64"},
					{GoName: "Born", Name: "born", Type: "time.Time"},
					{GoName: "Tags", Name: "tags", Type: "[]string"},
				},
				Methods: []Method{
					{GoName: "Heal", Name: "heal", Pointer: true, Func: "func(*Character, int)"},
					{GoName: "IsAlive", Name: "alive", Func: "func(Character) bool"},
				},
			},
			{
				GoName:   "Point",
				External: true,
				Fields: []Field{
					{GoName: "X", Name: "x", Type: "float64"},
					{GoName: "Y", Name: "y", Type: "float64"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_External(t *testing.T) {
	fset, files, pkg := check(t, gameSrc)
	got, err := Collect(fset, files, pkg, true)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, ty := range got.Types {
		if !ty.External {
			t.Errorf("%s not external", ty.GoName)
		}
	}
}

func TestCollect_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "not a struct", src: "//mirror:reflect\ntype ID int\n"},
		{name: "alias", src: "type S struct{}\n\n//mirror:reflect\ntype A = S\n"},
		{name: "generic", src: "//mirror:reflect\ntype Box[T any] struct{ V T }\n"},
		{name: "missing method", src: "//mirror:reflect\n//mirror:method Run\ntype S struct{}\n"},
		{name: "unexported method", src: "//mirror:reflect\n//mirror:method run\ntype S struct{}\n\nfunc (S) run() {}\n"},
		{
			name: "promoted method",
			src:  "type E struct{}\n\nfunc (E) Run() {}\n\n//mirror:reflect\n//mirror:method Run\ntype S struct{ E }\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset, files, pkg := check(t, "package p\n\n"+tt.src)
			_, err := Collect(fset, files, pkg, false)
			if !errors.Is(err, ErrUnsupported) {
				t.Fatalf("err = %v, want ErrUnsupported", err)
			}
		})
	}
}

func TestFuncType_Variadic(t *testing.T) {
	_, _, pkg := check(t, gameSrc)
	obj := pkg.Scope().Lookup("Character").(*types.TypeName)
	ms := types.NewMethodSet(obj.Type())
	sel := ms.Lookup(pkg, "Log")
	if sel == nil {
		t.Fatal("Log not found")
	}
	sig := sel.Obj().(*types.Func).Type().(*types.Signature)
	q := newQualifier(pkg, map[string]string{})
	if got, want := funcType("Character", false, sig, q), "func(Character, string, ...any)"; got != want {
		t.Errorf("funcType = %q, want %q", got, want)
	}
}

func TestQualifier_Clash(t *testing.T) {
	self := types.NewPackage("example.com/p", "p")
	q := newQualifier(self, map[string]string{})

	if got := q.qualify(self); got != "" {
		t.Errorf("self = %q", got)
	}
	if got := q.qualify(types.NewPackage("example.com/other/field", "field")); got != "field2" {
		t.Errorf("clash with generated import = %q, want field2", got)
	}
	if got := q.qualify(types.NewPackage("dirpx.dev/mirror/field", "field")); got != "field" {
		t.Errorf("own package = %q, want field", got)
	}
	a := q.qualify(types.NewPackage("example.com/a/util", "util"))
	b := q.qualify(types.NewPackage("example.com/b/util", "util"))
	if a != "util" || b != "util2" {
		t.Errorf("util clash = %q, %q", a, b)
	}
	if again := q.qualify(types.NewPackage("example.com/b/util", "util")); again != "util2" {
		t.Errorf("repeat = %q", again)
	}
}

func TestRender(t *testing.T) {
	fset, files, pkg := check(t, gameSrc)
	model, err := Collect(fset, files, pkg, false)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	src, err := Render(model, FileName(model))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(src)

	for _, want := range []string{
		"// Code generated by mirrorgen. DO NOT EDIT.",
		"package game",
		`"dirpx.dev/mirror/typeinfo"`,
		`"time"`,
		"HP      field.Field[Character, int]",
		"Born    field.Field[Character, time.Time]",
		`HP:      field.New("hp", func(v *Character) *int { return &v.HP })`,
		`MaxMana: field.New("mana", func(v *Character) *float64 { return &v.MaxMana })`,
		"Heal    method.Method[Character, func(*Character, int)]",
		`Heal:    method.New[Character]("heal", (*Character).Heal)`,
		`IsAlive: method.New[Character]("alive", Character.IsAlive)`,
		`WithName("reflected_character")`,
		"WithField(CharacterFields.HP)",
		"WithMethod(CharacterMethods.IsAlive)",
		"func (Character) MirrorType() apis.TypeInfo { return CharacterType }",
		"func init() { mirror.MustRegister(PointType) }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"Secret", "internal", "PointMethods", "Plain", `field "dirpx.dev`, `mirror "dirpx.dev`} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output contains %q", unwanted)
		}
	}

	if _, err := parser.ParseFile(token.NewFileSet(), "game_mirror.go", src, 0); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, out)
	}
}

func TestRender_PrunesUnusedImports(t *testing.T) {
	model := &Package{
		Name: "p",
		Types: []Type{{
			GoName: "Empty",
			Fields: nil,
		}},
	}
	src, err := Render(model, "p_mirror.go")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(src)
	for _, unwanted := range []string{`"dirpx.dev/mirror/method"`, `"dirpx.dev/mirror/field"`, `mirror "dirpx.dev/mirror"`} {
		if strings.Contains(out, unwanted) {
			t.Errorf("unused import %s kept\n%s", unwanted, out)
		}
	}
	if strings.Contains(out, "WithName") {
		t.Errorf("unexpected WithName\n%s", out)
	}
}

func TestRender_ImportAliases(t *testing.T) {
	model := &Package{
		Name: "p",
		Imports: map[string]string{
			"example.com/other/field": "field2",
			"example.com/util":        "util",
		},
		Types: []Type{{
			GoName: "S",
			Fields: []Field{
				{GoName: "A", Name: "a", Type: "field2.Thing"},
				{GoName: "B", Name: "b", Type: "util.Helper"},
			},
		}},
	}
	src, err := Render(model, "p_mirror.go")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(src)
	for _, want := range []string{
		`field2 "example.com/other/field"`,
		"\t\"example.com/util\"\n",
		"\t\"dirpx.dev/mirror/field\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `util "example.com/util"`) {
		t.Errorf("redundant alias\n%s", out)
	}
}
