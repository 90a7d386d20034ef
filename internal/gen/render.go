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
	"bytes"
	"path"
	"sort"
	"text/template"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// FileName is the default name of the generated file of pkg.
func FileName(pkg *Package) string {
	return pkg.Name + "_mirror.go"
}

type importSpec struct {
	Name string
	Path string
}

// Alias is the explicit import name, empty when the path implies it.
func (s importSpec) Alias() string {
	if path.Base(s.Path) == s.Name {
		return ""
	}
	return s.Name
}

type renderData struct {
	*Package
	Specs []importSpec
}

// generatedHeader opens every generated file.
const generatedHeader = "// Code generated by mirrorgen. DO NOT EDIT."

var tmpl = template.Must(template.New("mirror").Parse(generatedHeader + `

package {{.Name}}

import (
{{- range .Specs}}
	{{with .Alias}}{{.}} {{end}}"{{.Path}}"
{{- end}}
)
{{range $t := .Types}}
// {{$t.GoName}}Fields holds the field descriptors of {{$t.GoName}}.
var {{$t.GoName}}Fields = struct {
{{- range $t.Fields}}
	{{.GoName}} field.Field[{{$t.GoName}}, {{.Type}}]
{{- end}}
}{
{{- range $t.Fields}}
	{{.GoName}}: field.New({{printf "%q" .Name}}, func(v *{{$t.GoName}}) *{{.Type}} { return &v.{{.GoName}} }),
{{- end}}
}
{{if $t.Methods}}
// {{$t.GoName}}Methods holds the method descriptors of {{$t.GoName}}.
var {{$t.GoName}}Methods = struct {
{{- range $t.Methods}}
	{{.GoName}} method.Method[{{$t.GoName}}, {{.Func}}]
{{- end}}
}{
{{- range $t.Methods}}
	{{.GoName}}: method.New[{{$t.GoName}}]({{printf "%q" .Name}}, {{if .Pointer}}(*{{$t.GoName}}){{else}}{{$t.GoName}}{{end}}.{{.GoName}}),
{{- end}}
}
{{end}}
// {{$t.GoName}}Type is the type descriptor of {{$t.GoName}}.
var {{$t.GoName}}Type = typeinfo.New[{{$t.GoName}}](){{if $t.Name}}.
	WithName({{printf "%q" $t.Name}}){{end}}
{{- range $t.Fields}}.
	WithField({{$t.GoName}}Fields.{{.GoName}})
{{- end}}
{{- range $t.Methods}}.
	WithMethod({{$t.GoName}}Methods.{{.GoName}})
{{- end}}.
	Result()
{{if $t.External}}
func init() { mirror.MustRegister({{$t.GoName}}Type) }
{{else}}
// MirrorType implements apis.Provider.
func ({{$t.GoName}}) MirrorType() apis.TypeInfo { return {{$t.GoName}}Type }
{{end}}
{{- end}}
`))

// Render returns the formatted source of the descriptor file of pkg.
// filename is only used in error messages and import resolution.
func Render(pkg *Package, filename string) ([]byte, error) {
	data := renderData{Package: pkg}
	for n, p := range reserved {
		data.Specs = append(data.Specs, importSpec{Name: n, Path: p})
	}
	for p, n := range pkg.Imports {
		if reserved[n] == p {
			continue
		}
		data.Specs = append(data.Specs, importSpec{Name: n, Path: p})
	}
	sort.Slice(data.Specs, func(i, j int) bool { return data.Specs[i].Path < data.Specs[j].Path })

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "mirror(gen): execute template")
	}
	src, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "mirror(gen): format\n%s", buf.Bytes())
	}
	return src, nil
}
