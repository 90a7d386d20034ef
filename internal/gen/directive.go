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

// Package gen writes type descriptor declarations for annotated structs.
//
// Directives are line comments in the doc comment of a type:
//
//	//mirror:reflect [display_name]
//	//mirror:method GoName [display_name]
//	//mirror:external
//
// reflect marks the struct; its exported, non-embedded fields are reflected
// under the snake_case form of their Go name unless a `mirror:"name"` tag
// renames them or `mirror:"-"` skips them. Each method line adds one method.
// external registers the descriptor from an init function instead of
// declaring MirrorType on the type.
package gen

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/pkg/errors"
)

const directivePrefix = "//mirror:"

// ErrDirective is returned for malformed directives.
var ErrDirective = errors.New("mirror(gen): malformed directive")

// Directive is the parsed directive block of one type.
type Directive struct {
	// Reflect is set when the block holds //mirror:reflect.
	Reflect bool
	// Name is the display name; empty leaves the descriptor unnamed.
	Name string
	// Methods lists //mirror:method lines in order.
	Methods []MethodDirective
	// External is set by //mirror:external.
	External bool
	Pos      token.Position
}

// MethodDirective is one //mirror:method line.
type MethodDirective struct {
	GoName string
	Name   string
	Pos    token.Position
}

// ParseDirective reads the directives of a doc comment. A nil group or one
// without directives yields a zero Directive.
func ParseDirective(fset *token.FileSet, doc *ast.CommentGroup) (Directive, error) {
	var d Directive
	if doc == nil {
		return d, nil
	}
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		pos := fset.Position(c.Pos())
		parts := strings.Fields(strings.TrimPrefix(c.Text, directivePrefix))
		if len(parts) == 0 {
			return d, errors.Wrapf(ErrDirective, "%s: empty directive", pos)
		}
		switch parts[0] {
		case "reflect":
			if d.Reflect {
				return d, errors.Wrapf(ErrDirective, "%s: duplicate //mirror:reflect", pos)
			}
			if len(parts) > 2 {
				return d, errors.Wrapf(ErrDirective, "%s: //mirror:reflect takes at most one name", pos)
			}
			d.Reflect, d.Pos = true, pos
			if len(parts) == 2 {
				d.Name = parts[1]
			}
		case "method":
			if len(parts) < 2 || len(parts) > 3 {
				return d, errors.Wrapf(ErrDirective, "%s: want //mirror:method GoName [name]", pos)
			}
			m := MethodDirective{GoName: parts[1], Pos: pos}
			if len(parts) == 3 {
				m.Name = parts[2]
			}
			d.Methods = append(d.Methods, m)
		case "external":
			d.External = true
		default:
			return d, errors.Wrapf(ErrDirective, "%s: unknown directive //mirror:%s", pos, parts[0])
		}
	}
	if !d.Reflect && (len(d.Methods) > 0 || d.External) {
		return d, errors.Wrapf(ErrDirective, "%s: //mirror:method and //mirror:external need //mirror:reflect", fset.Position(doc.Pos()))
	}
	return d, nil
}
