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

package display

import (
	"strings"

	"github.com/fatih/color"
)

// ColorAttr names the parts of a rendered value that can be colored.
type ColorAttr int

const (
	TypeNameColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
	NilColor
)

// Colors maps attributes to formatting functions.
type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

// NewColors returns the default palette. Colors are forced on: whether to
// color at all is decided by the Printer, not by the terminal.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			TypeNameColor: sprint(color.New(color.FgHiBlue, color.Bold)),
			FieldColor:    sprint(color.RGB(196, 96, 16)),
			ValueColor:    sprint(color.RGB(128, 216, 236)),
			SepColor:      sprint(color.RGB(96, 96, 96)),
			NilColor:      sprint(color.New(color.FgMagenta)),
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func sprint(c *color.Color) func(string, ...any) string {
	c.EnableColor()
	return c.SprintfFunc()
}

func colorDefault(v string, _ ...any) string { return v }

// Color renders s with the function for a.
func (c *Colors) Color(a ColorAttr, s string) string {
	return c.Get(a)(s)
}

// Get returns the function for a, or Default.
func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	f := c.Map[a]
	if f == nil {
		return c.Default
	}
	return f
}
