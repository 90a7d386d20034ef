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

// Package is the generator input for one Go package.
type Package struct {
	Name string
	Path string
	// Dir is where the output file is written.
	Dir   string
	Types []Type
	// Imports maps import paths to the names field types refer to them by.
	Imports map[string]string
}

// Type is one reflected struct.
type Type struct {
	GoName   string
	Name     string
	External bool
	Fields   []Field
	Methods  []Method
}

// Field is one reflected field.
type Field struct {
	GoName string
	Name   string
	// Type is the Go source form of the field type, qualified for Package.
	Type string
}

// Method is one reflected method.
type Method struct {
	GoName string
	Name   string
	// Pointer is set for methods declared on *T.
	Pointer bool
	// Func is the Go source form of the method expression type.
	Func string
}
