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

package apis

import (
	"reflect"
)

// Resolver locates the type descriptor applicable to a type, regardless of
// whether it was declared intrusively or through a Registry.
type Resolver interface {
	// Resolve classifies t and returns its descriptor. Unreflected types
	// yield a Resolution with Kind == Unreflected and a nil error.
	// An error is returned only when a descriptor exists but cannot be
	// used (ambiguity under AmbiguityReject, mismatched Go type).
	Resolve(t reflect.Type, cfg Config) (Resolution, error)
}

// Resolution is the outcome of resolving a type.
type Resolution struct {
	// Kind tells which association path produced Info.
	Kind Kind
	// Info is the resolved descriptor; nil when Kind is Unreflected.
	Info TypeInfo
}
