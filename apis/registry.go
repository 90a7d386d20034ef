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

import "reflect"

// Registry holds non-intrusive type descriptors: descriptors declared outside
// the type they describe, keyed by the described type.
type Registry interface {
	// Register associates info with info.GoType().
	// Implementations should be idempotent for the same descriptor and
	// reject a different descriptor for an already registered type.
	Register(info TypeInfo) error
	// Lookup returns the descriptor registered for t, if any.
	Lookup(t reflect.Type) (info TypeInfo, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, descriptor) association in a Registry snapshot.
type Entry struct {
	// Type is the registered (normalized) reflect.Type.
	Type reflect.Type
	// Info is the associated type descriptor.
	Info TypeInfo
}
