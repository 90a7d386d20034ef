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

package name

// Name is an immutable member or type name. It is meant to be declared as a
// constant so that names participate in compile-time checks:
//
//	const HP name.Name = "hp"
//
// Equality compares lengths first; names of different lengths are never
// equal and their contents are not inspected.
type Name string

// Len returns the number of bytes in n.
func (n Name) Len() int { return len(n) }

// At returns the byte at index i. Out-of-range indices panic like any
// other string index.
func (n Name) At(i int) byte { return n[i] }

// Equal reports whether n and o hold the same bytes.
func (n Name) Equal(o Name) bool {
	if len(n) != len(o) {
		return false
	}
	for i := 0; i < len(n); i++ {
		if n[i] != o[i] {
			return false
		}
	}
	return true
}

// EqualString compares n against a raw string literal with the same rules as Equal.
func (n Name) EqualString(s string) bool { return n.Equal(Name(s)) }

// IsZero reports whether n is empty. Type descriptors default to the empty name.
func (n Name) IsZero() bool { return len(n) == 0 }

// String returns n as a plain string for display.
func (n Name) String() string { return string(n) }
