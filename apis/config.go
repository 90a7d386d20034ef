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

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Ambiguity decides what happens when a type carries an intrusive
	// descriptor and is also associated with one in the Registry.
	Ambiguity AmbiguityPolicy

	// MaxUnwrap limits pointer unwrapping when normalizing a type to its
	// declaring (named) type, e.g. **T -> T needs 2.
	MaxUnwrap int
}
