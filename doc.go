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

// Package mirror provides typed, declared reflection for Go structs.
//
// Go's reflect package sees every exported field and method of every type.
// mirror is the opposite: only the members an author lists in a type
// descriptor are visible, each under a chosen name, and every descriptor is
// fully typed. Generic code (formatters, serializers, editors) walks the
// descriptors; application code keeps direct, checked access through them.
//
// # Declaring
//
// A descriptor is built once, usually as a package-level variable:
//
//	const CharacterHP name.Name = "hp"
//
//	var characterType = typeinfo.New[Character]().
//		WithName("reflected_character").
//		WithField(field.New(CharacterHP, func(c *Character) *float32 { return &c.HP })).
//		WithMethod(method.New[Character]("heal", (*Character).Heal)).
//		Result()
//
// It is associated with its type in one of two ways:
//
//   - Intrusively: the type implements apis.Provider on its value receiver.
//
//     func (Character) MirrorType() apis.TypeInfo { return characterType }
//
//   - Non-intrusively, for types the author cannot modify:
//
//     var _ = mirror.MustRegister(point3DType)
//
// A type declared both ways is Ambiguous. By default it is refused
// (resolver.ErrAmbiguous); Config.Ambiguity can prefer either side.
// The mirrorgen command writes these declarations from
// //mirror:reflect comments.
//
// # Using
//
// Classify and Reflected tell generic code whether a type can be walked.
// TypeOf, TypeName, FieldCount, MethodCount, ForEachField and ForEachMethod
// read the descriptor; Get, Ref, Set and Invoke access members by name and
// return wrapped sentinel errors (field.ErrFieldNotFound,
// method.ErrArity, ...) that callers match with errors.Is.
//
//	hp, err := mirror.Get[float32](&c, CharacterHP)
//	out, err := mirror.Invoke(&c, "heal", 10)
//
// Name-keyed access can only fail at run time. Code that wants the lookup
// settled at compile time uses the descriptor values directly (or the
// identifiers mirrorgen generates): CharacterFields.HP.Ref(&c) is a plain
// pointer dereference.
//
// # Design
//
// Resolution goes through a read-mostly global snapshot holding:
//
//   - Config: the ambiguity policy and the pointer unwrapping limit.
//   - Registry: the non-intrusive associations, keyed by reflect.Type.
//   - Resolver: runs the intrusive and registry strategies and classifies
//     the type.
//   - Builder: constructs Registry and Resolver for a Config, migrating
//     registered descriptors from the previous registry.
//
// Readers load the snapshot atomically and never lock. Writers (SetConfig,
// SetBuilder, SetRegistry, SetResolver, SetAll) take a short build mutex,
// assemble a new snapshot and swap it in.
//
// # Pinning
//
// SetRegistry and SetResolver install a layer and pin it: later SetConfig
// or SetBuilder calls rebuild only unpinned layers. UnpinRegistry and
// UnpinResolver release them. SetAll is the hard reset used by tests.
package mirror
