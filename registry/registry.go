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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
	uref "dirpx.dev/mirror/utils/reflect"
)

var (
	// ErrNilTypeInfo is returned when a nil descriptor is provided.
	ErrNilTypeInfo = errors.New("mirror(registry): nil type descriptor provided")
	// ErrNotNamed is returned when a descriptor describes a pointer or an
	// anonymous type instead of a named declaring type.
	ErrNotNamed = errors.New("mirror(registry): descriptor type is not a named declaring type")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different descriptor.
	ErrConflictingRegistration = errors.New("mirror(registry): conflicting type registration")
)

// New constructs a Registry that normalizes lookup types according to cfg.
// Only MaxUnwrap is used here (Ambiguity is a resolver concern).
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to the registered descriptor.
	m sync.Map // map[reflect.Type]apis.TypeInfo
	// count tracks the number of registered entries.
	count int
}

// Register associates info with the type it describes.
// It is idempotent for the same (type, descriptor) pair.
func (r *registry) Register(info apis.TypeInfo) error {
	// Validate inputs early.
	if info == nil {
		return ErrNilTypeInfo
	}
	t := info.GoType()
	if t == nil {
		return ErrNilTypeInfo
	}

	// Descriptors are declared on the named type itself, never on *T.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil || b != t {
		return ErrNotNamed
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeInfo) == info {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeInfo) == info {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(b, info)
	r.count++
	return nil
}

// Lookup returns the descriptor for t (or for the type t points to).
func (r *registry) Lookup(t reflect.Type) (apis.TypeInfo, bool) {
	if t == nil {
		return nil, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(apis.TypeInfo), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Info: value.(apis.TypeInfo),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
