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

package mirror

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/builder"
	"dirpx.dev/mirror/config"
)

// init publishes the default snapshot.
func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	st.Store(&state{
		cfg: cfg,
		reg: reg,
		res: b.BuildResolver(cfg, reg, nil),
		bld: b,
	})
}

var (
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("mirror: builder returned nil registry")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mirror: builder returned nil resolver")
)

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global mirror state.
var st atomic.Pointer[state]

// state is the global snapshot.
// Immutable once published via st.Store; writers build a new state and
// swap it atomically.
type state struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	// preg indicates whether the registry is pinned (kept across rebuilds).
	preg bool
	// pres indicates whether the resolver is pinned (kept across rebuilds).
	pres bool
}

// rebuild returns a copy of s with the non-pinned layers rebuilt by s.bld.
// Callers hold buildMu.
func (s state) rebuild() *state {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, s.reg)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, s.res)
	}
	// Ensure non-nil reg and res.
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	return &s
}

// update applies fn to a copy of the current state and publishes the result.
func update(fn func(s *state) *state) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	st.Store(fn(&next))
}

// SetAll explicitly sets all global state components.
//
// Nil cfg or bld leave the current ones in place. A registry or resolver
// given explicitly is pinned; a nil one is unpinned and rebuilt with the
// (possibly new) builder.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(s *state) *state {
		if cfg != nil {
			s.cfg = *cfg
		}
		if bld != nil {
			s.bld = bld
		}
		s.preg, s.pres = reg != nil, res != nil
		if reg != nil {
			s.reg = reg
		}
		if res != nil {
			s.res = res
		}
		return s.rebuild()
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds the non-pinned
// registry and resolver with it.
func SetConfig(cfg apis.Config) {
	update(func(s *state) *state {
		s.cfg = cfg
		return s.rebuild()
	})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global registry, rebuilding the
// resolver around it unless the resolver is pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) *state {
		s.reg, s.preg = reg, true
		return s.rebuild()
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(s *state) *state {
		s.res, s.pres = res, true
		return s
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the non-pinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) *state {
		s.bld = b
		return s.rebuild()
	})
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry keeps the current registry across rebuilds.
func PinRegistry() {
	update(func(s *state) *state {
		s.preg = true
		return s
	})
}

// UnpinRegistry lets the next rebuild replace the registry again.
func UnpinRegistry() {
	update(func(s *state) *state {
		s.preg = false
		return s
	})
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver keeps the current resolver across rebuilds.
func PinResolver() {
	update(func(s *state) *state {
		s.pres = true
		return s
	})
}

// UnpinResolver lets the next rebuild replace the resolver again.
func UnpinResolver() {
	update(func(s *state) *state {
		s.pres = false
		return s
	})
}
