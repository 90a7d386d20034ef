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

package strategy

import (
	"reflect"
	"sync"

	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

// NewIntrusiveStrategy creates an apis.Strategy that detects types carrying
// their own descriptor (apis.Provider on the value receiver).
func NewIntrusiveStrategy() apis.Strategy {
	return intrusiveStrategy{}
}

// intrusiveStrategy answers from the type alone: MirrorType is called on the
// zero value, so it must not depend on receiver state.
type intrusiveStrategy struct{}

// Ensure intrusiveStrategy implements apis.Strategy.
var _ apis.Strategy = (*intrusiveStrategy)(nil)

var providerType = reflect.TypeFor[apis.Provider]()

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// cached is a memoized answer, misses included.
type cached struct {
	info apis.TypeInfo
	ok   bool
}

// providerCache caches intrusive descriptors by (type, config knobs).
var providerCache sync.Map // key: cacheKey, val: cached

// Kind reports apis.Intrusive.
func (intrusiveStrategy) Kind() apis.Kind { return apis.Intrusive }

// TryResolve returns the descriptor t (or the type t points to) declares.
func (intrusiveStrategy) TryResolve(t reflect.Type, cfg apis.Config) (apis.TypeInfo, bool) {
	if t == nil {
		return nil, false
	}
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if v, ok := providerCache.Load(key); ok {
		c := v.(cached)
		return c.info, c.ok
	}

	info, ok := provided(t, cfg)
	providerCache.Store(key, cached{info: info, ok: ok})
	return info, ok
}

// provided asks the zero value of t's declaring type for its descriptor.
func provided(t reflect.Type, cfg apis.Config) (apis.TypeInfo, bool) {
	base, err := uref.Normalize(t, cfg)
	if err != nil || base.Kind() == reflect.Interface {
		return nil, false
	}
	// Only the value receiver counts: a pointer-receiver MirrorType cannot be
	// answered for T values.
	if !base.Implements(providerType) {
		return nil, false
	}
	p, ok := reflect.Zero(base).Interface().(apis.Provider)
	if !ok {
		return nil, false
	}
	info := p.MirrorType()
	if info == nil {
		return nil, false
	}
	return info, true
}
