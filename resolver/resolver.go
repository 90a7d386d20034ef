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

package resolver

import (
	"errors"
	"reflect"

	pkgerrors "github.com/pkg/errors"

	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

var (
	// ErrAmbiguous is returned for types reflected both intrusively and
	// through a registry while the ambiguity policy is AmbiguityReject.
	ErrAmbiguous = errors.New("mirror(resolver): type is reflected both intrusively and non-intrusively")
	// ErrTypeMismatch is returned when a descriptor describes another Go type
	// than the one it was found for.
	ErrTypeMismatch = errors.New("mirror(resolver): descriptor describes a different type")
)

// New constructs an apis.Resolver that consults the given strategies.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent TryResolve calls.
//
// Every strategy is consulted; when several strategies of the same Kind
// answer, the first one wins.
func New(strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	strats []apis.Strategy
}

// Resolve classifies t and returns its descriptor.
func (r chain) Resolve(t reflect.Type, cfg apis.Config) (apis.Resolution, error) {
	if t == nil {
		return apis.Resolution{}, nil
	}
	base, err := uref.Normalize(t, cfg)
	if err != nil {
		// Unnamed or too deep: nothing can describe it.
		return apis.Resolution{}, nil
	}

	var intrusive, external apis.TypeInfo
	for _, s := range r.strats {
		k := s.Kind()
		if (k == apis.Intrusive && intrusive != nil) || (k == apis.NonIntrusive && external != nil) {
			continue
		}
		info, ok := s.TryResolve(base, cfg)
		if !ok || info == nil {
			continue
		}
		switch k {
		case apis.Intrusive:
			intrusive = info
		case apis.NonIntrusive:
			external = info
		}
	}

	var res apis.Resolution
	switch {
	case intrusive == nil && external == nil:
		return res, nil
	case external == nil:
		res = apis.Resolution{Kind: apis.Intrusive, Info: intrusive}
	case intrusive == nil:
		res = apis.Resolution{Kind: apis.NonIntrusive, Info: external}
	default:
		res.Kind = apis.Ambiguous
		switch cfg.Ambiguity {
		case apis.AmbiguityPreferIntrusive:
			res.Info = intrusive
		case apis.AmbiguityPreferRegistry:
			res.Info = external
		default:
			return res, pkgerrors.Wrapf(ErrAmbiguous, "type %v", base)
		}
	}

	if got := res.Info.GoType(); got != base {
		return apis.Resolution{Kind: res.Kind}, pkgerrors.Wrapf(ErrTypeMismatch, "%s descriptor of %v describes %v", res.Kind, base, got)
	}
	return res, nil
}
