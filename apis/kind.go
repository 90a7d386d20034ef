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
	"fmt"
	"strings"
)

// Kind classifies how a type is reflected.
type Kind int

const (
	// Unreflected types carry no descriptor at all.
	Unreflected Kind = iota
	// Intrusive types implement Provider.
	Intrusive
	// NonIntrusive types are associated with a descriptor in a Registry.
	NonIntrusive
	// Ambiguous types are both Intrusive and NonIntrusive.
	Ambiguous
)

// String returns the human-readable name of k.
func (k Kind) String() string {
	switch k {
	case Unreflected:
		return "unreflected"
	case Intrusive:
		return "intrusive"
	case NonIntrusive:
		return "non-intrusive"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Reflected reports whether k names exactly one declaration path. It does
// not consult the ambiguity policy: an Ambiguous type is not Reflected here
// even when a prefer policy lets it resolve. Whether a descriptor is usable
// under the current policy is answered by resolution itself (see
// mirror.Reflected).
func (k Kind) Reflected() bool {
	return k == Intrusive || k == NonIntrusive
}

// AmbiguityPolicy decides the outcome for Ambiguous types.
type AmbiguityPolicy int

const (
	// AmbiguityReject makes resolution of an Ambiguous type fail.
	AmbiguityReject AmbiguityPolicy = iota
	// AmbiguityPreferIntrusive resolves to the type's own descriptor.
	AmbiguityPreferIntrusive
	// AmbiguityPreferRegistry resolves to the registered descriptor.
	AmbiguityPreferRegistry
)

// String returns the canonical name of p.
func (p AmbiguityPolicy) String() string {
	switch p {
	case AmbiguityReject:
		return "reject"
	case AmbiguityPreferIntrusive:
		return "intrusive"
	case AmbiguityPreferRegistry:
		return "registry"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseAmbiguity parses a policy name (case-insensitive, surrounding whitespace ignored).
func ParseAmbiguity(s string) (AmbiguityPolicy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return AmbiguityReject, fmt.Errorf("mirror: empty ambiguity policy")
	}

	switch strings.ToLower(trimmed) {
	case "reject":
		return AmbiguityReject, nil
	case "intrusive":
		return AmbiguityPreferIntrusive, nil
	case "registry":
		return AmbiguityPreferRegistry, nil
	default:
		return AmbiguityReject, fmt.Errorf("mirror: unknown ambiguity policy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p AmbiguityPolicy) MarshalText() ([]byte, error) {
	switch p {
	case AmbiguityReject, AmbiguityPreferIntrusive, AmbiguityPreferRegistry:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("mirror: cannot marshal unknown ambiguity policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *AmbiguityPolicy) UnmarshalText(text []byte) error {
	v, err := ParseAmbiguity(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
