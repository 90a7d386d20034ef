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

package codec

import (
	jsonpatch "github.com/evanphx/json-patch"
	pkgerrors "github.com/pkg/errors"
)

// MergePatch applies an RFC 7386 merge patch to the reflected value dst
// points to.
func MergePatch(dst any, patch []byte) error { return Codec{}.MergePatch(dst, patch) }

// ApplyPatch applies an RFC 6902 JSON patch to the reflected value dst
// points to.
func ApplyPatch(dst any, patch []byte) error { return Codec{}.ApplyPatch(dst, patch) }

// MergePatch applies an RFC 7386 merge patch to the reflected value dst
// points to. Keys the patch removes leave their fields unchanged, as in
// Decode.
func (c Codec) MergePatch(dst any, patch []byte) error {
	doc, err := c.MarshalJSON(dst)
	if err != nil {
		return err
	}
	out, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return pkgerrors.Wrap(err, "mirror(codec): merge patch")
	}
	return c.UnmarshalJSON(out, dst)
}

// ApplyPatch applies an RFC 6902 JSON patch to the reflected value dst
// points to. Paths use field names.
func (c Codec) ApplyPatch(dst any, patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return pkgerrors.Wrap(err, "mirror(codec): decode patch")
	}
	doc, err := c.MarshalJSON(dst)
	if err != nil {
		return err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return pkgerrors.Wrap(err, "mirror(codec): apply patch")
	}
	return c.UnmarshalJSON(out, dst)
}
