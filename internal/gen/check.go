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

package gen

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// ErrStale is returned when a descriptor file is missing or out of date.
var ErrStale = errors.New("mirror(gen): descriptor file out of date")

// Diff compares the file on disk at o.Path with o.Src. It returns the changed
// lines prefixed with "-" (on disk) and "+" (generated), or "" when they
// match. A missing file diffs as empty.
func Diff(o Output) (string, error) {
	old, err := os.ReadFile(o.Path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "mirror(gen): read %s", o.Path)
	}
	if bytes.Equal(old, o.Src) {
		return "", nil
	}
	return lineDiff(string(old), string(o.Src)), nil
}

func lineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
