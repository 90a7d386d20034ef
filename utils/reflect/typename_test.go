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

package reflect_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	uref "dirpx.dev/mirror/utils/reflect"
)

type W[T any] struct{ V T }

func TestTypeName(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"named", reflect.TypeOf(A{}), "reflect_test.A"},
		{"generic strips params", reflect.TypeOf(G[int]{}), "reflect_test.G"},
		{"nested generic", reflect.TypeOf(W[G[int]]{}), "reflect_test.W"},
		{"builtin", reflect.TypeOf(0), "int"},
		{"pointer literal", reflect.TypeOf(&A{}), "*reflect_test.A"},
		{"anonymous", reflect.TypeOf(struct{ X int }{}), "struct { X int }"},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := uref.TypeName(tc.typ); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// This test stresses the memoization path under concurrency.
func TestTypeName_Concurrent(t *testing.T) {
	types := []reflect.Type{reflect.TypeOf(A{}), reflect.TypeOf(G[int]{}), reflect.TypeOf(0)}
	expect := []string{"reflect_test.A", "reflect_test.G", "int"}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				idx := i % len(types)
				if got := uref.TypeName(types[idx]); got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent TypeName mismatch: got=%q", e)
	}
}

func BenchmarkTypeName(b *testing.B) {
	types := []reflect.Type{reflect.TypeOf(A{}), reflect.TypeOf(G[int]{}), reflect.TypeOf(W[G[int]]{})}
	for _, t0 := range types {
		uref.TypeName(t0)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		uref.TypeName(types[i%len(types)])
	}
}
