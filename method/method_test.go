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

package method_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dirpx.dev/mirror/member"
	"dirpx.dev/mirror/method"
)

type pos2d struct {
	X, Y  int
	shown int
}

func (p *pos2d) Show() { p.shown++ }
func (p *pos2d) Move(dx, dy int) pos2d { p.X += dx; p.Y += dy; return *p }
func (p pos2d) Dist() int { return abs(p.X) + abs(p.Y) }
func (p pos2d) Join(sep string, parts ...string) string {
	return strings.Join(append([]string{sep}, parts...), sep)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

type other struct{}

func (other) Dist() int { return 0 }

var (
	show = method.New[pos2d]("show", (*pos2d).Show)
	move = method.New[pos2d]("move", (*pos2d).Move)
	dist = method.New[pos2d]("dist", pos2d.Dist)
	join = method.New[pos2d]("join", pos2d.Join)
)

func TestMethod_Metadata(t *testing.T) {
	if move.Name() != "move" {
		t.Fatalf("Name() = %q", move.Name())
	}
	if move.DeclaringType() != reflect.TypeOf(pos2d{}) {
		t.Fatalf("DeclaringType() = %v", move.DeclaringType())
	}
	if move.ReturnType() != reflect.TypeOf(pos2d{}) {
		t.Fatalf("ReturnType() = %v", move.ReturnType())
	}
	if show.ReturnType() != nil || len(show.Returns()) != 0 {
		t.Fatalf("show returns: %v", show.Returns())
	}
	if !move.PointerReceiver() || dist.PointerReceiver() {
		t.Fatal("PointerReceiver mismatch")
	}
	if move.FuncType() != reflect.TypeOf((*pos2d).Move) {
		t.Fatalf("FuncType() = %v", move.FuncType())
	}
	intT := reflect.TypeOf(0)
	if diff := cmp.Diff([]reflect.Type{intT, intT}, move.Params(), cmp.Comparer(func(a, b reflect.Type) bool { return a == b })); diff != "" {
		t.Fatalf("Params (-want +got):\n%s", diff)
	}
}

func TestMethod_FuncIsDirectCall(t *testing.T) {
	p := pos2d{X: 1, Y: 1}
	got := move.Func()(&p, 2, 3)
	if got != (pos2d{X: 3, Y: 4}) || p.X != 3 || p.Y != 4 {
		t.Fatalf("Func()(...) = %+v, p = %+v", got, p)
	}
}

func TestMethod_InvokeMatchesDirectCall(t *testing.T) {
	direct := pos2d{X: 1, Y: -2}
	viaDesc := direct

	want := direct.Move(4, 5)
	res, err := move.Invoke(&viaDesc, 4, 5)
	if err != nil {
		t.Fatalf("Invoke(move): %v", err)
	}
	if len(res) != 1 || res[0] != want {
		t.Fatalf("Invoke(move) = %v, want [%v]", res, want)
	}
	if viaDesc != direct {
		t.Fatalf("side effects differ: %+v vs %+v", viaDesc, direct)
	}

	if _, err := show.Invoke(&viaDesc); err != nil || viaDesc.shown != 1 {
		t.Fatalf("Invoke(show) = %v, shown=%d", err, viaDesc.shown)
	}

	res, err = dist.Invoke(&viaDesc)
	if err != nil || res[0] != direct.Dist() {
		t.Fatalf("Invoke(dist) = (%v,%v)", res, err)
	}
}

func TestMethod_InvokeValue(t *testing.T) {
	p := pos2d{X: 3, Y: 4}
	res, err := dist.InvokeValue(p)
	if err != nil || res[0] != 7 {
		t.Fatalf("InvokeValue(dist) = (%v,%v)", res, err)
	}
	if _, err := show.InvokeValue(p); !errors.Is(err, method.ErrMutableReceiver) {
		t.Fatalf("InvokeValue(show): want ErrMutableReceiver, got %v", err)
	}
}

func TestMethod_Call(t *testing.T) {
	p := pos2d{}
	if _, err := show.Call(&p); err != nil || p.shown != 1 {
		t.Fatalf("Call(&p) = %v, shown=%d", err, p.shown)
	}
	if res, err := dist.Call(pos2d{X: -2}); err != nil || res[0] != 2 {
		t.Fatalf("Call(p) = (%v,%v)", res, err)
	}
	if _, err := dist.Call(other{}); !errors.Is(err, method.ErrInstance) {
		t.Fatalf("Call(other): want ErrInstance, got %v", err)
	}
}

func TestMethod_Variadic(t *testing.T) {
	p := pos2d{}
	res, err := join.Invoke(&p, "-", "a", "b")
	if err != nil || res[0] != p.Join("-", "a", "b") {
		t.Fatalf("Invoke(join) = (%v,%v)", res, err)
	}
	res, err = join.Invoke(&p, "-")
	if err != nil || res[0] != p.Join("-") {
		t.Fatalf("Invoke(join, sep only) = (%v,%v)", res, err)
	}
	if _, err := join.Invoke(&p); !errors.Is(err, method.ErrArity) {
		t.Fatalf("Invoke(join) no args: want ErrArity, got %v", err)
	}
}

func TestMethod_ArgumentErrors(t *testing.T) {
	p := pos2d{}
	if _, err := move.Invoke(&p, 1); !errors.Is(err, method.ErrArity) {
		t.Fatalf("want ErrArity, got %v", err)
	}
	if _, err := move.Invoke(&p, 1, "2"); !errors.Is(err, method.ErrArgType) {
		t.Fatalf("want ErrArgType, got %v", err)
	}
	if _, err := move.Invoke(nil, 1, 2); !errors.Is(err, method.ErrInstance) {
		t.Fatalf("want ErrInstance, got %v", err)
	}
	if p != (pos2d{}) {
		t.Fatalf("failed invocations must not touch the receiver: %+v", p)
	}
}

func TestMake_Errors(t *testing.T) {
	if _, err := method.Make[pos2d]("", pos2d.Dist); !errors.Is(err, method.ErrEmptyName) {
		t.Fatalf("empty name: got %v", err)
	}
	if _, err := method.Make[pos2d]("dist", other.Dist); !errors.Is(err, member.ErrReceiverMismatch) {
		t.Fatalf("foreign receiver: got %v", err)
	}
	if _, err := method.Make[pos2d]("n", 42); !errors.Is(err, member.ErrNotMember) {
		t.Fatalf("not a method: got %v", err)
	}
	var nilFn func(pos2d) int
	if _, err := method.Make[pos2d]("dist", nilFn); !errors.Is(err, method.ErrNilFunc) {
		t.Fatalf("nil expression: got %v", err)
	}
}

func TestList(t *testing.T) {
	l := method.NewList[pos2d](show, move).With(dist)
	if l.Len() != 3 {
		t.Fatalf("Len() = %d", l.Len())
	}

	m, err := method.Of[func(pos2d) int](l, "dist")
	if err != nil {
		t.Fatalf("Of(dist): %v", err)
	}
	if m.Func()(pos2d{X: 1, Y: 1}) != 2 {
		t.Fatal("Of(dist).Func() returned the wrong expression")
	}
	if _, err := method.Of[func(pos2d) int](l, "area"); !errors.Is(err, method.ErrMethodNotFound) {
		t.Fatalf("Of(area): want ErrMethodNotFound, got %v", err)
	}
	if _, err := method.Of[func(*pos2d)](l, "dist"); !errors.Is(err, method.ErrMethodType) {
		t.Fatalf("Of(dist) wrong signature: want ErrMethodType, got %v", err)
	}
}
