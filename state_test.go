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
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/builder"
	"dirpx.dev/mirror/config"
	"dirpx.dev/mirror/registry"
)

// resetWithBuilder replaces the snapshot with one built by b.
// Pins are reset because nil reg/res are passed.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config) {
	tb.Helper()
	SetAll(&cfg, nil, nil, b)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, registry.New(def), nil, builder.New())
		UnpinRegistry()
	})
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]apis.TypeInfo
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]apis.TypeInfo)}
}

func (m *mockRegistry) Register(info apis.TypeInfo) error {
	m.mu.Lock()
	m.data[info.GoType()] = info
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(t reflect.Type) (apis.TypeInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.data[t]
	return info, ok
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, info := range m.data {
		out = append(out, apis.Entry{Type: t, Info: info})
	}
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() { m.mu.Lock(); m.data = make(map[reflect.Type]apis.TypeInfo); m.mu.Unlock() }

type mockResolver struct {
	id       string
	mu       sync.Mutex
	resolveC int
	lastCfg  apis.Config
}

func (r *mockResolver) Resolve(_ reflect.Type, cfg apis.Config) (apis.Resolution, error) {
	r.mu.Lock()
	r.resolveC++
	r.lastCfg = cfg
	r.mu.Unlock()
	return apis.Resolution{}, nil
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	returnFixedReg apis.Registry // optional override
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

// nilBuilder builds nothing.
type nilBuilder struct{}

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry) apis.Registry { return nil }
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver) apis.Resolver { return nil }

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	s1Reg := Registry()
	s1Res := Resolver()

	// change cfg -> both should rebuild (not pinned)
	SetConfig(config.NewConfig(config.WithAmbiguity(apis.AmbiguityPreferRegistry), config.WithMaxUnwrap(4)))

	if Registry() == s1Reg {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if Resolver() == s1Res {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg, prevReg, prevRes := b.lastCfg, b.lastPrevRegID, b.lastPrevResID
	b.mu.Unlock()
	if gotCfg.MaxUnwrap != 4 || gotCfg.Ambiguity != apis.AmbiguityPreferRegistry {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prevReg != "reg#1" || prevRes != "res#1" {
		t.Fatalf("builder did not see previous layers: reg=%q res=%q", prevReg, prevRes)
	}
	if Config() != gotCfg {
		t.Fatalf("Config() = %+v, want %+v", Config(), gotCfg)
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatal("SetRegistry did not pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(config.NewConfig(config.WithMaxUnwrap(2)))

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}

	SetRegistry(nil) // ignored
	if Registry() != customReg {
		t.Fatalf("SetRegistry(nil) replaced the registry")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	if !IsResolverPinned() {
		t.Fatal("SetResolver did not pin the resolver")
	}

	regBefore := Registry()

	// Change cfg -> expect: registry rebuilt (not pinned), resolver unchanged (pinned)
	SetConfig(config.NewConfig(config.WithMaxUnwrap(3)))

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}

	// The global accessors go through the pinned resolver with the current cfg.
	_ = ClassifyType(reflect.TypeOf(0))
	customRes.mu.Lock()
	calls, cfg := customRes.resolveC, customRes.lastCfg
	customRes.mu.Unlock()
	if calls != 1 || cfg.MaxUnwrap != 3 {
		t.Fatalf("resolver calls=%d cfg=%+v, want 1 call with MaxUnwrap=3", calls, cfg)
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, config.DefaultConfig())

	// Pin resolver, leave registry unpinned
	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Builder() != b {
		t.Fatal("Builder() did not return the new builder")
	}
	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.regCounter != 1 || b.resCounter != 0 {
		t.Fatalf("new builder counters reg=%d res=%d, want 1/0", b.regCounter, b.resCounter)
	}
}

func TestSetAll_PinsExplicitLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	reg := newMockRegistry("explicit")
	cfg := config.NewConfig(config.WithMaxUnwrap(5))
	SetAll(&cfg, reg, nil, nil)

	if Registry() != reg || !IsRegistryPinned() {
		t.Fatal("explicit registry must be installed and pinned")
	}
	if IsResolverPinned() {
		t.Fatal("resolver must stay unpinned")
	}
	if Builder() != b {
		t.Fatal("nil builder must keep the current one")
	}
	if Config().MaxUnwrap != 5 {
		t.Fatalf("Config().MaxUnwrap = %d, want 5", Config().MaxUnwrap)
	}

	// nil layers unpin again
	SetAll(nil, nil, nil, nil)
	if IsRegistryPinned() || Registry() == reg {
		t.Fatal("SetAll with nil registry must rebuild and unpin")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	PinRegistry()
	PinResolver()

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(config.NewConfig(config.WithMaxUnwrap(4)))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	SetConfig(config.NewConfig(config.WithMaxUnwrap(6)))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestNilBuildPanics(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, config.DefaultConfig())
	before := st.Load()

	defer func() {
		if r := recover(); r != ErrNilRegistry {
			t.Fatalf("recover() = %v, want ErrNilRegistry", r)
		}
		if st.Load() != before {
			t.Fatal("a failed rebuild must not publish a snapshot")
		}
	}()
	SetBuilder(nilBuilder{})
}

func TestResolve_Concurrent_With_SetConfig(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig())

	type token struct{}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = Classify[token]()
				_, _ = Resolve(reflect.TypeOf(&token{}))
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(
				config.WithAmbiguity(apis.AmbiguityPolicy(i%3)),
				config.WithMaxUnwrap(4+(i%5)),
			))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
