// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package minjson

import (
	"bytes"
	"errors"
	"testing"

	"github.com/SnellerInc/minjson/cpuinfo"
)

var testCaps = cpuinfo.Report{
	Cores:     8,
	SIMD:      cpuinfo.SIMD512,
	Memory:    8 << 30,
	NUMANodes: 1,
}

func TestPickAuto(t *testing.T) {
	d := &Dispatcher{caps: testCaps}
	cases := []struct {
		name string
		n    int
		cfg  Config
		want Strategy
	}{
		{"tiny input is scalar", 1 << 10, Config{}, StrategyScalar},
		{"mid input is vectorized", 1 << 20, Config{}, StrategyVector},
		{"mid input without simd is scalar", 1 << 20, Config{DisableSIMD: true}, StrategyScalar},
		{"large input is parallel", 64 << 20, Config{}, StrategyParallel},
		{"large input with one worker is vectorized", 64 << 20, Config{Workers: 1}, StrategyVector},
		{"over budget is streamed", 1 << 20, Config{MaxMemory: 1 << 10}, StrategyStream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.pick(tc.n, &tc.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("pick(%d) = %s, want %s", tc.n, got, tc.want)
			}
		})
	}
	// a single-core host without SIMD always falls back to scalar
	d1 := &Dispatcher{caps: cpuinfo.Report{Cores: 1, SIMD: cpuinfo.SIMDNone, Memory: 1 << 30, NUMANodes: 1}}
	got, err := d1.pick(64<<20, &Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got != StrategyScalar {
		t.Errorf("pick on 1-core scalar host = %s", got)
	}
}

func TestPickExplicit(t *testing.T) {
	d := &Dispatcher{caps: testCaps}
	noSIMD := &Dispatcher{caps: cpuinfo.Report{Cores: 8, SIMD: cpuinfo.SIMDNone, Memory: 1 << 30, NUMANodes: 1}}
	oneCore := &Dispatcher{caps: cpuinfo.Report{Cores: 1, SIMD: cpuinfo.SIMD256, Memory: 1 << 30, NUMANodes: 1}}

	if _, err := noSIMD.pick(1<<20, &Config{Strategy: StrategyVector}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("vector without SIMD: %v", err)
	}
	if _, err := d.pick(1<<20, &Config{Strategy: StrategyVector, DisableSIMD: true}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("vector with SIMD disabled: %v", err)
	}
	if _, err := oneCore.pick(1<<20, &Config{Strategy: StrategyParallel}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("parallel on one core: %v", err)
	}
	if _, err := oneCore.pick(1<<20, &Config{Strategy: StrategyParallel, Workers: 4}); err != nil {
		t.Errorf("parallel with explicit workers: %v", err)
	}
	if _, err := d.pick(1<<20, &Config{Strategy: Strategy(99)}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("bogus strategy: %v", err)
	}
	if _, err := d.pick(1<<20, &Config{Strategy: StrategyScalar, MaxMemory: 1 << 10}); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("explicit scalar over budget: %v", err)
	}
	if _, err := d.pick(1<<20, &Config{Strategy: StrategyStream, MaxMemory: 1 << 10}); err != nil {
		t.Errorf("explicit stream over budget should work: %v", err)
	}
}

func TestDispatcherStrategies(t *testing.T) {
	src := genJSON(50, 2<<20)
	want := mustScalar(t, src)
	d := New()
	for _, strat := range []Strategy{StrategyScalar, StrategyVector, StrategyParallel, StrategyStream} {
		t.Run(strat.String(), func(t *testing.T) {
			cfg := &Config{Strategy: strat, Fingerprint: true}
			if strat == StrategyVector && d.Capabilities().SIMD == cpuinfo.SIMDNone {
				t.Skip("no SIMD on this host")
			}
			if strat == StrategyParallel && d.Capabilities().Cores < 2 {
				t.Skip("single core host")
			}
			dst := make([]byte, len(src))
			res, err := d.Minify(dst, src, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(dst[:res.Bytes], want) {
				t.Fatal("output differs from scalar reference")
			}
			if res.Strategy != strat {
				t.Errorf("Result.Strategy = %s, want %s", res.Strategy, strat)
			}
			if res.Fingerprint != Fingerprint(want) {
				t.Errorf("fingerprint mismatch")
			}
			if res.Elapsed < 0 {
				t.Errorf("Elapsed = %s", res.Elapsed)
			}
		})
	}
}

func TestDispatcherErrorResult(t *testing.T) {
	src := genJSON(51, 1<<16)
	want := mustScalar(t, src)
	d := New()
	short := make([]byte, len(want)-1)
	res, err := d.Minify(short, src, &Config{Strategy: StrategyScalar})
	if !errors.Is(err, ErrOutputTooSmall) {
		t.Fatalf("got %v, want ErrOutputTooSmall", err)
	}
	// on error, the reported length is zero
	if res.Bytes != 0 {
		t.Errorf("Result.Bytes = %d on error", res.Bytes)
	}
}

func TestDispatcherEmptyInput(t *testing.T) {
	d := New()
	res, err := d.Minify(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bytes != 0 {
		t.Errorf("Bytes = %d for empty input", res.Bytes)
	}
}

func TestCapabilitiesCached(t *testing.T) {
	d := New()
	if d.Capabilities() != d.Capabilities() {
		t.Error("capability report not stable")
	}
}
