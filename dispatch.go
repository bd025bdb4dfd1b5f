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
	"time"

	"github.com/SnellerInc/minjson/cpuinfo"
)

// Strategy selects a minification core.
type Strategy uint8

const (
	// StrategyAuto lets the dispatcher pick from the input
	// size and the host capabilities.
	StrategyAuto Strategy = iota
	// StrategyScalar forces the byte-by-byte reference core.
	StrategyScalar
	// StrategyVector forces the vectorized core.
	StrategyVector
	// StrategyParallel forces chunked multi-core execution.
	StrategyParallel
	// StrategyStream forces the bounded-memory streaming core.
	StrategyStream
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyScalar:
		return "scalar"
	case StrategyVector:
		return "vector"
	case StrategyParallel:
		return "parallel"
	case StrategyStream:
		return "stream"
	default:
		return "invalid"
	}
}

// Config holds caller preferences for a minification call.
// The zero value selects automatic strategy, no memory budget,
// all cores, and SIMD enabled. A Config is read-only during
// the call.
type Config struct {
	// Strategy pins the execution strategy;
	// StrategyAuto (the default) lets the dispatcher choose.
	Strategy Strategy
	// MaxMemory bounds the working memory in bytes. Inputs
	// larger than the budget are processed with the streaming
	// strategy (automatic selection) or rejected with
	// ErrInputTooLarge (explicit selection). Zero means
	// no budget.
	MaxMemory int64
	// Workers overrides the parallel worker count.
	// Zero means "all usable cores"; one disables parallelism.
	Workers int
	// DisableSIMD forces the scalar core wherever the
	// dispatcher would pick the vectorized core (automatic
	// selection and parallel chunks); an explicit
	// StrategyVector then fails with ErrUnavailable.
	DisableSIMD bool
	// ChunkSize overrides the adaptive chunk size for
	// parallel execution.
	ChunkSize int
	// Fingerprint records a 64-bit output digest in the
	// Result (see Fingerprint).
	Fingerprint bool
}

// Result describes a completed minification.
type Result struct {
	// Bytes is the number of output bytes written.
	Bytes int
	// Strategy is the strategy that ran.
	Strategy Strategy
	// Elapsed is the wall time of the call.
	Elapsed time.Duration
	// PeakMemory is the peak bookkeeping memory allocated by
	// the call (chunk buffers, stream buffer); it does not
	// include the caller's input and output buffers.
	PeakMemory int64
	// Fingerprint is the output digest, if requested.
	Fingerprint uint64
}

// Dispatcher selects and invokes a minification strategy.
// Constructing a Dispatcher probes the host capabilities once;
// the report is cached for the dispatcher's lifetime.
type Dispatcher struct {
	caps cpuinfo.Report
}

// New returns a Dispatcher bound to the host's capability report.
func New() *Dispatcher {
	return &Dispatcher{caps: cpuinfo.Probe()}
}

// Capabilities returns the dispatcher's cached capability report.
func (d *Dispatcher) Capabilities() cpuinfo.Report { return d.caps }

// width returns the vector block width to use under cfg,
// or zero when only the scalar core may run.
func (d *Dispatcher) width(cfg *Config) int {
	if cfg.DisableSIMD {
		return 0
	}
	return d.caps.SIMD.Width()
}

// pick resolves the strategy for an n-byte input.
func (d *Dispatcher) pick(n int, cfg *Config) (Strategy, error) {
	if cfg.Strategy != StrategyAuto {
		if cfg.Strategy > StrategyStream {
			return cfg.Strategy, ErrInvalidMode
		}
		if cfg.Strategy != StrategyStream &&
			cfg.MaxMemory > 0 && int64(n) > cfg.MaxMemory {
			return cfg.Strategy, ErrInputTooLarge
		}
		switch cfg.Strategy {
		case StrategyVector:
			if d.width(cfg) == 0 {
				return cfg.Strategy, ErrUnavailable
			}
		case StrategyParallel:
			if d.caps.Cores < 2 && cfg.Workers <= 1 {
				return cfg.Strategy, ErrUnavailable
			}
		}
		return cfg.Strategy, nil
	}
	switch {
	case cfg.MaxMemory > 0 && cfg.MaxMemory < int64(n):
		return StrategyStream, nil
	case n < smallInput:
		return StrategyScalar, nil
	case n < largeInput:
		if d.width(cfg) > 0 {
			return StrategyVector, nil
		}
		return StrategyScalar, nil
	case d.caps.Cores >= 2 && cfg.Workers != 1:
		return StrategyParallel, nil
	case d.width(cfg) > 0:
		return StrategyVector, nil
	default:
		return StrategyScalar, nil
	}
}

// Minify minifies src into dst under cfg and reports what ran.
// dst is owned by the caller; a dst with len(dst) >= len(src)
// always suffices. A nil cfg selects the zero-value Config.
//
// On error, the reported Result.Bytes is zero; dst is left with
// whatever bytes were written before the error.
func (d *Dispatcher) Minify(dst, src []byte, cfg *Config) (Result, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	start := time.Now()
	strat, err := d.pick(len(src), cfg)
	if err != nil {
		return Result{Strategy: strat}, err
	}
	var n int
	var peak int64
	switch strat {
	case StrategyScalar:
		n, err = minifyScalar(dst, src)
	case StrategyVector:
		n, err = minifyVector(dst, src, d.width(cfg))
	case StrategyParallel:
		plan := chunkPlan(len(src), cfg.Workers, cfg.ChunkSize, &d.caps)
		if plan.Chunks <= 1 {
			n, err = d.single(dst, src, cfg)
		} else {
			n, peak, err = minifyParallel(dst, src, plan, d.width(cfg))
		}
	case StrategyStream:
		sw := sliceWriter{dst: dst}
		st := NewStream(&sw)
		if _, err = st.Write(src); err == nil {
			err = st.Close()
		}
		n = sw.n
		peak = streamBufSize
	}
	res := Result{
		Strategy:   strat,
		Elapsed:    time.Since(start),
		PeakMemory: peak,
	}
	if err != nil {
		return res, err
	}
	res.Bytes = n
	if cfg.Fingerprint {
		res.Fingerprint = Fingerprint(dst[:n])
	}
	return res, nil
}

// single runs the best single-threaded core for cfg.
func (d *Dispatcher) single(dst, src []byte, cfg *Config) (int, error) {
	if w := d.width(cfg); w > 0 {
		return minifyVector(dst, src, w)
	}
	return minifyScalar(dst, src)
}

// sliceWriter adapts a fixed-size byte slice to the Stream sink
// interface; it fails with ErrOutputTooSmall once full.
type sliceWriter struct {
	dst []byte
	n   int
}

func (s *sliceWriter) Write(p []byte) (int, error) {
	k := copy(s.dst[s.n:], p)
	s.n += k
	if k < len(p) {
		return k, ErrOutputTooSmall
	}
	return k, nil
}
