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

// Package cpuinfo probes the capabilities of the host:
// logical core count, the widest usable SIMD register width,
// available memory, and the NUMA node count.
// The probe runs once per process; the resulting Report
// is immutable.
package cpuinfo

import (
	"runtime"
	"sync"

	"github.com/SnellerInc/minjson/cgroup"
)

// SIMD is the widest vector width
// usable on the host CPU.
type SIMD uint8

const (
	// SIMDNone means no usable vector unit;
	// all processing is scalar.
	SIMDNone SIMD = iota
	// SIMD128 means 128-bit vectors (SSE2, NEON).
	SIMD128
	// SIMD256 means 256-bit vectors (AVX2).
	SIMD256
	// SIMD512 means 512-bit vectors (AVX-512).
	SIMD512
)

// Width returns the vector width in bytes,
// or zero for SIMDNone.
func (s SIMD) Width() int {
	switch s {
	case SIMD128:
		return 16
	case SIMD256:
		return 32
	case SIMD512:
		return 64
	default:
		return 0
	}
}

func (s SIMD) String() string {
	switch s {
	case SIMD128:
		return "simd128"
	case SIMD256:
		return "simd256"
	case SIMD512:
		return "simd512"
	default:
		return "scalar"
	}
}

// Report is a snapshot of the machine's capabilities.
// A Report never changes after construction.
type Report struct {
	// Cores is the number of logical cores usable
	// by this process, taking any cgroup CPU
	// bandwidth limit into account. Always >= 1.
	Cores int
	// SIMD is the widest usable vector width.
	SIMD SIMD
	// Memory is the amount of memory (in bytes) that
	// the process can reasonably allocate, taking any
	// cgroup memory limit into account.
	Memory int64
	// NUMANodes is the number of NUMA memory nodes
	// on the host. Always >= 1.
	NUMANodes int
}

var (
	once   sync.Once
	cached Report
)

// Probe returns the capability Report for the host.
// The underlying probe runs once per process and the
// result is cached.
func Probe() Report {
	once.Do(func() {
		cached = probe()
	})
	return cached
}

func probe() Report {
	r := Report{
		Cores:     runtime.NumCPU(),
		SIMD:      simdLevel(),
		Memory:    availableMemory(),
		NUMANodes: numaNodes(),
	}
	if r.Cores < 1 {
		r.Cores = 1
	}
	if r.NUMANodes < 1 {
		r.NUMANodes = 1
	}
	// clamp to the cgroup limits, if we are in
	// a bandwidth- or memory-limited cgroup
	if d, err := cgroup.Self(); err == nil {
		if cpus, err := d.CPUMax(); err == nil && cpus > 0 && cpus < r.Cores {
			r.Cores = cpus
		}
		if mem, err := d.MemoryMax(); err == nil && mem > 0 && mem < r.Memory {
			r.Memory = mem
		}
	}
	return r
}

// conservative default when no memory
// information is available at all
const defaultMemory = 1 << 30
