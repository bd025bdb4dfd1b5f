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

package cpuinfo

import (
	"golang.org/x/sys/cpu"
)

// simdLevel determines the current CPU's widest usable vector width.
func simdLevel() SIMD {
	if cpu.X86.HasAVX512F &&
		cpu.X86.HasAVX512BW &&
		cpu.X86.HasAVX512VL {
		return SIMD512
	}
	if cpu.X86.HasAVX2 {
		return SIMD256
	}
	// SSE2 is part of the amd64 baseline
	return SIMD128
}
