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
// ASIMD (NEON) is mandatory in AArch64, but cpu.ARM64 feature
// detection can fail on some kernels, so check anyway.
func simdLevel() SIMD {
	if !cpu.ARM64.HasASIMD {
		return SIMDNone
	}
	return SIMD128
}
