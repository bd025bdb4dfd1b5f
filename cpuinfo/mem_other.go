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

//go:build !linux

package cpuinfo

import (
	"github.com/pbnjay/memory"
)

// availableMemory asks the OS for the free memory; if that
// is not reported, it assumes half of the total physical
// memory is up for grabs.
func availableMemory() int64 {
	if free := memory.FreeMemory(); free > 0 {
		return int64(free)
	}
	if total := memory.TotalMemory(); total > 0 {
		return int64(total / 2)
	}
	return defaultMemory
}

// numaNodes returns 1; the NUMA topology is not
// exposed portably outside Linux.
func numaNodes() int { return 1 }
