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
	"bufio"
	"fmt"
	"os"
)

// availableMemory reads MemAvailable from /proc/meminfo,
// falling back to MemTotal on old kernels that don't
// provide it.
func availableMemory() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return defaultMemory
	}
	defer f.Close()
	var avail, total int64
	s := bufio.NewScanner(f)
	for s.Scan() {
		var v int64
		if n, _ := fmt.Sscanf(s.Text(), "MemAvailable: %d kB", &v); n == 1 {
			avail = v * 1024
		} else if n, _ := fmt.Sscanf(s.Text(), "MemTotal: %d kB", &v); n == 1 {
			total = v * 1024
		}
	}
	if avail > 0 {
		return avail
	}
	if total > 0 {
		return total
	}
	return defaultMemory
}

// numaNodes counts the memory nodes the kernel
// exposes under /sys/devices/system/node.
func numaNodes() int {
	ents, err := os.ReadDir("/sys/devices/system/node")
	if err != nil {
		return 1
	}
	n := 0
	for i := range ents {
		name := ents[i].Name()
		if len(name) > 4 && name[:4] == "node" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}
