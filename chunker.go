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
	"github.com/SnellerInc/minjson/cpuinfo"
	"github.com/SnellerInc/minjson/ints"
)

const (
	// smallInput is the size below which splitting an input
	// (or vectorizing it) is never profitable.
	smallInput = 64 << 10
	// largeInput is the size above which parallel execution
	// beats single-threaded vectorized execution.
	largeInput = 10 << 20
	// minChunkSize keeps per-chunk working sets around the
	// L2-resident range; smaller chunks waste their dispatch
	// overhead.
	minChunkSize = 32 << 10
	// stealFactor is the number of chunks per worker the
	// chunker aims for, so that the work-stealing tail keeps
	// every worker busy.
	stealFactor = 4
)

// ChunkPlan describes how the parallel strategy partitions
// one input. A plan is scoped to a single call.
type ChunkPlan struct {
	// ChunkSize is the nominal size of each chunk; the final
	// chunk may be shorter, and chunk boundaries are adjusted
	// before dispatch so that none begins inside a string.
	ChunkSize int
	// Chunks is the nominal chunk count, ceil(n/ChunkSize).
	Chunks int
	// Workers is the effective worker count,
	// min(requested, Chunks).
	Workers int
}

// chunkPlan computes the partitioning of an n-byte input across
// at most reqWorkers workers. A zero reqWorkers means "all cores".
// A non-zero override pins the chunk size.
func chunkPlan(n, reqWorkers, override int, caps *cpuinfo.Report) ChunkPlan {
	if reqWorkers <= 0 {
		reqWorkers = caps.Cores
	}
	if n < smallInput || reqWorkers == 1 {
		return ChunkPlan{ChunkSize: n, Chunks: 1, Workers: 1}
	}
	c := override
	if c <= 0 {
		// aim for stealFactor chunks per worker...
		c = ints.Max(minChunkSize, n/(reqWorkers*stealFactor))
		// ...while keeping the chunk working set
		// within half of the available memory
		if budget := caps.Memory / 2 / int64(reqWorkers); budget > 0 && int64(c) > budget {
			c = int(budget)
		}
	}
	c = ints.Clamp(c, 1, n)
	k := ints.ChunkCount(n, c)
	return ChunkPlan{
		ChunkSize: c,
		Chunks:    k,
		Workers:   ints.Min(reqWorkers, k),
	}
}
