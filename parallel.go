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
	"sync"
	"sync/atomic"
)

// chunkJob is one unit of parallel work. The job (and in
// particular its output buffer) is exclusively owned by the
// worker that claims it until the dispatcher joins.
type chunkJob struct {
	src []byte // input slice; never mutated
	dst []byte // private output buffer
	n   int    // result length, written by the owning worker
}

// dispenser coordinates the workers of one parallel call:
// a lock-free claim counter plus a shared error flag that
// short-circuits further chunk pickups.
type dispenser struct {
	next   atomic.Int64
	failed atomic.Bool
}

// claim returns the next unprocessed chunk index, or -1 when
// all chunks are claimed or a worker has failed.
func (d *dispenser) claim(jobs int) int {
	if d.failed.Load() {
		return -1
	}
	i := d.next.Add(1) - 1
	if i >= int64(jobs) {
		return -1
	}
	return int(i)
}

// minifyParallel splits src according to plan, minifies the chunks
// concurrently, and concatenates the per-chunk outputs into dst in
// chunk-index order. It returns the bytes written and the peak
// size of the temporary chunk buffers.
//
// A positive width selects the vectorized core for each chunk;
// zero selects the scalar core.
func minifyParallel(dst, src []byte, plan ChunkPlan, width int) (int, int64, error) {
	cuts := cutpoints(src, plan.ChunkSize, plan.Chunks)
	jobs := make([]chunkJob, len(cuts)-1)
	var peak int64
	for i := range jobs {
		lo, hi := cuts[i], cuts[i+1]
		jobs[i].src = src[lo:hi]
		jobs[i].dst = make([]byte, hi-lo)
		peak += int64(hi - lo)
	}
	workers := plan.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	d := new(dispenser)
	errs := make([]error, workers)
	badChunk := make([]int, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for {
				i := d.claim(len(jobs))
				if i < 0 {
					return
				}
				job := &jobs[i]
				var err error
				if width > 0 {
					job.n, err = minifyVector(job.dst, job.src, width)
				} else {
					job.n, err = minifyScalar(job.dst, job.src)
				}
				if err != nil {
					errs[w] = err
					badChunk[w] = i
					d.failed.Store(true)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if d.failed.Load() {
		// report the error from the earliest failing chunk
		first := -1
		for w := range errs {
			if errs[w] == nil {
				continue
			}
			if first < 0 || badChunk[w] < badChunk[first] {
				first = w
			}
		}
		return 0, peak, &ProcessingError{Chunk: badChunk[first], Err: errs[first]}
	}

	n := 0
	for i := range jobs {
		if len(dst)-n < jobs[i].n {
			n += copy(dst[n:], jobs[i].dst[:jobs[i].n])
			return n, peak, ErrOutputTooSmall
		}
		n += copy(dst[n:], jobs[i].dst[:jobs[i].n])
	}
	return n, peak, nil
}
