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
)

// cutpoints snaps the nominal chunk boundaries of a ChunkPlan to
// offsets that are provably outside any string literal, so every
// worker can start its chunk in the initial machine state.
//
// The probe walks src visiting only quote and backslash positions
// (everything in between is skipped with IndexByte). A nominal
// boundary that lands inside a string literal is moved forward to
// the first offset past its closing quote; several boundaries
// inside one long literal collapse into one, shrinking the chunk
// count. If the input ends inside a literal, no offset past its
// opening quote is safe and the remainder becomes one chunk.
//
// The returned offsets start with 0 and end with len(src); they
// are strictly increasing.
func cutpoints(src []byte, chunkSize, chunks int) []int {
	cuts := make([]int, 1, chunks+1)
	target := chunkSize
	i := 0 // everything before i has been classified; state at i is outside
	for target < len(src) && len(cuts) < chunks {
		j := bytes.IndexByte(src[i:], '"')
		if j < 0 {
			// no string literal remains: the grid is safe as-is
			for target < len(src) && len(cuts) < chunks {
				cuts = appendCut(cuts, target)
				target += chunkSize
			}
			break
		}
		open := i + j
		// boundaries up to and including the opening quote
		// are outside the literal
		for target <= open && len(cuts) < chunks {
			cuts = appendCut(cuts, target)
			target += chunkSize
		}
		var st state
		st.inString = true
		n := stringEnd(src[open+1:], &st)
		if st.inString || st.escaped {
			// unterminated literal: nothing past open is safe
			break
		}
		i = open + 1 + n
		// boundaries that fell inside the literal snap to its end
		for target < i && len(cuts) < chunks {
			cuts = appendCut(cuts, i)
			target += chunkSize
		}
	}
	if cuts[len(cuts)-1] != len(src) {
		cuts = append(cuts, len(src))
	}
	return cuts
}

// appendCut appends off to cuts unless it duplicates the
// previous cut.
func appendCut(cuts []int, off int) []int {
	if cuts[len(cuts)-1] == off {
		return cuts
	}
	return append(cuts, off)
}
