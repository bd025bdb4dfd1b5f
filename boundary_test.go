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
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

// outsideOffsets runs the reference state machine over src and
// returns whether each offset is outside any string literal.
func outsideOffsets(src []byte) []bool {
	outside := make([]bool, len(src)+1)
	inString, escaped := false, false
	for i, b := range src {
		outside[i] = !inString
		switch {
		case inString && escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case inString && b == '"':
			inString = false
		case !inString && b == '"':
			inString = true
		}
	}
	outside[len(src)] = !inString
	return outside
}

func checkCuts(t *testing.T, src []byte, cuts []int) {
	t.Helper()
	if len(cuts) < 2 || cuts[0] != 0 || cuts[len(cuts)-1] != len(src) {
		t.Fatalf("bad cut endpoints: %v (len(src)=%d)", cuts, len(src))
	}
	if !slices.IsSorted(cuts) {
		t.Fatalf("cuts not sorted: %v", cuts)
	}
	for i := 1; i < len(cuts); i++ {
		if cuts[i] == cuts[i-1] {
			t.Fatalf("duplicate cut at %d: %v", cuts[i], cuts)
		}
	}
	// every chunk start must be outside any string; the final
	// offset is only the end marker and may land anywhere
	// (an unterminated literal ends at end-of-input)
	outside := outsideOffsets(src)
	for _, c := range cuts[:len(cuts)-1] {
		if !outside[c] {
			t.Fatalf("cut %d falls inside a string literal", c)
		}
	}
}

func TestCutpoints(t *testing.T) {
	src := genJSON(30, 1<<20)
	plan := ChunkPlan{ChunkSize: 32 << 10}
	plan.Chunks = (len(src) + plan.ChunkSize - 1) / plan.ChunkSize
	cuts := cutpoints(src, plan.ChunkSize, plan.Chunks)
	checkCuts(t, src, cuts)
	if len(cuts) < plan.Chunks/2 {
		t.Errorf("suspiciously few cuts: %d for %d nominal chunks", len(cuts)-1, plan.Chunks)
	}
}

func TestCutpointsLongString(t *testing.T) {
	// one string literal spanning many nominal chunks: all the
	// boundaries inside it must collapse to its end
	long := `"` + strings.Repeat(`x`, 1<<18) + `"`
	src := []byte(`[ ` + long + ` , 1 , 2 ]`)
	cuts := cutpoints(src, 4<<10, (len(src)+(4<<10)-1)/(4<<10))
	checkCuts(t, src, cuts)
}

func TestCutpointsEscapes(t *testing.T) {
	// dense escaped quotes must not confuse the probe
	src := []byte(`[ "` + strings.Repeat(`\"\\`, 1<<14) + `" , " tail " ]`)
	cuts := cutpoints(src, 1<<10, (len(src)+(1<<10)-1)/(1<<10))
	checkCuts(t, src, cuts)
}

func TestCutpointsUnterminated(t *testing.T) {
	// an unterminated literal: nothing past its opening quote is
	// provably safe, so the remainder stays one chunk
	src := []byte(`[1,2,3, "never closed ` + strings.Repeat("x", 1<<16))
	cuts := cutpoints(src, 1<<10, 65)
	checkCuts(t, src, cuts)
}

func TestCutpointsNoStrings(t *testing.T) {
	src := []byte("[" + strings.Repeat("1, ", 1<<16) + "2]")
	k := (len(src) + (1 << 12) - 1) / (1 << 12)
	cuts := cutpoints(src, 1<<12, k)
	checkCuts(t, src, cuts)
	if len(cuts) != k+1 {
		t.Errorf("expected the full nominal grid (%d cuts), got %d", k+1, len(cuts))
	}
}
