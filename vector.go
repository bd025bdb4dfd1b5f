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
	"encoding/binary"
)

// SWAR constants for byte-wise tests on 64-bit words.
const (
	wordLSB  = 0x0101010101010101
	wordMSB  = 0x8080808080808080
	quoteRep = wordLSB * '"'
)

// wordHasQuote reports whether any byte of w is '"'.
func wordHasQuote(w uint64) bool {
	x := w ^ quoteRep
	return (x-wordLSB) & ^x & wordMSB != 0
}

// blockHasQuote reports whether blk contains a '"' byte.
// len(blk) must be a multiple of 8.
func blockHasQuote(blk []byte) bool {
	for len(blk) >= 8 {
		if wordHasQuote(binary.LittleEndian.Uint64(blk)) {
			return true
		}
		blk = blk[8:]
	}
	return false
}

// compressBlock writes blk to dst[n:] with the four whitespace
// bytes removed and returns the new offset. blk is known to
// contain no quotes, so every byte is outside any string.
func compressBlock(dst []byte, n int, blk []byte) (int, error) {
	if len(dst)-n >= len(blk) {
		// unconditional store, conditional advance
		for _, b := range blk {
			dst[n] = b
			if !whitespace[b] {
				n++
			}
		}
		return n, nil
	}
	// not enough headroom for the worst case; emit guarded
	for _, b := range blk {
		if whitespace[b] {
			continue
		}
		if n == len(dst) {
			return n, ErrOutputTooSmall
		}
		dst[n] = b
		n++
	}
	return n, nil
}

// stringEnd returns the number of leading bytes of src that belong
// to the string literal the state machine is currently inside,
// including the closing quote if it is present, and updates st.
// All counted bytes are emitted verbatim by the caller.
func stringEnd(src []byte, st *state) int {
	i := 0
	if st.escaped {
		if len(src) == 0 {
			return 0
		}
		st.escaped = false
		i = 1
	}
	for i < len(src) {
		rest := src[i:]
		q := bytes.IndexByte(rest, '"')
		e := bytes.IndexByte(rest, '\\')
		if e >= 0 && (q < 0 || e < q) {
			if i+e+1 >= len(src) {
				// the escaping backslash is the last byte of src
				st.escaped = true
				return len(src)
			}
			i += e + 2
			continue
		}
		if q < 0 {
			// the literal continues past src
			return len(src)
		}
		st.inString = false
		return i + q + 1
	}
	return i
}

// minifyVector minifies src into dst using width-byte blocks on
// regions outside string literals. Blocks free of quotes take the
// fast path (whitespace compaction); in-string regions are copied
// verbatim up to the closing quote (see stringEnd); blocks
// containing a quote and the input tail fall back to the scalar
// state machine. The result is byte-identical to minifyScalar.
func minifyVector(dst, src []byte, width int) (int, error) {
	var st state
	var err error
	n := 0
	i := 0
	for i < len(src) {
		if st.inString || st.escaped {
			stop := stringEnd(src[i:], &st)
			lit := src[i : i+stop]
			if len(dst)-n < len(lit) {
				n += copy(dst[n:], lit)
				return n, ErrOutputTooSmall
			}
			n += copy(dst[n:], lit)
			i += stop
			continue
		}
		if len(src)-i < width {
			return st.run(dst, n, src[i:])
		}
		blk := src[i : i+width]
		if blockHasQuote(blk) {
			n, err = st.run(dst, n, blk)
		} else {
			n, err = compressBlock(dst, n, blk)
		}
		if err != nil {
			return n, err
		}
		i += width
	}
	return n, nil
}
