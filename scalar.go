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

// whitespace marks the four bytes that are elided
// outside string literals.
var whitespace = [256]bool{
	' ':  true,
	'\t': true,
	'\n': true,
	'\r': true,
}

// state is the cursor of the minifier state machine.
// The zero value is the initial state (outside any string).
//
// The flags change only by the machine's transitions: state.run
// implements all of them, and stringEnd implements the in-string
// ones for the vectorized core and the boundary probe.
type state struct {
	inString bool // between an opening '"' and its unescaped closing '"'
	escaped  bool // the previous in-string byte was an unescaped '\'
}

// run feeds src through the state machine, writing emitted bytes
// to dst starting at offset n, and returns the new offset.
// When an emit would overflow dst, run returns ErrOutputTooSmall;
// the output written so far remains valid.
func (st *state) run(dst []byte, n int, src []byte) (int, error) {
	for i := 0; i < len(src); i++ {
		b := src[i]
		if st.inString {
			if n == len(dst) {
				return n, ErrOutputTooSmall
			}
			dst[n] = b
			n++
			if st.escaped {
				st.escaped = false
			} else if b == '\\' {
				st.escaped = true
			} else if b == '"' {
				st.inString = false
			}
			continue
		}
		if whitespace[b] {
			continue
		}
		if n == len(dst) {
			return n, ErrOutputTooSmall
		}
		dst[n] = b
		n++
		if b == '"' {
			st.inString = true
		}
	}
	return n, nil
}

// minifyScalar is the semantic reference: it minifies src into dst
// byte-by-byte and returns the number of bytes written. Every other
// strategy must produce byte-identical output.
func minifyScalar(dst, src []byte) (int, error) {
	var st state
	return st.run(dst, 0, src)
}
