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
	"io"
)

// streamBufSize is the size of the Stream emit buffer.
// The buffer is the only per-stream allocation; the
// cross-call state is otherwise just the two state
// machine booleans.
const streamBufSize = 8 << 10

// Stream is the bounded-memory minifier front end.
//
// Feed input slices with Write; minified output is forwarded
// to W whenever the internal buffer fills. Call Close (or Flush)
// after the last Write to push any buffered output to the sink.
// Input slices may be split at arbitrary byte boundaries,
// including inside string literals and escape sequences; the
// output does not depend on the boundary placement.
//
// Errors returned by W are sticky: once the sink fails, every
// subsequent call returns the same error.
type Stream struct {
	// W is the output sink. All output bytes are written to W.
	// Stream never closes W.
	W io.Writer

	st  state
	buf []byte
	err error
}

// NewStream returns a Stream writing minified output to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{W: w}
}

// Write feeds the next input slice through the minifier.
// It implements io.Writer; the returned count is the number
// of input bytes consumed, which on success is always len(p).
func (s *Stream) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.buf == nil {
		s.buf = make([]byte, 0, streamBufSize)
	}
	off := 0
	for off < len(p) {
		free := cap(s.buf) - len(s.buf)
		if free == 0 {
			if err := s.flush(); err != nil {
				return off, err
			}
			continue
		}
		take := len(p) - off
		if take > free {
			take = free
		}
		// the state machine emits at most one output byte per
		// input byte, so take bytes always fit in free space
		n, _ := s.st.run(s.buf[:cap(s.buf)], len(s.buf), p[off:off+take])
		s.buf = s.buf[:n]
		off += take
	}
	return off, nil
}

func (s *Stream) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if _, err := s.W.Write(s.buf); err != nil {
		s.err = err
		return err
	}
	s.buf = s.buf[:0]
	return nil
}

// Flush forces any buffered output to W.
func (s *Stream) Flush() error {
	if s.err != nil {
		return s.err
	}
	return s.flush()
}

// Close flushes any buffered output and marks end-of-input.
// Close does not close W. Writes after Close fail.
func (s *Stream) Close() error {
	if s.err != nil {
		return s.err
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.err = errClosed
	return nil
}
