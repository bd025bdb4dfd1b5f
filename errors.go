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
	"errors"
	"fmt"
)

var (
	// ErrOutputTooSmall is returned when the caller-supplied
	// output buffer cannot hold the minified output. The buffer
	// is left with the bytes written up to the overflowing emit.
	ErrOutputTooSmall = errors.New("minjson: output buffer too small")

	// ErrInputTooLarge is returned when the input exceeds the
	// configured memory budget and the streaming strategy was
	// not selected.
	ErrInputTooLarge = errors.New("minjson: input exceeds memory budget")

	// ErrUnavailable is returned when an explicitly requested
	// strategy cannot run on this host (parallel execution on a
	// single core, or vectorized execution without SIMD).
	ErrUnavailable = errors.New("minjson: requested strategy unavailable")

	// ErrInvalidMode is returned for an unrecognized strategy
	// or mode selector.
	ErrInvalidMode = errors.New("minjson: invalid mode")

	// ErrInvalidJSON is returned by Validate for inputs that are
	// not well-formed JSON.
	ErrInvalidJSON = errors.New("minjson: invalid JSON")

	errClosed = errors.New("minjson: write to closed Stream")
)

// ProcessingError is returned when a parallel worker fails.
// It preserves the first observed underlying error.
type ProcessingError struct {
	Chunk int   // index of the failing chunk
	Err   error // underlying cause
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("minjson: processing chunk %d: %v", e.Chunk, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
