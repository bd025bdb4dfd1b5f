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

// Package minjson implements a high-throughput JSON minifier.
//
// Minification removes the whitespace bytes 0x20, 0x09, 0x0A and 0x0D
// everywhere outside string literals and preserves string literals
// byte-for-byte. The output of a minification is never larger than
// its input.
//
// The simplest entry points are Minify and MinifyMode, which pick an
// execution strategy automatically. Callers that minify repeatedly
// should construct a Dispatcher once (it probes and caches the host
// capabilities) and call Dispatcher.Minify with a caller-owned output
// buffer:
//
//	d := minjson.New()
//	dst := make([]byte, len(src))
//	res, err := d.Minify(dst, src, nil)
//
// Four strategies are available: scalar (the semantic reference),
// vectorized (block-at-a-time whitespace stripping on non-string
// regions), parallel (chunked execution across cores with work
// stealing), and streaming (bounded-memory operation against an
// io.Writer sink). All strategies produce byte-identical output.
//
// Correctness is only guaranteed for well-formed JSON; a malformed
// input may be rejected or may produce an undefined (but never
// larger than the input) output.
package minjson
