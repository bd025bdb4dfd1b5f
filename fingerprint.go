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
	"github.com/dchest/siphash"
)

// fixed fingerprint keys; the digest is only meaningful for
// comparing outputs, not for authentication
const (
	fingerprintK0 = 0x6d696e6a736f6e00 // "minjson\0"
	fingerprintK1 = 0x0123456789abcdef
)

// Fingerprint returns a 64-bit siphash digest of b under fixed
// keys. Two outputs are byte-identical exactly when their
// fingerprints match (up to hash collisions), which makes it
// cheap to compare results across strategies, workers, or runs.
func Fingerprint(b []byte) uint64 {
	return siphash.Hash(fingerprintK0, fingerprintK1, b)
}
