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
	"encoding/json"
	"errors"
)

// Mode selects a performance envelope for MinifyMode.
type Mode int

const (
	// ModeEco is single-threaded and memory-bounded (streaming).
	ModeEco Mode = iota
	// ModeSport is the balanced default: vectorized or scalar
	// depending on the input size.
	ModeSport
	// ModeTurbo additionally enables parallel execution when
	// the input is large enough to make it profitable.
	ModeTurbo
)

func (m Mode) String() string {
	switch m {
	case ModeEco:
		return "eco"
	case ModeSport:
		return "sport"
	case ModeTurbo:
		return "turbo"
	default:
		return "invalid"
	}
}

// ParseMode converts a mode name ("eco", "sport", "turbo")
// to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "eco":
		return ModeEco, nil
	case "sport":
		return ModeSport, nil
	case "turbo":
		return ModeTurbo, nil
	default:
		return 0, ErrInvalidMode
	}
}

// Error codes used at the library boundary; see ErrorCode.
const (
	CodeOK          = 0
	CodeInvalidJSON = -1
	CodeOutOfMemory = -2
	CodeInvalidMode = -3
	CodeInternal    = -99
)

// ErrorCode maps err to the boundary error code taxonomy.
// A nil err maps to CodeOK.
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidJSON):
		return CodeInvalidJSON
	case errors.Is(err, ErrOutputTooSmall), errors.Is(err, ErrInputTooLarge):
		return CodeOutOfMemory
	case errors.Is(err, ErrInvalidMode):
		return CodeInvalidMode
	default:
		return CodeInternal
	}
}

const version = "1.0.0"

// Version returns the library version string.
func Version() string { return version }

// outputSlack is the headroom EstimateOutputSize adds on top of
// the input length.
const outputSlack = 64

// EstimateOutputSize returns a buffer size guaranteed to hold
// the minified form of an n-byte input. Minification never
// enlarges its input, so n plus a little slack always suffices.
func EstimateOutputSize(n int) int { return n + outputSlack }

// Minify minifies src into a freshly allocated buffer using the
// balanced (sport) mode.
func Minify(src []byte) ([]byte, error) {
	return MinifyMode(src, ModeSport)
}

// MinifyMode minifies src into a freshly allocated buffer using
// the given performance mode.
func MinifyMode(src []byte, mode Mode) ([]byte, error) {
	var cfg Config
	switch mode {
	case ModeEco:
		cfg.Strategy = StrategyStream
		cfg.Workers = 1
	case ModeSport:
		cfg.Workers = 1 // automatic, minus parallelism
	case ModeTurbo:
		// fully automatic
	default:
		return nil, ErrInvalidMode
	}
	dst := make([]byte, len(src))
	res, err := New().Minify(dst, src, &cfg)
	if err != nil {
		return nil, err
	}
	return dst[:res.Bytes], nil
}

// Validate reports whether src is well-formed JSON. It is a
// structural acceptance check only; it produces no diagnostics.
func Validate(src []byte) error {
	if !json.Valid(src) {
		return ErrInvalidJSON
	}
	return nil
}
