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
	"math/rand"
	"strconv"
	"testing"
)

// gen builds well-formed JSON with randomly
// interspersed structural whitespace.
type gen struct {
	rng *rand.Rand
	buf []byte
}

var wsbytes = []byte{' ', '\t', '\n', '\r'}

func (g *gen) ws() {
	for g.rng.Intn(3) == 0 {
		g.buf = append(g.buf, wsbytes[g.rng.Intn(len(wsbytes))])
	}
}

func (g *gen) str(maxlen int) {
	g.buf = append(g.buf, '"')
	n := g.rng.Intn(maxlen)
	for i := 0; i < n; i++ {
		switch g.rng.Intn(10) {
		case 0:
			g.buf = append(g.buf, '\\', '"')
		case 1:
			g.buf = append(g.buf, '\\', '\\')
		case 2:
			g.buf = append(g.buf, '\\', 't')
		case 3:
			g.buf = append(g.buf, '\\', 'u', '0', '0', '4', '1')
		case 4:
			g.buf = append(g.buf, ' ') // significant whitespace
		default:
			g.buf = append(g.buf, byte('a'+g.rng.Intn(26)))
		}
	}
	g.buf = append(g.buf, '"')
}

func (g *gen) value(depth int) {
	choice := g.rng.Intn(6)
	if depth > 5 && choice < 2 {
		choice += 2
	}
	switch choice {
	case 0: // object
		g.buf = append(g.buf, '{')
		g.ws()
		n := g.rng.Intn(4)
		for i := 0; i < n; i++ {
			if i > 0 {
				g.buf = append(g.buf, ',')
				g.ws()
			}
			g.str(12)
			g.ws()
			g.buf = append(g.buf, ':')
			g.ws()
			g.value(depth + 1)
			g.ws()
		}
		g.buf = append(g.buf, '}')
	case 1: // array
		g.buf = append(g.buf, '[')
		g.ws()
		n := g.rng.Intn(5)
		for i := 0; i < n; i++ {
			if i > 0 {
				g.buf = append(g.buf, ',')
				g.ws()
			}
			g.value(depth + 1)
			g.ws()
		}
		g.buf = append(g.buf, ']')
	case 2:
		g.str(40)
	case 3:
		g.buf = strconv.AppendInt(g.buf, g.rng.Int63n(1<<40)-(1<<39), 10)
	case 4:
		g.buf = strconv.AppendFloat(g.buf, g.rng.NormFloat64(), 'g', -1, 64)
	default:
		switch g.rng.Intn(3) {
		case 0:
			g.buf = append(g.buf, "true"...)
		case 1:
			g.buf = append(g.buf, "false"...)
		default:
			g.buf = append(g.buf, "null"...)
		}
	}
}

// genJSON produces at least n bytes of well-formed JSON
// (a top-level array of random values) with random
// structural whitespace, deterministically from seed.
func genJSON(seed int64, n int) []byte {
	g := &gen{rng: rand.New(rand.NewSource(seed))}
	g.buf = append(g.buf, '[')
	g.ws()
	first := true
	for len(g.buf) < n {
		if !first {
			g.buf = append(g.buf, ',')
			g.ws()
		}
		first = false
		g.value(0)
		g.ws()
	}
	g.buf = append(g.buf, ']')
	return g.buf
}

// mustScalar minifies src with the reference core,
// failing the test on error.
func mustScalar(t *testing.T, src []byte) []byte {
	t.Helper()
	dst := make([]byte, len(src))
	n, err := minifyScalar(dst, src)
	if err != nil {
		t.Fatalf("scalar minify: %s", err)
	}
	return dst[:n]
}
