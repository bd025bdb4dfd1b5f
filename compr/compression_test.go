// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package compr

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"key": "value", "n": 12345}`+"\n", 1000))
	for _, name := range []string{"", "zstd", "s2", "gzip"} {
		t.Run("alg="+name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, name)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			r, err := NewReader(&buf, name)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(payload), len(got))
			}
		})
	}
}

func TestDetectPath(t *testing.T) {
	cases := map[string]string{
		"data.json":      "",
		"data.json.zst":  "zstd",
		"data.json.zstd": "zstd",
		"data.json.s2":   "s2",
		"data.json.gz":   "gzip",
	}
	for path, want := range cases {
		if got := DetectPath(path); got != want {
			t.Errorf("DetectPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestUnsupported(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil), "lz4"); err == nil {
		t.Error("expected error for unsupported reader algorithm")
	}
	if _, err := NewWriter(io.Discard, "lz4"); err == nil {
		t.Error("expected error for unsupported writer algorithm")
	}
}
