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

// Package compr provides a unified streaming interface wrapping
// third-party compression libraries.
package compr

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewReader wraps r with a decompressor for the named algorithm.
// The supported names are "zstd", "s2" and "gzip"; the empty
// name returns r unchanged. Closing the returned reader does
// not close r.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	switch name {
	case "":
		return nopCloser{r}, nil
	case "zstd":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case "s2":
		return nopCloser{s2.NewReader(r)}, nil
	case "gzip":
		return gzip.NewReader(r)
	default:
		return nil, fmt.Errorf("compr: unsupported compression %q", name)
	}
}

// NewWriter wraps w with a compressor for the named algorithm.
// The supported names are "zstd", "s2" and "gzip"; the empty
// name returns w unchanged. The returned writer must be closed
// to flush the compressed stream; closing it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	switch name {
	case "":
		return nopWriteCloser{w}, nil
	case "zstd":
		return zstd.NewWriter(w)
	case "s2":
		return s2.NewWriter(w), nil
	case "gzip":
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("compr: unsupported compression %q", name)
	}
}

// DetectPath guesses the compression algorithm from the suffix
// of path; it returns the empty string for plain files.
func DetectPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		return "zstd"
	case strings.HasSuffix(path, ".s2"):
		return "s2"
	case strings.HasSuffix(path, ".gz"):
		return "gzip"
	default:
		return ""
	}
}
