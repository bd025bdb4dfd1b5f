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

// minjson is the command-line front end of the minifier:
// it reads JSON from a file or stdin, strips insignificant
// whitespace, and writes the result to a file or stdout.
// Compressed inputs (.zst, .s2, .gz) are decompressed
// transparently.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/minjson"
	"github.com/SnellerInc/minjson/compr"
)

var (
	dasho        string
	dashm        string
	dashz        string
	dashS        bool
	dashconfig   string
	printVersion bool
)

func init() {
	flag.StringVar(&dasho, "o", "", "file for output (default is stdout)")
	flag.StringVar(&dashm, "m", "sport", "performance mode: eco, sport or turbo")
	flag.StringVar(&dashz, "z", "", "compress the output: zstd, s2 or gzip")
	flag.BoolVar(&dashS, "S", false, "print execution statistics on stderr")
	flag.StringVar(&dashconfig, "config", "", "YAML configuration file")
	flag.BoolVar(&printVersion, "version", false, "print the version of the executable")
}

// fileConfig is the YAML definition-file form of minjson.Config.
type fileConfig struct {
	Mode        string `json:"mode,omitempty"`
	MaxMemory   int64  `json:"max-memory,omitempty"`
	Workers     int    `json:"workers,omitempty"`
	DisableSIMD bool   `json:"disable-simd,omitempty"`
	ChunkSize   int    `json:"chunk-size,omitempty"`
	Fingerprint bool   `json:"fingerprint,omitempty"`
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "minjson: "+f+"\n", args...)
	os.Exit(1)
}

func buildConfig() (*minjson.Config, minjson.Mode) {
	var fc fileConfig
	if dashconfig != "" {
		buf, err := os.ReadFile(dashconfig)
		if err != nil {
			exitf("%s", err)
		}
		if err := yaml.Unmarshal(buf, &fc); err != nil {
			exitf("parsing %s: %s", dashconfig, err)
		}
	}
	modename := dashm
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "m" {
			explicit = true
		}
	})
	if fc.Mode != "" && !explicit {
		modename = fc.Mode
	}
	mode, err := minjson.ParseMode(modename)
	if err != nil {
		exitf("unrecognized mode %q", modename)
	}
	cfg := &minjson.Config{
		MaxMemory:   fc.MaxMemory,
		Workers:     fc.Workers,
		DisableSIMD: fc.DisableSIMD,
		ChunkSize:   fc.ChunkSize,
		Fingerprint: fc.Fingerprint,
	}
	switch mode {
	case minjson.ModeEco:
		cfg.Strategy = minjson.StrategyStream
		cfg.Workers = 1
	case minjson.ModeSport:
		cfg.Workers = 1
	case minjson.ModeTurbo:
		// leave the worker count to the dispatcher
		// unless the config file pinned it
	}
	return cfg, mode
}

func readInput(args []string) []byte {
	var src io.Reader
	name := ""
	if len(args) == 0 || args[0] == "-" {
		src = os.Stdin
	} else {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			exitf("%s", err)
		}
		defer f.Close()
		src = f
	}
	r, err := compr.NewReader(src, compr.DetectPath(name))
	if err != nil {
		exitf("%s", err)
	}
	defer r.Close()
	buf, err := io.ReadAll(r)
	if err != nil {
		exitf("reading input: %s", err)
	}
	return buf
}

// writeOutput writes buf to dasho (atomically, via a temporary
// file plus rename) or to stdout, compressing if -z was given.
func writeOutput(buf []byte) {
	if dasho == "" {
		w, err := compr.NewWriter(os.Stdout, dashz)
		if err != nil {
			exitf("%s", err)
		}
		if _, err := w.Write(buf); err != nil {
			exitf("writing output: %s", err)
		}
		if err := w.Close(); err != nil {
			exitf("writing output: %s", err)
		}
		return
	}
	dir := filepath.Dir(dasho)
	tmp := filepath.Join(dir, "."+filepath.Base(dasho)+"."+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		exitf("%s", err)
	}
	w, err := compr.NewWriter(f, dashz)
	if err != nil {
		os.Remove(tmp)
		exitf("%s", err)
	}
	_, err = w.Write(buf)
	if err == nil {
		err = w.Close()
	}
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		os.Remove(tmp)
		exitf("writing %s: %s", dasho, err)
	}
	if err := os.Rename(tmp, dasho); err != nil {
		os.Remove(tmp)
		exitf("%s", err)
	}
}

func main() {
	flag.Parse()
	if printVersion {
		v := minjson.Version()
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
		fmt.Println("minjson", v)
		return
	}
	if flag.NArg() > 1 {
		exitf("expected at most one input file")
	}
	cfg, mode := buildConfig()
	src := readInput(flag.Args())
	dst := make([]byte, len(src))

	d := minjson.New()
	start := time.Now()
	res, err := d.Minify(dst, src, cfg)
	if err != nil {
		exitf("%s (code %d)", err, minjson.ErrorCode(err))
	}
	writeOutput(dst[:res.Bytes])

	if dashS {
		elapsed := time.Since(start)
		caps := d.Capabilities()
		fmt.Fprintf(os.Stderr, "mode:       %s\n", mode)
		fmt.Fprintf(os.Stderr, "strategy:   %s\n", res.Strategy)
		fmt.Fprintf(os.Stderr, "simd:       %s\n", caps.SIMD)
		fmt.Fprintf(os.Stderr, "in:         %d bytes\n", len(src))
		fmt.Fprintf(os.Stderr, "out:        %d bytes\n", res.Bytes)
		fmt.Fprintf(os.Stderr, "elapsed:    %s\n", elapsed)
		if secs := elapsed.Seconds(); secs > 0 {
			fmt.Fprintf(os.Stderr, "throughput: %.1f MiB/s\n", float64(len(src))/secs/(1<<20))
		}
		fmt.Fprintf(os.Stderr, "peak mem:   %d bytes\n", res.PeakMemory)
		if cfg.Fingerprint {
			fmt.Fprintf(os.Stderr, "digest:     %016x\n", res.Fingerprint)
		}
	}
}
