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

//go:build linux

// Package cgroup implements a thin read-only wrapper
// around the Linux cgroupv2 filesystem API.
// For more information, please consult the
// relevant kernel documentation.
package cgroup

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Dir is an absolute directory path
// (including the mount path of the cgroup2 mountpoint).
type Dir string

// IsZero returns true if d is the zero value of Dir.
// (The zero value of Dir is not a valid cgroup directory.)
func (d Dir) IsZero() bool { return d == "" }

// Root returns the first found cgroup2
// mountpoint from /proc/mounts.
func Root() (Dir, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for s.Scan() {
		parts := strings.Fields(s.Text())
		if len(parts) >= 3 &&
			parts[2] == "cgroup2" {
			return Dir(parts[1]), nil
		}
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", os.ErrNotExist
}

// Sub returns a new Dir that represents a
// sub-directory of d.
func (d Dir) Sub(dir string) Dir { return Dir(d.join(dir)) }

func (d Dir) join(name string) string { return filepath.Join(string(d), name) }

// Self returns the cgroup of the current process,
// provided that the current process is *only* a member
// of a cgroup2 and not a legacy cgroup1 hierarchy.
func Self() (Dir, error) {
	text, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	if len(text) < 3 || text[0] != '0' || text[1] != ':' || text[2] != ':' {
		return "", fmt.Errorf("don't understand /proc/self/cgroup (are you using systemd?): %s", text)
	}
	text = bytes.TrimSpace(text)
	i := bytes.IndexByte(text, '/')
	if i < 0 {
		return "", fmt.Errorf("%s is not a valid cgroup", text)
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return root.Sub(string(text[i:])), nil
}

func (d Dir) readLine(name string) (string, error) {
	buf, err := os.ReadFile(d.join(name))
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(buf)), nil
}

// CPUMax reads the cpu.max controller file of d
// and returns the number of whole CPUs the group
// may occupy, rounded up. If the group is not
// bandwidth-limited, CPUMax returns (0, nil).
func (d Dir) CPUMax() (int, error) {
	line, err := d.readLine("cpu.max")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, fmt.Errorf("cpu.max: unexpected contents %q", line)
	}
	if fields[0] == "max" {
		return 0, nil
	}
	quota, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("cpu.max: %w", err)
	}
	period, err := strconv.Atoi(fields[1])
	if err != nil || period <= 0 {
		return 0, fmt.Errorf("cpu.max: bad period %q", fields[1])
	}
	return (quota + period - 1) / period, nil
}

// MemoryMax reads the memory.max controller file of d
// and returns the group's memory limit in bytes.
// If the group is not memory-limited, MemoryMax
// returns (0, nil).
func (d Dir) MemoryMax() (int64, error) {
	line, err := d.readLine("memory.max")
	if err != nil {
		return 0, err
	}
	if line == "max" {
		return 0, nil
	}
	limit, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("memory.max: %w", err)
	}
	return limit, nil
}
