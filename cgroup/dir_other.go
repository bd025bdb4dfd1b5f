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

//go:build !linux

// Package cgroup implements a thin read-only wrapper
// around the Linux cgroupv2 filesystem API.
// For more information, please consult the
// relevant kernel documentation.
package cgroup

import "os"

// Dir is an absolute directory path
// (including the mount path of the cgroup2 mountpoint).
type Dir string

// IsZero returns true if d is the zero value of Dir.
// (The zero value of Dir is not a valid cgroup directory.)
func (d Dir) IsZero() bool { return d == "" }

// Root returns the first found cgroup2 mountpoint.
// cgroups only exist on Linux.
func Root() (Dir, error) { return "", os.ErrNotExist }

// Self returns the cgroup of the current process.
// cgroups only exist on Linux.
func Self() (Dir, error) { return "", os.ErrNotExist }

// Sub returns a new Dir that represents a
// sub-directory of d.
func (d Dir) Sub(dir string) Dir { return "" }

// CPUMax returns the CPU limit of d.
// cgroups only exist on Linux.
func (d Dir) CPUMax() (int, error) { return 0, os.ErrNotExist }

// MemoryMax returns the memory limit of d.
// cgroups only exist on Linux.
func (d Dir) MemoryMax() (int64, error) { return 0, os.ErrNotExist }
