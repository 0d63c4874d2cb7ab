// SPDX-License-Identifier: Unlicense OR MIT

// Package gl holds the process-wide table of GL entry points.
package gl

import (
	"sync/atomic"

	"golang.org/x/exp/slices"
)

// Functions maps GL entry point names to their addresses as returned by
// the driver's proc address lookup. A zero address means the driver
// does not export the function.
type Functions struct {
	ptrs map[string]uintptr
}

// Names lists the entry points resolved by Load.
var Names = []string{
	"glBindFramebuffer",
	"glBindRenderbuffer",
	"glBindTexture",
	"glCheckFramebufferStatus",
	"glClear",
	"glClearColor",
	"glDeleteFramebuffers",
	"glDeleteRenderbuffers",
	"glDeleteTextures",
	"glFinish",
	"glFlush",
	"glFramebufferRenderbuffer",
	"glFramebufferTexture2D",
	"glGenFramebuffers",
	"glGenRenderbuffers",
	"glGenTextures",
	"glGetError",
	"glGetIntegerv",
	"glGetString",
	"glGetStringi",
	"glReadPixels",
	"glRenderbufferStorage",
	"glTexImage2D",
	"glTexParameteri",
	"glViewport",
}

var (
	current atomic.Pointer[Functions]
	loads   atomic.Int32
)

// Load resolves every name in Names through lookup and installs the
// result as the process-wide table. Callers are responsible for loading
// at most once; LoadCount reports how often it happened.
func Load(lookup func(name string) uintptr) *Functions {
	f := &Functions{ptrs: make(map[string]uintptr, len(Names))}
	for _, n := range Names {
		f.ptrs[n] = lookup(n)
	}
	current.Store(f)
	loads.Add(1)
	return f
}

// Loaded returns the process-wide table, or nil before the first Load.
func Loaded() *Functions {
	return current.Load()
}

// LoadCount returns the number of times Load has run in this process.
func LoadCount() int {
	return int(loads.Load())
}

// Lookup returns the cached address of name, or 0.
func (f *Functions) Lookup(name string) uintptr {
	if f == nil {
		return 0
	}
	return f.ptrs[name]
}

// Missing returns the sorted names the driver did not resolve.
func (f *Functions) Missing() []string {
	if f == nil {
		return nil
	}
	var missing []string
	for n, p := range f.ptrs {
		if p == 0 {
			missing = append(missing, n)
		}
	}
	slices.Sort(missing)
	return missing
}
