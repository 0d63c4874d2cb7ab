// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !windows

package fakeegl

// PerThread reports whether current contexts are tracked per OS thread.
// Elsewhere every thread shares one binding.
const PerThread = false

func threadID() int {
	return 0
}
