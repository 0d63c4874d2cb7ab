// SPDX-License-Identifier: Unlicense OR MIT

package fakeegl

import "golang.org/x/sys/unix"

// PerThread reports whether current contexts are tracked per OS thread.
const PerThread = true

func threadID() int {
	return unix.Gettid()
}
