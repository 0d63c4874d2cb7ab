// SPDX-License-Identifier: Unlicense OR MIT

package fakeegl

import "golang.org/x/sys/windows"

// PerThread reports whether current contexts are tracked per OS thread.
const PerThread = true

func threadID() int {
	return int(windows.GetCurrentThreadId())
}
