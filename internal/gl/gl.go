// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Enumerants passed to glGetString and glGetIntegerv.
const (
	MAX_RENDERBUFFER_SIZE    = 0x84e8
	MAX_TEXTURE_SIZE         = 0xd33
	RENDERER                 = 0x1f01
	SHADING_LANGUAGE_VERSION = 0x8b8c
	VENDOR                   = 0x1f00
	VERSION                  = 0x1f02
)
