// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"fmt"
	"strings"

	"gioui.org/glctx/internal/eglenum"
)

// API is a GL client API.
type API uint8

const (
	// GL is desktop OpenGL.
	GL API = iota
	// GLES is OpenGL ES.
	GLES
)

type Version struct {
	Major, Minor int
}

// Flavor is a GL API and version.
type Flavor struct {
	API     API
	Version Version
}

// ContextAttributeFlags select the optional buffers of a context.
type ContextAttributeFlags uint8

const (
	FlagAlpha ContextAttributeFlags = 1 << iota
	FlagDepth
	FlagStencil
)

// ContextAttributes describes a context request. It is consumed by
// Device.CreateContext and recorded unchanged in the context GLInfo.
type ContextAttributes struct {
	Flavor Flavor
	Flags  ContextAttributeFlags
}

// Channel sizes requested for each flag. Color channels are always
// 8 bits.
const (
	colorBits   = 8
	alphaBits   = 8
	depthBits   = 24
	stencilBits = 8
)

func (a API) String() string {
	switch a {
	case GL:
		return "GL"
	case GLES:
		return "GLES"
	default:
		return fmt.Sprintf("API(%d)", uint8(a))
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (f Flavor) String() string {
	return f.API.String() + " " + f.Version.String()
}

func (f ContextAttributeFlags) Contains(flags ContextAttributeFlags) bool {
	return f&flags == flags
}

// Set returns f with flags set or cleared according to on.
func (f ContextAttributeFlags) Set(flags ContextAttributeFlags, on bool) ContextAttributeFlags {
	if on {
		return f | flags
	}
	return f &^ flags
}

func (f ContextAttributeFlags) String() string {
	var names []string
	if f.Contains(FlagAlpha) {
		names = append(names, "ALPHA")
	}
	if f.Contains(FlagDepth) {
		names = append(names, "DEPTH")
	}
	if f.Contains(FlagStencil) {
		names = append(names, "STENCIL")
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// configAttribs translates the attributes into an EGL config selection
// list.
func (a ContextAttributes) configAttribs() []int32 {
	renderable := int32(eglenum.OPENGL_BIT)
	if a.Flavor.API == GLES {
		renderable = eglenum.OPENGL_ES2_BIT
	}
	return []int32{
		eglenum.SURFACE_TYPE, eglenum.PBUFFER_BIT,
		eglenum.RENDERABLE_TYPE, renderable,
		eglenum.BIND_TO_TEXTURE_RGBA, 1,
		eglenum.RED_SIZE, colorBits,
		eglenum.GREEN_SIZE, colorBits,
		eglenum.BLUE_SIZE, colorBits,
		eglenum.ALPHA_SIZE, channelBits(a.Flags, FlagAlpha, alphaBits),
		eglenum.DEPTH_SIZE, channelBits(a.Flags, FlagDepth, depthBits),
		eglenum.STENCIL_SIZE, channelBits(a.Flags, FlagStencil, stencilBits),
		eglenum.NONE, 0,
		0, 0,
	}
}

// contextAttribs is the context creation list. The trailing zeroes work
// around drivers that read past EGL_NONE.
func (a ContextAttributes) contextAttribs() []int32 {
	return []int32{
		eglenum.CONTEXT_CLIENT_VERSION, int32(a.Flavor.Version.Major),
		eglenum.NONE, 0,
		0, 0,
	}
}

func channelBits(flags, flag ContextAttributeFlags, bits int32) int32 {
	if flags.Contains(flag) {
		return bits
	}
	return 0
}
