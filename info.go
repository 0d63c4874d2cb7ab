// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import "gioui.org/glctx/internal/gl"

// GLInfo describes a context. The attributes are recorded at creation;
// the driver facts are read once, the first time the context is
// current.
type GLInfo struct {
	Attributes ContextAttributes

	Vendor                 string
	Renderer               string
	Version                string
	ShadingLanguageVersion string
	MaxTextureSize         int
	MaxRenderbufferSize    int

	populated bool
}

func newGLInfo(attrs ContextAttributes) GLInfo {
	return GLInfo{Attributes: attrs}
}

func (i GLInfo) HasAlpha() bool   { return i.Attributes.Flags.Contains(FlagAlpha) }
func (i GLInfo) HasDepth() bool   { return i.Attributes.Flags.Contains(FlagDepth) }
func (i GLInfo) HasStencil() bool { return i.Attributes.Flags.Contains(FlagStencil) }

// Populated reports whether the driver facts have been read.
func (i GLInfo) Populated() bool {
	return i.populated
}

// populate reads the driver facts from the current context, once.
func (i *GLInfo) populate(b Backend) {
	if i.populated {
		return
	}
	i.populated = true
	caps, ok := b.(Capabilities)
	if !ok {
		return
	}
	i.Vendor = caps.GLString(gl.VENDOR)
	i.Renderer = caps.GLString(gl.RENDERER)
	i.Version = caps.GLString(gl.VERSION)
	i.ShadingLanguageVersion = caps.GLString(gl.SHADING_LANGUAGE_VERSION)
	i.MaxTextureSize = caps.GLInteger(gl.MAX_TEXTURE_SIZE)
	i.MaxRenderbufferSize = caps.GLInteger(gl.MAX_RENDERBUFFER_SIZE)
}
