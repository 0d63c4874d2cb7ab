// SPDX-License-Identifier: Unlicense OR MIT

package glctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gioui.org/glctx/internal/eglenum"
)

func attribValue(attribs []int32, name int32) (int32, bool) {
	for i := 0; i+1 < len(attribs) && attribs[i] != eglenum.NONE; i += 2 {
		if attribs[i] == name {
			return attribs[i+1], true
		}
	}
	return 0, false
}

func TestConfigAttribs(t *testing.T) {
	for flags := ContextAttributeFlags(0); flags <= FlagAlpha|FlagDepth|FlagStencil; flags++ {
		attrs := ContextAttributes{Flavor: Flavor{API: GL, Version: Version{Major: 3}}, Flags: flags}
		list := attrs.configAttribs()
		want := map[int32]int32{
			eglenum.RED_SIZE:        8,
			eglenum.GREEN_SIZE:      8,
			eglenum.BLUE_SIZE:       8,
			eglenum.ALPHA_SIZE:      channelBits(flags, FlagAlpha, 8),
			eglenum.DEPTH_SIZE:      channelBits(flags, FlagDepth, 24),
			eglenum.STENCIL_SIZE:    channelBits(flags, FlagStencil, 8),
			eglenum.RENDERABLE_TYPE: eglenum.OPENGL_BIT,
			eglenum.SURFACE_TYPE:    eglenum.PBUFFER_BIT,
		}
		for name, v := range want {
			got, ok := attribValue(list, name)
			if assert.True(t, ok, "%v: attribute 0x%x missing", flags, name) {
				assert.Equal(t, v, got, "%v: attribute 0x%x", flags, name)
			}
		}
		assert.Equal(t, []int32{eglenum.NONE, 0, 0, 0}, list[len(list)-4:])
	}
}

func TestConfigAttribsGLES(t *testing.T) {
	attrs := ContextAttributes{Flavor: Flavor{API: GLES, Version: Version{Major: 2}}}
	v, ok := attribValue(attrs.configAttribs(), eglenum.RENDERABLE_TYPE)
	assert.True(t, ok)
	assert.Equal(t, int32(eglenum.OPENGL_ES2_BIT), v)

	v, ok = attribValue(attrs.contextAttribs(), eglenum.CONTEXT_CLIENT_VERSION)
	assert.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "0", ContextAttributeFlags(0).String())
	assert.Equal(t, "ALPHA|STENCIL", (FlagAlpha | FlagStencil).String())
	assert.Equal(t, "GLES 3.1", Flavor{API: GLES, Version: Version{3, 1}}.String())
	assert.Equal(t, FlagDepth, FlagDepth.Set(FlagAlpha, false))
	assert.Equal(t, FlagDepth|FlagAlpha, FlagDepth.Set(FlagAlpha, true))
}
