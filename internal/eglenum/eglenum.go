// SPDX-License-Identifier: Unlicense OR MIT

// Package eglenum holds the EGL enumerants shared by the context
// negotiator and the backends that interpret its attribute lists.
package eglenum

import "fmt"

const (
	ALPHA_SIZE              = 0x3021
	BIND_TO_TEXTURE_RGBA    = 0x303a
	BLUE_SIZE               = 0x3022
	CLIENT_APIS             = 0x308d
	CONFIG_ID               = 0x3028
	CONTEXT_CLIENT_TYPE     = 0x3097
	CONTEXT_CLIENT_VERSION  = 0x3098
	DEPTH_SIZE              = 0x3025
	DRAW                    = 0x3059
	EXTENSIONS              = 0x3055
	GREEN_SIZE              = 0x3023
	HEIGHT                  = 0x3056
	LARGEST_PBUFFER         = 0x3058
	NONE                    = 0x3038
	OPENGL_API              = 0x30a2
	OPENGL_BIT              = 0x0008
	OPENGL_ES_API           = 0x30a0
	OPENGL_ES2_BIT          = 0x0004
	PBUFFER_BIT             = 0x0001
	READ                    = 0x305a
	RED_SIZE                = 0x3024
	RENDERABLE_TYPE         = 0x3040
	STENCIL_SIZE            = 0x3026
	SURFACE_TYPE            = 0x3033
	TEXTURE_FORMAT          = 0x3080
	TEXTURE_RGBA            = 0x305e
	TEXTURE_TARGET          = 0x3081
	TEXTURE_2D              = 0x305f
	VENDOR                  = 0x3053
	VERSION                 = 0x3054
	WIDTH                   = 0x3057
	WINDOW_BIT              = 0x0004
	DEVICE_EXT              = 0x322c
	D3D11_DEVICE_ANGLE      = 0x33a1
	PLATFORM_ANGLE_ANGLE    = 0x3202
	DEFAULT_DISPLAY         = 0
	EXT_DEVICE_QUERY        = "EGL_EXT_device_query"
	KHR_SURFACELESS_CONTEXT = "EGL_KHR_surfaceless_context"
)

// Error codes returned by eglGetError.
const (
	SUCCESS             = 0x3000
	NOT_INITIALIZED     = 0x3001
	BAD_ACCESS          = 0x3002
	BAD_ALLOC           = 0x3003
	BAD_ATTRIBUTE       = 0x3004
	BAD_CONFIG          = 0x3005
	BAD_CONTEXT         = 0x3006
	BAD_CURRENT_SURFACE = 0x3007
	BAD_DISPLAY         = 0x3008
	BAD_MATCH           = 0x3009
	BAD_NATIVE_PIXMAP   = 0x300a
	BAD_NATIVE_WINDOW   = 0x300b
	BAD_PARAMETER       = 0x300c
	BAD_SURFACE         = 0x300d
	CONTEXT_LOST        = 0x300e
)

var errorNames = map[int32]string{
	SUCCESS:             "EGL_SUCCESS",
	NOT_INITIALIZED:     "EGL_NOT_INITIALIZED",
	BAD_ACCESS:          "EGL_BAD_ACCESS",
	BAD_ALLOC:           "EGL_BAD_ALLOC",
	BAD_ATTRIBUTE:       "EGL_BAD_ATTRIBUTE",
	BAD_CONFIG:          "EGL_BAD_CONFIG",
	BAD_CONTEXT:         "EGL_BAD_CONTEXT",
	BAD_CURRENT_SURFACE: "EGL_BAD_CURRENT_SURFACE",
	BAD_DISPLAY:         "EGL_BAD_DISPLAY",
	BAD_MATCH:           "EGL_BAD_MATCH",
	BAD_NATIVE_PIXMAP:   "EGL_BAD_NATIVE_PIXMAP",
	BAD_NATIVE_WINDOW:   "EGL_BAD_NATIVE_WINDOW",
	BAD_PARAMETER:       "EGL_BAD_PARAMETER",
	BAD_SURFACE:         "EGL_BAD_SURFACE",
	CONTEXT_LOST:        "EGL_CONTEXT_LOST",
}

// ErrorName returns the symbolic name of an EGL error code.
func ErrorName(code int32) string {
	if n, ok := errorNames[code]; ok {
		return n
	}
	return fmt.Sprintf("EGL error 0x%x", code)
}
