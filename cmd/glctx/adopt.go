// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package main

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v2"

	"gioui.org/glctx"
	"gioui.org/glctx/egl"
)

// adopt lets GLFW create an EGL context for a hidden window, wraps it
// with egl.FromCurrentContext and checks that releasing the wrapper
// leaves the window's context alive.
func adopt(ctx *cli.Context) error {
	cfg := appConfig(ctx)
	attrs, err := cfg.Context.attributes()
	if err != nil {
		return err
	}

	// GLFW and the adopted context both require the main thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	if attrs.Flavor.API == glctx.GLES {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, attrs.Flavor.Version.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, attrs.Flavor.Version.Minor)
	glfw.WindowHint(glfw.AlphaBits, bits(cfg.Context.Alpha, 8))
	glfw.WindowHint(glfw.DepthBits, bits(cfg.Context.Depth, 24))
	glfw.WindowHint(glfw.StencilBits, bits(cfg.Context.Stencil, 8))

	size := cfg.Context.size()
	window, err := glfw.CreateWindow(size.X, size.Y, "glctx", nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	dev, c, err := egl.FromCurrentContext()
	if err != nil {
		return err
	}
	defer dev.Release()

	if _, err := dev.ContextColorSurface(c); !errors.Is(err, glctx.ErrExternalRenderTarget) {
		dev.DestroyContext(c)
		return fmt.Errorf("adopted context has a managed surface: %v", err)
	}
	eglDev, nativeDev := dev.NativeDevice()
	rows := [][]string{
		{"Owned", strconv.FormatBool(c.Owned())},
		{"EGL device", fmt.Sprintf("0x%x", eglDev)},
		{"Native device", fmt.Sprintf("0x%x", nativeDev)},
	}
	printInfo(ctx.App.Writer, dev.ContextInfo(c), rows)

	if err := dev.DestroyContext(c); err != nil {
		return err
	}
	if glfw.GetCurrentContext() != window {
		return errors.New("the window context did not survive the adopted wrapper")
	}
	logger.Infof("adopted context released; window context still current")
	return nil
}

func bits(on bool, n int) int {
	if on {
		return n
	}
	return 0
}
