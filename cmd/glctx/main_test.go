// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gioui.org/glctx"
	"gioui.org/glctx/internal/fakeegl"
	"gioui.org/glctx/internal/gl"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glctx.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[context]
api = "gles"
version = "2"
depth = true
stencil = true
width = 128

[log]
level = "debug"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 128, cfg.Context.Width)
	assert.Equal(t, 64, cfg.Context.Height, "defaults are kept")

	attrs, err := cfg.Context.attributes()
	require.NoError(t, err)
	assert.Equal(t, glctx.ContextAttributes{
		Flavor: glctx.Flavor{API: glctx.GLES, Version: glctx.Version{Major: 2}},
		Flags:  glctx.FlagDepth | glctx.FlagStencil,
	}, attrs)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "[context]\ncolour = true\n",
		"bad api":       "[context]\napi = \"vulkan\"\n",
		"bad version":   "[context]\nversion = \"three\"\n",
		"bad size":      "[context]\nwidth = 0\n",
		"bad syntax":    "[context\n",
	}
	for name, contents := range tests {
		contents := contents
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, contents))
			assert.Error(t, err)
		})
	}
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("3.2")
	require.NoError(t, err)
	assert.Equal(t, glctx.Version{Major: 3, Minor: 2}, v)

	for _, s := range []string{"", "0.1", "3.x", "-1"} {
		_, err := parseVersion(s)
		assert.Error(t, err, s)
	}
}

func TestRunStress(t *testing.T) {
	b := fakeegl.New(glctx.GLES)
	dev := glctx.NewDevice(b, nil)
	t.Cleanup(dev.Release)

	res, err := runStress(dev, ContextConfig{Depth: true}, 40, 4)
	require.NoError(t, err)
	assert.Equal(t, glctx.GLES, res.Attributes.Flavor.API, "falls back to a supported flavor")
	assert.Equal(t, glctx.FlagDepth, res.Attributes.Flags)
	assert.Equal(t, 40, res.Contexts)
	assert.Equal(t, 1, res.Loads)
	assert.Equal(t, 1, gl.LoadCount())
	assert.Empty(t, b.Contexts())
}

func TestRunStressFailure(t *testing.T) {
	b := fakeegl.New()
	dev := glctx.NewDevice(b, nil)
	t.Cleanup(dev.Release)

	_, err := runStress(dev, ContextConfig{API: "gl", Version: "3.0"}, 0, 1)
	require.NoError(t, err)

	b.SetConfigs(nil)
	_, err = runStress(dev, ContextConfig{API: "gl", Version: "3.0"}, 4, 2)
	assert.ErrorIs(t, err, glctx.ErrNoPixelFormatFound)
}

func TestStressCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run([]string{"glctx", "stress", "--fake", "--contexts", "8", "--workers", "2"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "GL LOADS")
	assert.Contains(t, out.String(), "| 8 ")
}
