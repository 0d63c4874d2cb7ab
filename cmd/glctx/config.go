// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package main

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"gioui.org/glctx"
)

// Config is the contents of a glctx TOML file:
//
//	[context]
//	api = "gles"
//	version = "3.0"
//	depth = true
//	width = 256
//	height = 256
//
//	[log]
//	level = "info"
type Config struct {
	Context ContextConfig `toml:"context"`
	Log     LogConfig     `toml:"log"`
}

type ContextConfig struct {
	// API is "gl" or "gles". Empty means every flavor known to the
	// headless package is tried.
	API     string `toml:"api"`
	Version string `toml:"version"`
	Alpha   bool   `toml:"alpha"`
	Depth   bool   `toml:"depth"`
	Stencil bool   `toml:"stencil"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Context: ContextConfig{
			Version: "3.0",
			Width:   64,
			Height:  64,
		},
		Log: LogConfig{Level: "warning"},
	}
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := defaultConfig()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := cfg.Context.attributes(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Context.Width <= 0 || cfg.Context.Height <= 0 {
		return nil, fmt.Errorf("%s: invalid surface size %dx%d", path, cfg.Context.Width, cfg.Context.Height)
	}
	return cfg, nil
}

func (c ContextConfig) flags() glctx.ContextAttributeFlags {
	var f glctx.ContextAttributeFlags
	f = f.Set(glctx.FlagAlpha, c.Alpha)
	f = f.Set(glctx.FlagDepth, c.Depth)
	return f.Set(glctx.FlagStencil, c.Stencil)
}

func (c ContextConfig) size() image.Point {
	return image.Pt(c.Width, c.Height)
}

// attributes returns the requested attributes. The API of the result is
// only meaningful when c.API is set.
func (c ContextConfig) attributes() (glctx.ContextAttributes, error) {
	attrs := glctx.ContextAttributes{Flags: c.flags()}
	switch strings.ToLower(c.API) {
	case "", "gl", "opengl":
		attrs.Flavor.API = glctx.GL
	case "gles", "opengl_es":
		attrs.Flavor.API = glctx.GLES
	default:
		return attrs, fmt.Errorf("unknown API %q", c.API)
	}
	v, err := parseVersion(c.Version)
	if err != nil {
		return attrs, err
	}
	attrs.Flavor.Version = v
	return attrs, nil
}

func parseVersion(s string) (glctx.Version, error) {
	major, minor, _ := strings.Cut(s, ".")
	if minor == "" {
		minor = "0"
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj <= 0 {
		return glctx.Version{}, fmt.Errorf("invalid version %q", s)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil || mnr < 0 {
		return glctx.Version{}, fmt.Errorf("invalid version %q", s)
	}
	return glctx.Version{Major: maj, Minor: mnr}, nil
}
