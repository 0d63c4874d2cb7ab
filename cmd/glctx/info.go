// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"gioui.org/glctx"
	"gioui.org/glctx/egl"
	"gioui.org/glctx/headless"
	"gioui.org/glctx/internal/gl"
)

func info(ctx *cli.Context) error {
	cfg := appConfig(ctx)
	dev, pb, err := egl.OpenDevice()
	if err != nil {
		return err
	}
	defer dev.Release()

	var hc *headless.Context
	if cfg.Context.API == "" {
		hc, err = headless.NewContext(dev, pb, cfg.Context.size(), cfg.Context.flags())
	} else {
		attrs, aerr := cfg.Context.attributes()
		if aerr != nil {
			return aerr
		}
		hc, err = headless.NewContextWithAttributes(dev, pb, cfg.Context.size(), attrs)
	}
	if err != nil {
		return err
	}
	defer hc.Release()
	logger.Infof("created %v context", hc.Info().Attributes.Flavor)

	fbo, err := dev.ContextFramebufferObject(hc.GLContext())
	if err != nil {
		return err
	}
	rows := [][]string{
		{"Surface", fmt.Sprintf("%dx%d", hc.Size().X, hc.Size().Y)},
		{"Framebuffer", strconv.FormatUint(uint64(fbo), 10)},
	}
	printInfo(ctx.App.Writer, hc.Info(), rows)
	return nil
}

// printInfo writes a table of the context information followed by
// extra rows.
func printInfo(w io.Writer, info glctx.GLInfo, extra [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Flavor", info.Attributes.Flavor.String()})
	table.Append([]string{"Buffers", info.Attributes.Flags.String()})
	table.Append([]string{"Vendor", info.Vendor})
	table.Append([]string{"Renderer", info.Renderer})
	table.Append([]string{"Version", info.Version})
	table.Append([]string{"GLSL", info.ShadingLanguageVersion})
	table.Append([]string{"Max texture size", strconv.Itoa(info.MaxTextureSize)})
	table.Append([]string{"Max renderbuffer size", strconv.Itoa(info.MaxRenderbufferSize)})
	missing := "none"
	if m := gl.Loaded().Missing(); len(m) > 0 {
		missing = strings.Join(m, " ")
	}
	table.Append([]string{"Missing GL functions", missing})
	table.AppendBulk(extra)
	table.Render()
}
