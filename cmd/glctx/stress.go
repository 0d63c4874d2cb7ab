// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package main

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"gioui.org/glctx"
	"gioui.org/glctx/egl"
	"gioui.org/glctx/headless"
	"gioui.org/glctx/internal/fakeegl"
	"gioui.org/glctx/internal/gl"
)

type stressResult struct {
	Attributes glctx.ContextAttributes
	Contexts   int
	Workers    int
	Loads      int
	Elapsed    time.Duration
}

func stress(ctx *cli.Context) error {
	cfg := appConfig(ctx)
	n, workers := ctx.Int("contexts"), ctx.Int("workers")
	if n <= 0 || workers <= 0 {
		return errors.New("--contexts and --workers must be positive")
	}
	var dev *glctx.Device
	if ctx.Bool("fake") {
		dev = glctx.NewDevice(fakeegl.New(), nil)
	} else {
		d, _, err := egl.OpenDevice()
		if err != nil {
			return err
		}
		dev = d
	}
	defer dev.Release()

	res, err := runStress(dev, cfg.Context, n, workers)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Flavor", "Buffers", "Contexts", "Workers", "GL loads", "Elapsed"})
	table.Append([]string{
		res.Attributes.Flavor.String(),
		res.Attributes.Flags.String(),
		strconv.Itoa(res.Contexts),
		strconv.Itoa(res.Workers),
		strconv.Itoa(res.Loads),
		res.Elapsed.Round(time.Millisecond).String(),
	})
	table.Render()
	return nil
}

// runStress creates n contexts from the given number of threads. Each
// context is made current, released and destroyed before the next is
// created on the same thread.
func runStress(dev *glctx.Device, cfg ContextConfig, n, workers int) (stressResult, error) {
	attrs, err := stressAttributes(dev, cfg)
	if err != nil {
		return stressResult{}, err
	}
	start := time.Now()
	var created atomic.Int32
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			for created.Add(1) <= int32(n) {
				c, err := dev.CreateContext(attrs)
				if err != nil {
					return err
				}
				if err := dev.MakeContextCurrent(c); err != nil {
					dev.DestroyContext(c)
					return err
				}
				if err := dev.MakeContextNotCurrent(c); err != nil {
					dev.DestroyContext(c)
					return err
				}
				if err := dev.DestroyContext(c); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stressResult{}, err
	}
	logger.Debugf("created %d contexts on %d threads", n, workers)
	return stressResult{
		Attributes: attrs,
		Contexts:   n,
		Workers:    workers,
		Loads:      gl.LoadCount(),
		Elapsed:    time.Since(start),
	}, nil
}

// stressAttributes returns the configured attributes, or the first
// headless flavor the device can create when no API is configured.
func stressAttributes(dev *glctx.Device, cfg ContextConfig) (glctx.ContextAttributes, error) {
	if cfg.API != "" {
		return cfg.attributes()
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	var firstErr error
	for _, f := range headless.Flavors {
		attrs := glctx.ContextAttributes{Flavor: f, Flags: cfg.flags()}
		c, err := dev.CreateContext(attrs)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := dev.DestroyContext(c); err != nil {
			return attrs, err
		}
		return attrs, nil
	}
	return glctx.ContextAttributes{}, fmt.Errorf("no usable flavor: %w", firstErr)
}
