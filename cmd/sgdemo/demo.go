// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gviegas/sglib"
	"github.com/gviegas/sglib/asset"
	"github.com/gviegas/sglib/gfx/record"
	"github.com/gviegas/sglib/input"
	"github.com/gviegas/sglib/internal/config"
	"github.com/gviegas/sglib/scenefile"
)

// demo runs a scene on a recording device.
type demo struct {
	cfg    config.Config
	out    io.Writer
	log    *slog.Logger
	dev    *record.Device
	keys   input.State
	r      *sglib.Renderer
	scene  *scenefile.Scene
	watch  *watcher
	reload <-chan struct{}

	// Totals over the run.
	frames  int
	draws   int
	points  int
	reloads int
}

func newDemo(cfg config.Config, out, errOut io.Writer) (*demo, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	d := &demo{
		cfg: cfg,
		out: out,
		log: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})),
		dev: record.New(),
	}
	sglib.SetLogger(d.log)
	dir := cfg.Assets
	if dir == "" {
		dir = filepath.Dir(cfg.Scene)
	}
	sglib.SetAssets(asset.New(os.DirFS(dir)))
	keys, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		d.keys.Press(k)
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	if cfg.Watch {
		if d.watch, err = newWatcher(cfg.Scene, d.log); err != nil {
			d.close()
			return nil, err
		}
		d.reload = d.watch.C
	}
	return d, nil
}

// load builds the scene file and replaces the current
// scene with it.
// The current scene is kept if the new one cannot be
// built.
func (d *demo) load() error {
	dir, name := filepath.Split(d.cfg.Scene)
	if dir == "" {
		dir = "."
	}
	f, err := scenefile.Open(os.DirFS(dir), name)
	if err != nil {
		return err
	}
	// Pick up edited assets as well.
	sglib.Assets().Forget()
	s, err := f.Build(d.dev, &d.keys)
	if err != nil {
		return err
	}
	if d.scene != nil {
		d.scene.Release()
	}
	d.scene = s
	d.r = sglib.NewRenderer()
	s.Apply(d.r)
	d.log.Info("scene loaded", "file", d.cfg.Scene)
	if d.cfg.Dump {
		dump(d.out, s.Root)
	}
	return nil
}

// frame updates and renders the scene once.
func (d *demo) frame() error {
	d.dev.Forget()
	if err := d.r.Run(d.scene.Root, d.cfg.Step); err != nil {
		return err
	}
	d.frames++
	for _, c := range d.dev.Calls() {
		switch c.Op {
		case record.OpDrawSubset:
			d.draws++
		case record.OpDrawPoints:
			d.points += c.Points
		}
	}
	return nil
}

// run runs the configured number of frames, or until ctx
// is done when the number is zero.
// Unbounded runs are paced at the frame step.
func (d *demo) run(ctx context.Context) error {
	var tick <-chan time.Time
	if d.cfg.Frames == 0 {
		t := time.NewTicker(time.Duration(float64(d.cfg.Step) * float64(time.Second)))
		defer t.Stop()
		tick = t.C
	}
	for d.cfg.Frames == 0 || d.frames < d.cfg.Frames {
		select {
		case <-ctx.Done():
			d.summary()
			return nil
		case <-d.reload:
			if err := d.load(); err != nil {
				d.log.Error("reload failed", "file", d.cfg.Scene, "err", err)
			} else {
				d.reloads++
			}
		default:
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				d.summary()
				return nil
			case <-tick:
			}
		}
		if err := d.frame(); err != nil {
			return fmt.Errorf("frame %d: %w", d.frames, err)
		}
	}
	d.summary()
	return nil
}

func (d *demo) summary() {
	fmt.Fprintf(d.out, "frames=%d draws=%d points=%d reloads=%d\n", d.frames, d.draws, d.points, d.reloads)
}

func (d *demo) close() {
	if d.watch != nil {
		d.watch.close()
	}
	if d.scene != nil {
		d.scene.Release()
		d.scene = nil
	}
	sglib.SetLogger(nil)
	sglib.SetAssets(nil)
}

// dump prints the graph rooted at root, one node per
// line, indenting children.
func dump(w io.Writer, root sglib.Node) {
	sglib.Walk(root, func(n sglib.Node, depth int) bool {
		fmt.Fprintf(w, "%s%v", strings.Repeat("  ", depth), n.Type())
		if desc := n.Description(); desc != "" {
			fmt.Fprintf(w, " %q", desc)
		}
		fmt.Fprintln(w)
		return true
	})
}
