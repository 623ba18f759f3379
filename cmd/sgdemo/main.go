// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command sgdemo runs a scene file headlessly.
//
// Frames are rendered on a recording device, so a run
// exercises the whole traversal (transforms, shaders,
// states, animation, particles) without a GPU:
//
//	sgdemo --frames 120 --dump scenes/arm.yaml
//	sgdemo --watch --frames 0 scenes/arm.yaml
//	sgdemo config > sgdemo.toml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gviegas/sglib/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var flags config.Config
	root := &cobra.Command{
		Use:           "sgdemo [scene]",
		Short:         "Run a scene graph headlessly",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			override(cmd, &cfg, &flags)
			if len(args) > 0 {
				cfg.Scene = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			d, err := newDemo(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.close()
			return d.run(cmd.Context())
		},
	}
	dfl := config.Default()
	f := root.Flags()
	f.StringVarP(&cfgFile, "config", "c", "sgdemo.toml", "configuration file")
	f.StringVar(&flags.Assets, "assets", dfl.Assets, "asset directory (default: the scene's directory)")
	f.IntVarP(&flags.Frames, "frames", "n", dfl.Frames, "frames to run, 0 runs until interrupted")
	f.Float32Var(&flags.Step, "step", dfl.Step, "time step of each frame, in seconds")
	f.StringVar(&flags.LogLevel, "log-level", dfl.LogLevel, "log level: debug, info, warn or error")
	f.BoolVarP(&flags.Watch, "watch", "w", dfl.Watch, "reload the scene when its file changes")
	f.BoolVar(&flags.Dump, "dump", dfl.Dump, "print the graph after loading it")
	f.StringSliceVar(&flags.Hold, "hold", nil, "keys held down during the run")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			b, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(b))
			return err
		},
	})
	return root
}

// override copies the flags that were set on the command
// line over cfg.
func override(cmd *cobra.Command, cfg, flags *config.Config) {
	set := cmd.Flags().Changed
	if set("assets") {
		cfg.Assets = flags.Assets
	}
	if set("frames") {
		cfg.Frames = flags.Frames
	}
	if set("step") {
		cfg.Step = flags.Step
	}
	if set("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if set("watch") {
		cfg.Watch = flags.Watch
	}
	if set("dump") {
		cfg.Dump = flags.Dump
	}
	if set("hold") {
		cfg.Hold = flags.Hold
	}
}
