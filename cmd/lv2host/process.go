package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dudk/lv2host"
	"github.com/dudk/lv2host/internal/lilv"
	"github.com/dudk/lv2host/log"
	"github.com/dudk/lv2host/lv2"
)

type processCommand struct {
	lv2host.Config
	out io.Writer
	// newWorld is replaced in tests.
	newWorld func() (lv2.World, error)
}

func (cmd *processCommand) Name() string {
	return "process"
}

func (cmd *processCommand) Help() string {
	return "Process wav file with a plugin"
}

func (cmd *processCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Input, "in", lv2host.DefaultInput, "input wav file")
	fs.StringVar(&cmd.Output, "out", lv2host.DefaultOutput, "output wav file")
	fs.StringVar(&cmd.PluginURI, "plugin", lv2host.DefaultPluginURI, "URI of the plugin")
	fs.Float64Var(&cmd.SampleRate, "rate", lv2host.DefaultSampleRate, "sample rate to instantiate plugin with")
	fs.IntVar(&cmd.BitDepth, "bitdepth", lv2host.DefaultBitDepth, "output bit depth: 16, 24, 32 or 0 to keep input bit depth")
}

func (cmd *processCommand) Run() error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	newWorld := cmd.newWorld
	if newWorld == nil {
		newWorld = lilv.New
	}
	world, err := newWorld()
	if err != nil {
		return err
	}
	defer world.Close()

	job := lv2host.New(world, cmd.Config, lv2host.WithLogger(log.GetLogger()))
	report, err := job.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.out, report)
	return nil
}
