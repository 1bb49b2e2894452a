package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dudk/lv2host"
	"github.com/dudk/lv2host/internal/lilv"
	"github.com/dudk/lv2host/lv2"
)

type infoCommand struct {
	uri string
	out io.Writer
	// newWorld is replaced in tests.
	newWorld func() (lv2.World, error)
}

func (cmd *infoCommand) Name() string {
	return "info"
}

func (cmd *infoCommand) Help() string {
	return "Show ports of a plugin"
}

func (cmd *infoCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.uri, "plugin", lv2host.DefaultPluginURI, "URI of the plugin")
}

func (cmd *infoCommand) Run() error {
	if cmd.uri == "" {
		return errors.New("missing -plugin flag")
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
	if err := world.LoadAll(); err != nil {
		return err
	}
	plugin, err := world.Plugin(cmd.uri)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "%s <%s>\n\n", plugin.Name(), plugin.URI())
	w := tabwriter.NewWriter(cmd.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tSYMBOL\tKIND\tDIRECTION\tDEFAULT\tMIN\tMAX\tNAME")
	for _, p := range plugin.Ports() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Index, p.Symbol, p.Kind, p.Direction,
			value(p.Default), value(p.Min), value(p.Max), p.Name)
	}
	return w.Flush()
}

// value formats range value, undeclared values are shown as dash.
func value(v float32) string {
	if v != v {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}
