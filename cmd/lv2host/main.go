package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

type config struct {
	args []string
	out  io.Writer
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		printUsage(config.out)
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() == cmdName {
			flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
			flags.SetOutput(config.out)
			cmd.Register(flags)
			if err := flags.Parse(args); err != nil {
				return errorExitCode
			}
			if err := cmd.Run(); err != nil {
				fmt.Fprintf(config.out, "Command failed: %v\n", err)
				return errorExitCode
			}
			return successExitCode
		}
	}

	fmt.Fprintf(config.out, "Unknown command: %s\n\n", cmdName)
	printUsage(config.out)
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        []command
)

func init() {
	commands = []command{
		&processCommand{out: os.Stdout},
		&infoCommand{out: os.Stdout},
	}
}

func main() {
	c := config{
		args: os.Args,
		out:  os.Stderr,
	}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "lv2host runs an LV2 plugin over a wav file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: lv2host <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plugins are discovered in LV2_PATH. Set LV2HOST_DEBUG=1 for debug output.")
}
