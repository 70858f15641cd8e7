package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/QEStudios/ChartScaler/chart"
	"github.com/QEStudios/ChartScaler/parser/chartfile"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "chartscale",
		Short:         "Rescale, inspect and convert .chart files",
		Long:          `chartscale reads .chart rhythm game charts. It can raise their resolution without moving any note, check them for errors, summarize them, export a track to MIDI and serve all of this over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRescaleCmd(logger),
		newInspectCmd(logger),
		newCheckCmd(logger),
		newMIDICmd(logger),
		newServeCmd(logger),
	)
	return root
}

// addOutputFlag registers the -o/--output flag shared by commands that write a file.
func addOutputFlag(fs *pflag.FlagSet, p *string, usage string) {
	fs.StringVarP(p, "output", "o", "", usage)
}

// loadChart resolves the input path (prompting when args is empty) and parses it.
func loadChart(args []string, logger *log.Logger) (*chart.Chart, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	path, err := choosePath(cwd, args)
	if err != nil {
		return nil, "", err
	}

	c, err := parseFile(path, logger)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}

func parseFile(path string, logger *log.Logger) (*chart.Chart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	c, err := chartfile.NewParser(file, logger).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return c, nil
}
