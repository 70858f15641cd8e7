package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newRescaleCmd(logger *log.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "rescale [input] <multiplier>",
		Short: "Multiply the resolution of a chart",
		Long: `Multiply the resolution of a chart and every tick in it by an integer factor.
Events placed exactly one tick after the previous event stay one tick after it.
Without an input file a file dialog is opened. Without --output the result is written to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := strconv.ParseUint(args[len(args)-1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid multiplier %q: %w", args[len(args)-1], err)
			}

			c, path, err := loadChart(args[:len(args)-1], logger)
			if err != nil {
				return err
			}

			logger.Printf("Rescaling %s by %d (resolution %d -> %d)", path, factor, c.Song.Resolution, c.Song.Resolution*uint32(factor))
			c.Rescale(uint32(factor))

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("error creating output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if _, err := c.WriteTo(w); err != nil {
				return fmt.Errorf("error writing output file: %w", err)
			}
			if output != "" {
				logger.Printf("Wrote %s", output)
			}
			return nil
		},
	}
	addOutputFlag(cmd.Flags(), &output, ".chart file to be written to")
	return cmd
}
