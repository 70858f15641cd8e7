package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func newMIDICmd(logger *log.Logger) *cobra.Command {
	var (
		track  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "midi [input]",
		Short: "Export a chart track as a Standard MIDI File",
		Long: `Export the tempo map, the global events and one note track of a chart as a Standard MIDI File.
Without --output the file is written next to the input with a .mid extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := loadChart(args, logger)
			if err != nil {
				return err
			}

			if output == "" {
				output = siblingPath(path, ".mid")
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("error creating output file: %w", err)
			}
			defer file.Close()

			if err := c.WriteMIDI(file, track); err != nil {
				return err
			}
			logger.Printf("Wrote track %s to %s", track, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&track, "track", "t", "ExpertSingle", "name of the note track to export")
	addOutputFlag(cmd.Flags(), &output, ".mid file to be written to")
	return cmd
}
