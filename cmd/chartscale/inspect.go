package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func newInspectCmd(logger *log.Logger) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Print a summary of a chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := loadChart(args, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump {
				spew.Fdump(out, c)
				return nil
			}

			s := c.Summarize()
			fmt.Fprintf(out, "File:        %s\n", path)
			fmt.Fprintf(out, "Name:        %s\n", s.Name)
			fmt.Fprintf(out, "Artist:      %s\n", s.Artist)
			fmt.Fprintf(out, "Resolution:  %d\n", s.Resolution)
			fmt.Fprintf(out, "Properties:  %d\n", s.Properties)
			fmt.Fprintf(out, "Sync events: %d\n", s.SyncEvents)
			fmt.Fprintf(out, "Events:      %d\n", s.Events)
			if len(s.Sections) > 0 {
				fmt.Fprintf(out, "Sections:    %s\n", strings.Join(s.Sections, ", "))
			}
			fmt.Fprintf(out, "Last tick:   %d\n", s.LastTick)
			for _, t := range s.Tracks {
				fmt.Fprintf(out, "[%s] notes=%d specials=%d texts=%d\n", t.Name, t.Notes, t.Specials, t.Texts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the whole parsed chart")
	return cmd
}
