package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func newCheckCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>...",
		Short: "Check that charts parse",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var failed int
			for _, arg := range args {
				err := validatePath(arg)
				if err == nil {
					_, err = parseFile(arg, logger)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", arg, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", arg)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d charts failed to parse", failed, len(args))
			}
			return nil
		},
	}
}
