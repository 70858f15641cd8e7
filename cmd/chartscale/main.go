package main

import (
	"errors"
	"log"
	"os"

	"github.com/sqweek/dialog"
)

func main() {
	// Charts may be written to stdout, so log to stderr.
	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime)

	if err := newRootCmd(logger).Execute(); err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			os.Exit(1)
		}
		logger.Fatalf("%v", err)
	}
}
