package cmd

import (
	"log"
	"os"
)

// logger writes user-facing diagnostics with the tool prefix; detail()
// lines only print under --verbose.
var logger = log.New(os.Stderr, "[hiercad] ", 0)

func detail(format string, args ...interface{}) {
	if verbose {
		logger.Printf(format, args...)
	}
}
