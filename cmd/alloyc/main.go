// Package main is the entry point for the alloyc CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/opmodel/alloyc/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		cmd.PrintError(os.Stderr, err)
		os.Exit(cmd.ExitCodeFromError(err))
	}
}
