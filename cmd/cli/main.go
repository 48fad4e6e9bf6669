// Package main provides the entry point for the ClientFlow CLI.
package main

import (
	"fmt"
	"os"

	"clientflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
