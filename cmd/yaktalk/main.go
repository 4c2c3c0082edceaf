// Package main is the entrypoint for the yaktalk command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/kiranshivaraju/yaktalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
