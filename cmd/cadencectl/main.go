package main

import (
	"fmt"
	"os"

	"github.com/rezkam/cadence/internal/cli"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := cli.BuildCLI(nil)
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
