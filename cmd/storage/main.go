// Command storage is the CLI for the instrumented key-value cache.
package main

import (
	"os"

	"github.com/temifoden/alx-backend-storage/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
