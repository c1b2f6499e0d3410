package main

import (
	"os"

	"github.com/mmynk/lessmo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
