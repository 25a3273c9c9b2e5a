package main

import (
	"os"

	"github.com/fekuna/omnipos-register/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
