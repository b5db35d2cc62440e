package main

import (
	"os"

	"samskrtam-drill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
