package main

import (
	"os"

	"github.com/pollwright/surveywizard/cmd/surveywizard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
