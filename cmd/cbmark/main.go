package main

import (
	"os"

	"github.com/graemedouglas/cbmark/cmd/cbmark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
