package main

import (
	"os"

	"github.com/girogio/parlc-sub000/cmd/parlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
