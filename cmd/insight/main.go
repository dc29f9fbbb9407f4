package main

import (
	"os"

	"github.com/erhulee/insight-sub002/cmd/insight/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
