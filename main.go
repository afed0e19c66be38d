package main

import (
	"os"

	"github.com/strickvl/zenlings/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
