package main

import (
	"os"

	"github.com/signlang-ai/signstream/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
