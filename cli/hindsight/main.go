package main

import (
	"os"

	hindsightcmder "github.com/papercomputeco/hindsight/cmd/hindsight"
)

func main() {
	cmd := hindsightcmder.NewHindsightCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
