package main

import (
	"os"

	servecmder "github.com/papercomputeco/hindsight/cmd/hindsight/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "hindsightapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .hindsight/ directory location")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
