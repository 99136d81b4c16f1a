package main

import (
	"fmt"
	"os"

	workspacecmder "github.com/papercomputeco/hindsight/cmd/hindsight/workspace"
)

func main() {
	cmd := workspacecmder.NewWorkspaceCmd()

	cmd.Use = "hindsightwork"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .hindsight/ directory location")

	err := cmd.Execute()
	if err != nil {
		fmt.Printf("Error executing root command: %v\n", err)
		os.Exit(1)
	}
}
