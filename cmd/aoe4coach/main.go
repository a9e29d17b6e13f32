package main

import (
	"fmt"
	"os"

	"aoe4coach/cmd/aoe4coach/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
