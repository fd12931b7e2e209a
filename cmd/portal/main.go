package main

import (
	"os"

	"github.com/Freeeeeet/glee_portal/cmd/portal/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
