package main

import (
	"os"

	"energy-cost-backend/cmd/energyctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
