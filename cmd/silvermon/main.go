package main

import (
	"os"

	"github.com/AaronWong1999/silver-calculator-page/cmd/silvermon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
