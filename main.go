package main

import (
	"os"

	"FreshmanRoll/internal/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
