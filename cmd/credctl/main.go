package main

import (
	"os"

	"github.com/plughost/credhub/internal/client/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
