package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/samuelfneumann/simpleenv/examples"
)

func main() {
	if _, err := examples.ValueIteration(); err != nil {
		log.Error("value iteration failed", "err", err)
		os.Exit(1)
	}

	if _, err := examples.SimpleEnv(); err != nil {
		log.Error("could not step environment", "err", err)
		os.Exit(1)
	}
}
