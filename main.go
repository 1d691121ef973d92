package main

import (
	"os"

	"github.com/mrbane10/AI-CV-MatchMaker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
