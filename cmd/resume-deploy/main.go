package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alvesdmateus/resume-deploy/internal/cli/commands"
)

func main() {
	// Logs go to stderr so checklist and instruction text on stdout stays
	// clean for the operator.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	os.Exit(commands.Execute())
}
