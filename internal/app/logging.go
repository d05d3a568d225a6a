package app

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

// SetupLogging routes the default apex logger to stderr at the given level.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(lvl)
	return nil
}
