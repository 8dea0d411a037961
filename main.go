package main

import (
	"errors"
	"os"

	"container-labs/cmd"
	"container-labs/internal/labs/launcher"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) && exitErr.Code > 0 && exitErr.Code < 256 {
			log.WithError(err).Error("Lab container failed")
			os.Exit(int(exitErr.Code))
		}
		log.WithError(err).Fatal("Failed to execute command")
	}
}
