package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		logrus.WithError(err).Errorf("Command failed")
		os.Exit(1)
	}
}
