// Package main provides the strider CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const version = "v0.1.0-dev"

func main() {
	args, err := ParseArguments(os.Args, version)
	if err != nil {
		if errors.Is(err, errMissingCommand) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if args.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	switch {
	case args.Version != nil:
		fmt.Printf("strider %s\n", version)
	case args.Inspect != nil:
		err = Inspect(os.Stdout, log, args.Inspect)
	case args.SafeTensors != nil:
		err = ListSafeTensors(os.Stdout, log, args.SafeTensors)
	}
	if err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(2)
	}
}
