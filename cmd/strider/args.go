package main

import (
	"errors"

	"github.com/urfave/cli"
)

// Arguments holds the parsed command line. Exactly one command field is set.
type Arguments struct {
	Debug bool

	Version     *VersionArguments
	Inspect     *InspectArguments
	SafeTensors *SafeTensorsArguments
}

// VersionArguments selects the version command.
type VersionArguments struct{}

var (
	errMissingCommand  = errors.New("missing command")
	errMissingArgument = errors.New("missing argument")
)

// ParseArguments parses argv. Help output is printed by the parser itself.
func ParseArguments(argv []string, appVersion string) (*Arguments, error) {
	var args Arguments
	app := cli.NewApp()
	app.Name = "strider"
	app.Usage = "Inspect tensors, views and weight files"
	app.Version = appVersion
	app.UseShortOptionHandling = true

	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "debug", Usage: "Log materialization decisions"},
	}
	app.Before = func(c *cli.Context) error {
		args.Debug = c.Bool("debug")
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "version",
			Usage: "Show version",
			Action: func(_ *cli.Context) error {
				args.Version = &VersionArguments{}
				return nil
			},
		},
		{
			Name:      "inspect",
			Usage:     "Load a JSON array and report its shape and the view decision for a slice",
			ArgsUsage: "<json-file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "dtype,t", Value: "fp32", Usage: "Storage dtype (ternary, int4, int8, int32, fp16, fp32)"},
				cli.StringFlag{Name: "slice,s", Usage: "Per-dimension selection, e.g. \"0:4:2,1,:\""},
				cli.StringFlag{Name: "policy,p", Usage: "YAML materialization policy"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errMissingArgument
				}
				args.Inspect = &InspectArguments{
					File:       c.Args().Get(0),
					Dtype:      c.String("dtype"),
					Slice:      c.String("slice"),
					PolicyFile: c.String("policy"),
				}
				return nil
			},
		},
		{
			Name:      "safetensors",
			Usage:     "List the tensors of a SafeTensors file",
			ArgsUsage: "<file>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errMissingArgument
				}
				args.SafeTensors = &SafeTensorsArguments{File: c.Args().Get(0)}
				return nil
			},
		},
	}

	if err := app.Run(argv); err != nil {
		return nil, err
	}
	if args.Version == nil && args.Inspect == nil && args.SafeTensors == nil {
		return &args, errMissingCommand
	}
	return &args, nil
}
