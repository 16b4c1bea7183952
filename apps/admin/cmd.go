package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out      io.Writer
	validate *validator.Validate
	openDB   func() (*sql.DB, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]  - run a database migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  validate -file PATH     - validate a group configuration JSON file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateCmd.SetOutput(cli.out)
	validateFile := validateCmd.String("file", "", "Path to a group configuration, as sent to the API.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "validate":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *validateFile == "" {
			validateCmd.Usage()
			return errHelp
		}
		return cli.validateConfiguration(*validateFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
