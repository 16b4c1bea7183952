package main

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
)

// validateConfiguration checks a group configuration file the way the API would on save.
func (cli *commandLine) validateConfiguration(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	cfg, err := groupconfig.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}

	if err = cfg.Validate(cli.validate); err != nil {
		if vErr, ok := core.AsValidationError(err); ok {
			fmt.Fprintf(cli.out, "invalid: %s\n", vErr.Error())
			for _, fld := range vErr.Fields {
				fmt.Fprintf(cli.out, "  %s: %s\n", fld.Field, fld.Error)
			}
		}
		return err
	}
	fmt.Fprintf(cli.out, "valid: %q (%d groups)\n", cfg.Name, len(cfg.Groups))
	return nil
}
