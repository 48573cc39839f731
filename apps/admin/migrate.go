package main

import (
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/clinigoal/backoffice/fs"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.New("migrations require a database connection (disable debug mode)")
	}
	return gooseRunFunc(args[0], cli.db, appfs.FS, "migrations", args[1:]...)
}
