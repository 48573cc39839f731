package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/core/review"
	"github.com/clinigoal/backoffice/core/user"
	"github.com/clinigoal/backoffice/services/email"
	"github.com/clinigoal/backoffice/services/logger"
	"github.com/clinigoal/backoffice/storage/database"
	"github.com/clinigoal/backoffice/storage/kvstore/dummy"
	"github.com/clinigoal/backoffice/storage/kvstore/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)
	logSvc := logsvc.NewConsoleLogger(logger)

	// set up the bucket store
	var store core.KeyValueStore
	var db *sql.DB
	if conf.Debug {
		store = dummystore.Open()
	} else {
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))
		store = sqlxstore.New(db)
	}

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(store, logSvc),
		paySvc: payment.NewService(store, emailsvc.NewConsoleService(conf), logSvc),
		revSvc: review.NewService(store, logSvc),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
