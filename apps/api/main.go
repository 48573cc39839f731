package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinigoal/backoffice/apps/api/echo"
	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/core/quiz"
	"github.com/clinigoal/backoffice/core/review"
	"github.com/clinigoal/backoffice/core/user"
	"github.com/clinigoal/backoffice/services/email"
	"github.com/clinigoal/backoffice/services/logger"
	"github.com/clinigoal/backoffice/storage/database"
	"github.com/clinigoal/backoffice/storage/kvstore/dummy"
	"github.com/clinigoal/backoffice/storage/kvstore/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}

	var logSvc core.Logger
	if conf.Debug {
		logSvc = logsvc.NewConsoleLogger(std)
	} else {
		logSvc = logsvc.NewRollbarLogger(std, conf)
	}

	// set up the bucket store
	var store core.KeyValueStore
	if conf.Debug {
		store = dummystore.Open()
	} else {
		if err := database.CreateIfNotExist(conf); err != nil {
			logSvc.Fatal(err.Error())
		}
		db, err := database.Open(conf)
		if err != nil {
			logSvc.Fatal(fmt.Sprintf("opening database: %v", err))
		}
		defer func() { _ = db.Close() }()
		if err := database.Ping(db); err != nil {
			logSvc.Fatal(err.Error())
		}
		if err := database.Migrate(db); err != nil {
			logSvc.Fatal(err.Error())
		}
		store = sqlxstore.New(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logSvc)
	}
	deps := &echoapi.Deps{
		Conf:       conf,
		Logger:     logSvc,
		UserSvc:    user.NewService(store, logSvc),
		PaymentSvc: payment.NewService(store, mailSvc, logSvc),
		ReviewSvc:  review.NewService(store, logSvc),
		Tracker:    quiz.NewTracker(store, logSvc),
	}

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(conf.Server.Addr, shutdown, deps)

	serverErrors := make(chan error, 1)
	go func() { serverErrors <- app.Start() }()

	select {
	case err := <-serverErrors:
		logSvc.Fatal(fmt.Sprintf("server error: %v", err))
	case sig := <-shutdown:
		logSvc.Info(fmt.Sprintf("%v: starting shutdown...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			logSvc.Error(fmt.Sprintf("graceful shutdown failed: %v", err))
		}
	}
}
