package main

import (
	"fmt"
	"log"
	"os"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/core/operation"
	"github.com/darasalabs/darasa/core/session"
	logsvc "github.com/darasalabs/darasa/services/logger"
	notifiersvc "github.com/darasalabs/darasa/services/notifier"
	"github.com/darasalabs/darasa/storage/sessionstore"
	"github.com/darasalabs/darasa/transport"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stderr, "DARASA : ", log.LstdFlags)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("%+v", err)
	}

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	store := sessionstore.NewFileStore(conf.SessionFile)
	client := transport.NewClient(conf, transport.Options{Store: store, Logger: logger})

	validate, translator := core.NewValidator()
	session.RegisterValidations(validate, translator)
	sess := session.NewManager(client, store, validate, logger)
	client.OnSessionInvalid(func(reason error) {
		sess.HandleSessionInvalid(reason)
		fmt.Fprintln(os.Stderr, "your session has expired - please log in again")
	})
	sess.InitializeAuth()

	runner := operation.NewRunner(notifiersvc.NewConsoleNotifier(os.Stderr), logger)

	cli := &commandLine{
		conf:        conf,
		out:         os.Stdout,
		sess:        sess,
		runner:      runner,
		activities:  api.NewActivityAPI(client),
		submissions: api.NewSubmissionAPI(client, conf),
		grades:      api.NewGradeAPI(client),
		admin:       api.NewAdminAPI(client),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}
