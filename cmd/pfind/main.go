package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/pfind/pfind/internal/config"
	"github.com/pfind/pfind/internal/logging"
	"github.com/pfind/pfind/internal/nameservice"
)

func main() {
	opts := config.NewOptions()
	log := logging.CreateLogEntry(os.Stderr, logrus.InfoLevel)

	f := &finder{
		opts:   opts,
		log:    log,
		names:  nameservice.NewHost(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app := newApp(opts, os.Stdout, os.Stderr, func(cCtx *cli.Context) error {
		return f.run(cCtx.Context)
	})

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
