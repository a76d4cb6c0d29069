package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "jsonrpc-call"
	app.Usage = "call methods on a JSON-RPC 2.0 endpoint over HTTP with basic auth"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a TOML client config",
		},
		cli.StringFlag{
			Name:  "host",
			Usage: "RPC host, overrides the config",
		},
		cli.UintFlag{
			Name:  "port",
			Usage: "RPC port, overrides the config",
		},
		cli.StringFlag{
			Name:   "user",
			Usage:  "RPC user",
			EnvVar: "JSONRPC_USER",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "RPC password",
			EnvVar: "JSONRPC_PASSWORD",
		},
		cli.StringFlag{
			Name:  "id",
			Usage: "request id sent with every call",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per call timeout, e.g. 10s",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "log every call",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		level := zerolog.InfoLevel
		if ctx.GlobalBool("debug") {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Logger()
		return nil
	}
	app.Commands = []cli.Command{
		callCommand,
		registerCommand,
		deregisterCommand,
		endpointsCommand,
	}
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("jsonrpc-call failed")
		os.Exit(exitCode(err))
	}
}
