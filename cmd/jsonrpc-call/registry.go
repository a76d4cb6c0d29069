package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"mini-jsonrpc/registry"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var registryFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "etcd",
		Usage: "etcd endpoint, may be repeated (default 127.0.0.1:2379)",
	},
	cli.StringFlag{
		Name:     "service",
		Usage:    "service name the endpoints are grouped under",
		Required: true,
	},
}

var registerCommand = cli.Command{
	Name:      "register",
	Usage:     "Advertise a JSON-RPC endpoint in etcd.",
	ArgsUsage: "<host> <port>",
	Flags: append(
		[]cli.Flag{
			cli.IntFlag{
				Name:  "weight",
				Usage: "weight used by the weighted-random balancer",
				Value: 1,
			},
			cli.StringFlag{
				Name:  "version",
				Usage: "free form version of the endpoint",
			},
		},
		registryFlags...,
	),
	Action: register,
}

var deregisterCommand = cli.Command{
	Name:      "deregister",
	Usage:     "Remove a JSON-RPC endpoint from etcd.",
	ArgsUsage: "<host:port>",
	Flags:     registryFlags,
	Action:    deregister,
}

var endpointsCommand = cli.Command{
	Name:   "endpoints",
	Usage:  "List the endpoints registered for a service.",
	Flags:  registryFlags,
	Action: listEndpoints,
}

func openRegistry(ctx *cli.Context) (*registry.EtcdRegistry, error) {
	endpoints := ctx.StringSlice("etcd")
	if len(endpoints) == 0 {
		endpoints = []string{"127.0.0.1:2379"}
	}
	return registry.NewEtcdRegistry(endpoints, 5*time.Second)
}

func register(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("host and port are required")
	}
	var port uint16
	if _, err := fmt.Sscan(ctx.Args().Get(1), &port); err != nil {
		return fmt.Errorf("invalid port '%s'", ctx.Args().Get(1))
	}
	endpoint := registry.Endpoint{
		Host:    ctx.Args().Get(0),
		Port:    port,
		Weight:  ctx.Int("weight"),
		Version: ctx.String("version"),
	}

	reg, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	service := ctx.String("service")
	if err := reg.Register(context.Background(), service, endpoint, 0); err != nil {
		return err
	}
	log.Info().Str("service", service).Str("endpoint", endpoint.Addr()).Msg("registered")
	return nil
}

func deregister(ctx *cli.Context) error {
	addr := ctx.Args().First()
	if addr == "" {
		return fmt.Errorf("address is required")
	}

	reg, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	service := ctx.String("service")
	if err := reg.Deregister(context.Background(), service, addr); err != nil {
		return err
	}
	log.Info().Str("service", service).Str("endpoint", addr).Msg("deregistered")
	return nil
}

func listEndpoints(ctx *cli.Context) error {
	reg, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	endpoints, err := reg.Discover(context.Background(), ctx.String("service"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tWEIGHT\tVERSION")
	for _, ep := range endpoints {
		fmt.Fprintf(w, "%s\t%d\t%s\n", ep.Addr(), ep.Weight, ep.Version)
	}
	return w.Flush()
}
