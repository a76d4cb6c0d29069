package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"mini-jsonrpc/client"
	"mini-jsonrpc/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var callCommand = cli.Command{
	Name:      "call",
	Usage:     "Call a method and print its result as JSON.",
	ArgsUsage: "<method> [param ...]",
	Description: "Each param is sent as JSON when it parses as JSON and as a string otherwise,\n" +
		"   so 100 is a number, true a boolean and addr1 a string. Use '\"100\"' to force a string.",
	Action: call,
}

func call(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return fmt.Errorf("method is required")
	}
	method := ctx.Args().First()
	params := parseParams(ctx.Args().Tail())

	f, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	c, err := f.NewClient(context.Background(), log.Logger)
	if err != nil {
		return err
	}

	var result json.RawMessage
	ok, err := c.Call(context.Background(), method, params, &result)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, ok, result)
}

// parseParams keeps the order of args. Valid JSON is passed through verbatim.
func parseParams(args []string) []any {
	params := make([]any, 0, len(args))
	for _, arg := range args {
		if json.Valid([]byte(arg)) {
			params = append(params, json.RawMessage(arg))
			continue
		}
		params = append(params, arg)
	}
	return params
}

func printResult(w io.Writer, ok bool, result json.RawMessage) error {
	if !ok {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to format result")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// overrides are the global flags that take precedence over the config file.
type overrides struct {
	host     string
	port     uint
	portSet  bool
	user     string
	password string
	id       string
	timeout  time.Duration
	timeSet  bool
	debug    bool
}

func overridesFrom(ctx *cli.Context) overrides {
	return overrides{
		host:     ctx.GlobalString("host"),
		port:     ctx.GlobalUint("port"),
		portSet:  ctx.GlobalIsSet("port"),
		user:     ctx.GlobalString("user"),
		password: ctx.GlobalString("password"),
		id:       ctx.GlobalString("id"),
		timeout:  ctx.GlobalDuration("timeout"),
		timeSet:  ctx.GlobalIsSet("timeout"),
		debug:    ctx.GlobalBool("debug"),
	}
}

// apply writes o onto f. Defaults are derived afterwards, so values that
// depend on others (request id, consistent hash key) see the overrides.
func (o overrides) apply(f *config.File) error {
	if o.host != "" {
		f.Endpoint.Host = o.host
	}
	if o.portSet {
		if o.port > 65535 {
			return fmt.Errorf("port %d out of range", o.port)
		}
		f.Endpoint.Port = uint16(o.port)
	}
	if o.user != "" {
		f.Auth.User = o.user
	}
	if o.password != "" {
		f.Auth.Password = o.password
	}
	if o.id != "" {
		f.Client.RequestID = o.id
	}
	if o.timeSet {
		f.Client.Timeout = o.timeout.String()
	}
	if o.debug {
		f.Client.Log = true
	}
	return f.Complete()
}

// loadConfig reads --config when given and lets flags override it.
func loadConfig(ctx *cli.Context) (*config.File, error) {
	f := &config.File{}
	if path := ctx.GlobalString("config"); path != "" {
		read, err := config.Read(path)
		if err != nil {
			return nil, err
		}
		f = read
	}
	if err := overridesFrom(ctx).apply(f); err != nil {
		return nil, err
	}
	return f, nil
}

// exitCode separates the error classes: 1 transport, 2 bad response, 3 peer error, 4 anything else.
func exitCode(err error) int {
	if _, ok := client.IsRPCError(err); ok {
		return 3
	}
	switch {
	case errors.Is(err, client.ErrTransport):
		return 1
	case errors.Is(err, client.ErrResponseFormat):
		return 2
	default:
		return 4
	}
}
