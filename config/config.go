// Package config loads client settings from a TOML file.
//
//	[endpoint]
//	host = "127.0.0.1"
//	port = 8332
//
//	[auth]
//	user = "alice"
//	password = "secret"
//
//	[client]
//	request_id = "1"
//	timeout = "10s"
//	rate = 5.0
//	burst = 1
//	log = true
//
//	[registry]
//	etcd = ["127.0.0.1:2379"]
//	service = "wallet"
//	balancer = "consistent-hash"
//
// JSONRPC_USER and JSONRPC_PASSWORD override the credentials from the file.
package config

import (
	"os"
	"time"

	"mini-jsonrpc/client"
	"mini-jsonrpc/loadbalance"
	"mini-jsonrpc/middleware"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	EnvUser     = "JSONRPC_USER"
	EnvPassword = "JSONRPC_PASSWORD"

	defaultRequestID   = "1"
	defaultDialTimeout = 5 * time.Second
)

type Endpoint struct {
	Host string `toml:"host"`
	Port uint16 `toml:"port"`
}

type Auth struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type Client struct {
	RequestID string  `toml:"request_id"`
	Timeout   string  `toml:"timeout"` // time.ParseDuration format, empty for none
	Rate      float64 `toml:"rate"`    // calls per second, 0 disables limiting
	Burst     int     `toml:"burst"`
	Log       bool    `toml:"log"`
}

type Registry struct {
	Etcd        []string `toml:"etcd"`
	DialTimeout string   `toml:"dial_timeout"`
	Service     string   `toml:"service"`
	Balancer    string   `toml:"balancer"`
	HashKey     string   `toml:"hash_key"` // defaults to the user
}

// File is the decoded configuration file.
type File struct {
	Endpoint Endpoint `toml:"endpoint"`
	Auth     Auth     `toml:"auth"`
	Client   Client   `toml:"client"`
	Registry Registry `toml:"registry"`
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*File, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := f.Complete(); err != nil {
		return nil, errors.Wrapf(err, "invalid config '%s'", path)
	}
	return f, nil
}

// Read decodes path and applies environment overrides. Defaults are not
// filled in and nothing is validated, so callers can layer more overrides
// on top before calling Complete.
func Read(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config '%s'", path)
	}
	f.ApplyEnv()
	return &f, nil
}

// Parse decodes a configuration held in memory.
func Parse(data string) (*File, error) {
	var f File
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	f.ApplyEnv()
	if err := f.Complete(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Complete fills in defaults and validates f.
func (f *File) Complete() error {
	f.setDefaults()
	return f.Validate()
}

// ApplyEnv overrides credentials with JSONRPC_USER and JSONRPC_PASSWORD when set.
func (f *File) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvUser); ok {
		f.Auth.User = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		f.Auth.Password = v
	}
}

func (f *File) setDefaults() {
	if f.Client.RequestID == "" {
		f.Client.RequestID = defaultRequestID
	}
	if f.Client.Rate > 0 && f.Client.Burst <= 0 {
		f.Client.Burst = 1
	}
}

// hashKey falls back to the user so that one user keeps landing on the same
// endpoint. It is derived on use, so a later change of the user is honoured.
func (f *File) hashKey() string {
	if f.Registry.HashKey != "" {
		return f.Registry.HashKey
	}
	return f.Auth.User
}

// UsesRegistry reports whether the endpoint comes from etcd.
func (f *File) UsesRegistry() bool {
	return len(f.Registry.Etcd) > 0
}

// Validate checks that a client can be built from f.
func (f *File) Validate() error {
	if f.UsesRegistry() {
		if f.Registry.Service == "" {
			return errors.New("registry.service is required when registry.etcd is set")
		}
		if _, err := loadbalance.New(f.Registry.Balancer, f.hashKey()); err != nil {
			return err
		}
	} else {
		if f.Endpoint.Host == "" {
			return errors.New("endpoint.host is required")
		}
		if f.Endpoint.Port == 0 {
			return errors.New("endpoint.port is required")
		}
	}
	if f.Client.Rate < 0 {
		return errors.New("client.rate must not be negative")
	}
	if f.Client.Burst < 0 {
		return errors.New("client.burst must not be negative")
	}
	if _, err := f.Timeout(); err != nil {
		return err
	}
	if _, err := f.DialTimeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-call timeout, zero when unset.
func (f *File) Timeout() (time.Duration, error) {
	return parseDuration("client.timeout", f.Client.Timeout, 0)
}

// DialTimeout returns the etcd dial timeout.
func (f *File) DialTimeout() (time.Duration, error) {
	return parseDuration("registry.dial_timeout", f.Registry.DialTimeout, defaultDialTimeout)
}

func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	if d < 0 {
		return 0, errors.Errorf("%s must not be negative", name)
	}
	return d, nil
}

// ClientConfig returns the connection identity. Host and port are empty when
// the endpoint is resolved through the registry.
func (f *File) ClientConfig() client.Config {
	return client.Config{
		Host:      f.Endpoint.Host,
		Port:      f.Endpoint.Port,
		User:      f.Auth.User,
		Password:  f.Auth.Password,
		RequestID: f.Client.RequestID,
	}
}

// Options turns the [client] section into client options. logger is used
// only when logging is enabled.
func (f *File) Options(logger zerolog.Logger) ([]client.Option, error) {
	timeout, err := f.Timeout()
	if err != nil {
		return nil, err
	}

	var opts []client.Option
	var mws []middleware.Middleware
	if timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}
	if f.Client.Log {
		mws = append(mws, middleware.LoggingMiddleware(logger))
	}
	if f.Client.Rate > 0 {
		burst := f.Client.Burst
		if burst <= 0 {
			burst = 1
		}
		mws = append(mws, middleware.RateLimitMiddleware(f.Client.Rate, burst))
	}
	if len(mws) > 0 {
		opts = append(opts, client.WithMiddleware(mws...))
	}
	return opts, nil
}

// Balancer returns the configured endpoint picking strategy.
func (f *File) Balancer() (loadbalance.Balancer, error) {
	return loadbalance.New(f.Registry.Balancer, f.hashKey())
}
