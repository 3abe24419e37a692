// Package config loads the davfs CLI configuration: named endpoints declared
// in CUE, each describing how to reach one storage backend.
//
// Example config.cue:
//
//	default: "nextcloud"
//	endpoints: {
//	    nextcloud: {
//	        type: "webdav"
//	        url:  "https://cloud.example.com/remote.php/dav/files/me"
//	        timeout: "30s"
//	    }
//	    archive: {
//	        type:   "s3"
//	        url:    "https://s3.example.com"
//	        bucket: "archive"
//	        region: "eu-west-1"
//	    }
//	}
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/adrg/xdg"
)

// FileName is the location of the config file below the XDG config
// directories.
const FileName = "davfs/config.cue"

// Environment variables overriding endpoint credentials.
const (
	EnvUsername = "DAVFS_USERNAME"
	EnvPassword = "DAVFS_PASSWORD"
)

//go:embed schema.cue
var schemaSource string

// Endpoint types.
const (
	TypeWebDAV = "webdav"
	TypeS3     = "s3"
	TypeMem    = "mem"
	TypeFile   = "file"
)

// Endpoint describes one storage backend.
type Endpoint struct {
	Type            string            `json:"type"`
	URL             string            `json:"url"`
	Bucket          string            `json:"bucket,omitempty"`
	Prefix          string            `json:"prefix,omitempty"`
	Region          string            `json:"region,omitempty"`
	Username        string            `json:"username,omitempty"`
	Password        string            `json:"password,omitempty"`
	Timeout         string            `json:"timeout,omitempty"`
	ReadConcurrency int               `json:"readConcurrency,omitempty"`
	MaxStagedSize   int64             `json:"maxStagedSize,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
}

// HTTPTimeout returns the parsed Timeout, or zero when unset.
func (e Endpoint) HTTPTimeout() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", e.Timeout, err)
	}
	return d, nil
}

// Config is the decoded configuration file.
type Config struct {
	Default   string              `json:"default,omitempty"`
	Endpoints map[string]Endpoint `json:"endpoints"`
}

// ErrUnknownEndpoint is returned when a name matches no configured endpoint.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Parse validates data against the configuration schema and decodes it.
// filename is only used in error messages.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", filename, err)
	}

	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", filename, err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	if cfg.Endpoints == nil {
		cfg.Endpoints = map[string]Endpoint{}
	}
	if _, ok := cfg.Endpoints[cfg.Default]; cfg.Default != "" && !ok {
		return nil, fmt.Errorf("invalid configuration %s: default: %w %q", filename, ErrUnknownEndpoint, cfg.Default)
	}
	return &cfg, nil
}

// Load reads the configuration at path. With an empty path the file is
// searched in the XDG config directories; when none exists an empty
// configuration is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(FileName)
		if err != nil {
			return &Config{Endpoints: map[string]Endpoint{}}, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, path)
}

// Endpoint returns the endpoint called name, or the default endpoint when
// name is empty. Credentials are overridden from the environment.
func (c *Config) Endpoint(name string) (Endpoint, error) {
	if name == "" {
		name = c.Default
	}
	e, ok := c.Endpoints[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w %q", ErrUnknownEndpoint, name)
	}
	return e.withEnv(os.Getenv), nil
}

func (e Endpoint) withEnv(getenv func(string) string) Endpoint {
	if v := getenv(EnvUsername); v != "" {
		e.Username = v
	}
	if v := getenv(EnvPassword); v != "" {
		e.Password = v
	}
	return e
}
