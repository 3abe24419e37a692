package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/billy"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/minio"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/webdav"
)

const sampleConfig = `
default: "cloud"
endpoints: {
	cloud: {
		type:    "webdav"
		url:     "https://cloud.example.com/remote.php/dav/files/me"
		timeout: "30s"
		headers: "X-Client": "davfs"
	}
	archive: {
		type:     "s3"
		url:      "https://s3.example.com"
		bucket:   "archive"
		region:   "eu-west-1"
		username: "key"
		password: "secret"

		maxStagedSize: 268435456
	}
	scratch: {
		type: "mem"
		url:  "mem:///"
	}
}
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:  "valid",
			input: sampleConfig,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "cloud", cfg.Default)
				require.Len(t, cfg.Endpoints, 3)
				cloud := cfg.Endpoints["cloud"]
				assert.Equal(t, TypeWebDAV, cloud.Type)
				assert.Equal(t, "davfs", cloud.Headers["X-Client"])
				d, err := cloud.HTTPTimeout()
				require.NoError(t, err)
				assert.Equal(t, 30*time.Second, d)
				assert.Equal(t, "archive", cfg.Endpoints["archive"].Bucket)
				assert.Equal(t, int64(256<<20), cfg.Endpoints["archive"].MaxStagedSize)
			},
		},
		{
			name:  "empty",
			input: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Endpoints)
			},
		},
		{
			name:    "unknown type",
			input:   `endpoints: x: {type: "ftp", url: "ftp://h"}`,
			wantErr: "invalid configuration",
		},
		{
			name:    "s3 without bucket",
			input:   `endpoints: x: {type: "s3", url: "https://s3"}`,
			wantErr: "invalid configuration",
		},
		{
			name:    "unknown field",
			input:   `endpoints: x: {type: "mem", url: "mem:///", colour: "blue"}`,
			wantErr: "invalid configuration",
		},
		{
			name:    "bad timeout",
			input:   `endpoints: x: {type: "mem", url: "mem:///", timeout: "soon"}`,
			wantErr: "invalid configuration",
		},
		{
			name:    "missing default",
			input:   `default: "nope", endpoints: x: {type: "mem", url: "mem:///"}`,
			wantErr: "unknown endpoint",
		},
		{
			name:    "zero staged size",
			input:   `endpoints: x: {type: "mem", url: "mem:///", maxStagedSize: 0}`,
			wantErr: "invalid configuration",
		},
		{
			name:    "syntax error",
			input:   `endpoints: {`,
			wantErr: "failed to compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input), "config.cue")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cue")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Endpoints, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}

func TestLoad_XDG(t *testing.T) {
	// xdg resolves its directories once; reload after the environment changes
	// and again once it is restored.
	t.Cleanup(xdg.Reload)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Endpoints)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "davfs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sampleConfig), 0o600))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Endpoints, 3)
}

func TestConfig_Endpoint(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), "config.cue")
	require.NoError(t, err)

	e, err := cfg.Endpoint("")
	require.NoError(t, err)
	assert.Equal(t, TypeWebDAV, e.Type)

	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvPassword, "env-pass")
	e, err = cfg.Endpoint("archive")
	require.NoError(t, err)
	assert.Equal(t, "env-user", e.Username)
	assert.Equal(t, "env-pass", e.Password)

	_, err = cfg.Endpoint("nope")
	assert.True(t, errors.Is(err, ErrUnknownEndpoint))
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "https://dav.example.com/x", want: TypeWebDAV},
		{raw: "davs://dav.example.com/x", want: TypeWebDAV},
		{raw: "mem:///", want: TypeMem},
		{raw: "file:///tmp/data", want: TypeFile},
		{raw: "s3://bucket/key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e, err := FromURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Type)
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		endpoint Endpoint
		wantBase string
		check    func(t *testing.T, target *Target)
	}{
		{
			name:     "webdav",
			endpoint: Endpoint{Type: TypeWebDAV, URL: "https://me:pw@dav.example.com/files/me", Timeout: "5s"},
			wantBase: "https://dav.example.com/files/me",
			check: func(t *testing.T, target *Target) {
				assert.IsType(t, &webdav.Client{}, target.Transport)
			},
		},
		{
			name:     "s3",
			endpoint: Endpoint{Type: TypeS3, URL: "http://localhost:9000", Bucket: "b"},
			wantBase: "/",
			check: func(t *testing.T, target *Target) {
				assert.IsType(t, &minio.Store{}, target.Transport)
			},
		},
		{
			name:     "mem",
			endpoint: Endpoint{Type: TypeMem, URL: "mem:///"},
			wantBase: "/",
			check: func(t *testing.T, target *Target) {
				assert.IsType(t, &billy.FS{}, target.Transport)
			},
		},
		{
			name:     "file",
			endpoint: Endpoint{Type: TypeFile, URL: "file://" + dir},
			wantBase: "/",
			check: func(t *testing.T, target *Target) {
				assert.IsType(t, &billy.FS{}, target.Transport)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Build(tt.endpoint, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, target.BaseURL)
			tt.check(t, target)
		})
	}

	_, err := Build(Endpoint{Type: TypeWebDAV, URL: "https://h", Timeout: "later"}, nil)
	assert.Error(t, err)
	_, err = Build(Endpoint{Type: "ftp", URL: "ftp://h"}, nil)
	assert.Error(t, err)
}
