package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeFile(t, path, "url: https://api.prismacloud.io\naccess_key: ak\nsecret_key: sk\n")

	creds, err := LoadProfile(path)

	require.NoError(t, err)
	assert.Equal(t, Credentials{
		Endpoint:  "https://api.prismacloud.io",
		AccessKey: "ak",
		SecretKey: "sk",
	}, creds)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	writeFile(t, path, `[default]
url = https://api2.prismacloud.io
access_key = default-ak
secret_key = default-sk

[staging]
url = https://api3.prismacloud.io
access_key = staging-ak
secret_key = staging-sk
`)

	creds, err := LoadCredentialsFile(path, DefaultSection)
	require.NoError(t, err)
	assert.Equal(t, "default-ak", creds.AccessKey)

	creds, err = LoadCredentialsFile(path, "staging")
	require.NoError(t, err)
	assert.Equal(t, "https://api3.prismacloud.io", creds.Endpoint)
	assert.Equal(t, "staging-sk", creds.SecretKey)
}

func TestResolve_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "https://env.prismacloud.io")
	t.Setenv(EnvAccessKey, "env-ak")
	t.Setenv(EnvSecretKey, "env-sk")

	creds, err := Resolve(Credentials{AccessKey: "flag-ak"}, "")

	require.NoError(t, err)
	assert.Equal(t, "flag-ak", creds.AccessKey, "flags take precedence")
	assert.Equal(t, "https://env.prismacloud.io", creds.Endpoint)
	assert.Equal(t, "env-sk", creds.SecretKey)
}

func TestResolve_ProfileFillsRemainder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvSecretKey, "")

	path := filepath.Join(t.TempDir(), "profile.yaml")
	writeFile(t, path, "url: https://profile.prismacloud.io\naccess_key: profile-ak\nsecret_key: profile-sk\n")

	creds, err := Resolve(Credentials{SecretKey: "flag-sk"}, path)

	require.NoError(t, err)
	assert.Equal(t, "https://profile.prismacloud.io", creds.Endpoint)
	assert.Equal(t, "profile-ak", creds.AccessKey)
	assert.Equal(t, "flag-sk", creds.SecretKey)
}

func TestResolve_DefaultCredentialsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvSecretKey, "")

	writeFile(t, filepath.Join(home, ".prismacloud", "credentials"), `[default]
url = https://stored.prismacloud.io
access_key = stored-ak
secret_key = stored-sk
`)

	creds, err := Resolve(Credentials{}, "")

	require.NoError(t, err)
	assert.Equal(t, "https://stored.prismacloud.io", creds.Endpoint)
	assert.Equal(t, "stored-ak", creds.AccessKey)
}

func TestResolve_NoSourcesLeavesCredentialsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvSecretKey, "")

	creds, err := Resolve(Credentials{}, "")

	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}
