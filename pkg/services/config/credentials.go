package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Environment variables consulted when flags leave a credential unset.
const (
	EnvEndpoint  = "PRISMA_API_ENDPOINT"
	EnvAccessKey = "PRISMA_ACCESS_KEY"
	EnvSecretKey = "PRISMA_SECRET_KEY"
)

// DefaultSection is the credentials-file section used when no profile name
// is given.
const DefaultSection = "default"

// Credentials identify one tenant API session.
type Credentials struct {
	Endpoint  string `mapstructure:"url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// withFallback fills unset fields from other.
func (c Credentials) withFallback(other Credentials) Credentials {
	if c.Endpoint == "" {
		c.Endpoint = other.Endpoint
	}
	if c.AccessKey == "" {
		c.AccessKey = other.AccessKey
	}
	if c.SecretKey == "" {
		c.SecretKey = other.SecretKey
	}
	return c
}

// FromEnv reads credentials from the environment.
func FromEnv() Credentials {
	return Credentials{
		Endpoint:  os.Getenv(EnvEndpoint),
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}
}

// LoadProfile reads a YAML profile with url / access_key / secret_key keys.
func LoadProfile(path string) (Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Credentials{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	var creds Credentials
	if err := v.Unmarshal(&creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return creds, nil
}

// LoadCredentialsFile reads one section of an INI credentials file.
func LoadCredentialsFile(path, section string) (Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	sec := cfg.Section(section)
	return Credentials{
		Endpoint:  sec.Key("url").String(),
		AccessKey: sec.Key("access_key").String(),
		SecretKey: sec.Key("secret_key").String(),
	}, nil
}

// DefaultCredentialsPath returns ~/.prismacloud/credentials.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".prismacloud", "credentials"), nil
}

// Resolve merges credential sources by precedence: explicit flags, then
// environment, then the profile file when one was named, otherwise the
// default credentials file when present.
func Resolve(flags Credentials, profilePath string) (Credentials, error) {
	creds := flags.withFallback(FromEnv())

	if profilePath != "" {
		profile, err := LoadProfile(profilePath)
		if err != nil {
			return Credentials{}, err
		}
		return creds.withFallback(profile), nil
	}

	path, err := DefaultCredentialsPath()
	if err != nil {
		return creds, nil
	}
	if _, err := os.Stat(path); err != nil {
		return creds, nil
	}
	stored, err := LoadCredentialsFile(path, DefaultSection)
	if err != nil {
		return Credentials{}, err
	}
	return creds.withFallback(stored), nil
}
