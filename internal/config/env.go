package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// TokenEnv holds the API token sent with every request.
	TokenEnv = "CORTEX_GENERATE_COMMIT_MESSAGE_TOKEN"
	// HostnameEnv overrides the API base URL.
	HostnameEnv = "CORTEX_COMMIT_MESSAGES_API_HOSTNAME"
	// DefaultHostname is the API base URL used when HostnameEnv is unset.
	DefaultHostname = "https://commits.denyhs.com"
)

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New(TokenEnv + " environment variable is not set")

// Environment carries the process-level settings read from the environment.
type Environment struct {
	Token    string
	Hostname string
}

// LoadEnvironment reads the API settings from the environment after loading
// any dotenv files given. Missing dotenv files are skipped; variables already
// present in the environment are not overwritten.
func LoadEnvironment(dotenvFiles ...string) (Environment, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Environment{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault("hostname", DefaultHostname)
	if err := v.BindEnv("token", TokenEnv); err != nil {
		return Environment{}, err
	}
	if err := v.BindEnv("hostname", HostnameEnv); err != nil {
		return Environment{}, err
	}

	env := Environment{
		Token:    strings.TrimSpace(v.GetString("token")),
		Hostname: strings.TrimRight(strings.TrimSpace(v.GetString("hostname")), "/"),
	}
	if env.Hostname == "" {
		env.Hostname = DefaultHostname
	}
	return env, nil
}

// RequireToken returns ErrMissingToken when the token is empty.
func (e Environment) RequireToken() error {
	if e.Token == "" {
		return ErrMissingToken
	}
	return nil
}
