package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from defaults,
// an optional .env file and SCHOOLHUB_-prefixed environment variables.
type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	AppName  string
	Build    string

	// SecretKey signs and encrypts the session cookies.
	SecretKey string

	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
	}

	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	Session struct {
		// RememberMaxAge is the cookie lifetime when "remember me" is checked;
		// without it the cookie is scoped to the browser session.
		RememberMaxAge time.Duration
	}

	Rollbar struct {
		Token string
	}
}

// LoadConfig reads configuration for the given environment. A missing .env
// file is not an error; a malformed one is.
func LoadConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	v := viper.New()
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testmode", env == "TEST")
	v.SetDefault("env", env)
	v.SetDefault("appname", "SchoolHub")
	v.SetDefault("build", "dev")
	v.SetDefault("secretkey", "km2c#y!g4h^$ce-wer)enb$+57=dz&uoxh2(h0q5")
	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.shutdowntimeout", 20*time.Second)
	v.SetDefault("backend.baseurl", "http://127.0.0.1:5000")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("session.remembermaxage", 30*24*time.Hour)
	v.SetDefault("rollbar.token", "")

	dotEnvPath := filepath.Join(".", "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "looking up %s", dotEnvPath)
	}

	v.SetEnvPrefix("SCHOOLHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	return &conf, nil
}
