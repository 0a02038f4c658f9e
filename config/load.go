package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads an optional .env file into the environment and returns the
// configuration parsed from environment variables.
func Load() (conf Configuration, err error) {

	// load .env file into environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// ignore simple "not found" errors
		return conf, fmt.Errorf("failed to load dotenv: %w", err)
	}

	// parse configuration from environment variables
	if err := envconfig.Process(envprefix, &conf); err != nil {
		return conf, fmt.Errorf("failed parsing config: %w", err)
	}

	if conf.Width <= 0 {
		return conf, fmt.Errorf("width must be positive, got %d", conf.Width)
	}
	return conf, nil
}

// PrintUsage writes a table of all recognized environment variables.
func PrintUsage(w io.Writer) error {
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(envprefix, &Configuration{}, tabs, usageHelpFormat); err != nil {
		return err
	}
	return tabs.Flush()
}

// see https://github.com/kelseyhightower/envconfig/blob/v1.4.0/usage.go#L31
const usageHelpFormat = `Defaults can be set with the following environment variables:
KEY	DESCRIPTION	DEFAULT
{{range .}}{{usage_key .}}	{{usage_description .}}	{{usage_default .}}
{{end}}`
