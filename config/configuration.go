package config

// Prefix for environment variable names, so OUTPUT_DIR becomes TIMELINE_OUTPUT_DIR.
const envprefix = "TIMELINE"

// Configuration via environment variables with github.com/kelseyhightower/envconfig.
// Commandline flags in the tools use these values as their defaults.
type Configuration struct {

	// OUTPUT_DIR is where rendered pages are written when no explicit output is given.
	// An empty string uses a fresh temporary directory.
	OutputDir string `split_words:"true" desc:"Directory for rendered chart pages"`

	// OPEN launches the system viewer on the rendered page.
	Open bool `desc:"Open the rendered chart in a browser" default:"true"`

	// WIDTH is the default chart width in pixels; heights are fixed per tool.
	Width int `desc:"Chart width in pixels" default:"1000"`

	// LOG_LEVEL and LOG_FORMAT configure the zap logger on stderr.
	LogLevel  string `split_words:"true" desc:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `split_words:"true" desc:"Log encoding (console or json)" default:"console"`
}
