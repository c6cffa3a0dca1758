package main

import (
	"flag"
	"io"
	"strings"

	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/gtfs"
)

const defaultGtfsURL = "https://www.soundtransit.org/GTFS-rail/40_gtfs.zip"

// options are the command-line flags. set records which flags were given
// explicitly; only those win over the config file.
type options struct {
	port       int
	env        string
	apiKeys    string
	gtfsURL    string
	dataPath   string
	rateLimit  int
	configPath string
	logLevel   string
	logFormat  string
	set        map[string]bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&opts.port, "port", 4000, "API server port")
	fs.StringVar(&opts.env, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&opts.apiKeys, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	fs.StringVar(&opts.gtfsURL, "gtfs-url", defaultGtfsURL, "URL or path of a static GTFS zip file")
	fs.StringVar(&opts.dataPath, "data-path", "", "SQLite file the transit graph is persisted to (empty disables)")
	fs.IntVar(&opts.rateLimit, "rate-limit", 100, "Requests per second per API key (0 disables)")
	fs.StringVar(&opts.configPath, "config", "", "Optional YAML config file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&opts.logFormat, "log-format", "json", "Log format (json|text)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func splitAPIKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// buildConfigs merges the flags with an optional config file. Explicit flags win,
// then non-zero file values, then flag defaults.
func buildConfigs(opts options, file appconf.FileConfig) (appconf.Config, gtfs.Config) {
	pickInt := func(name string, flagValue, fileValue int) int {
		if opts.set[name] || fileValue == 0 {
			return flagValue
		}
		return fileValue
	}
	pickString := func(name, flagValue, fileValue string) string {
		if opts.set[name] || fileValue == "" {
			return flagValue
		}
		return fileValue
	}

	env := appconf.EnvFlagToEnvironment(pickString("env", opts.env, file.Server.Env))
	apiKeys := splitAPIKeys(opts.apiKeys)
	if !opts.set["api-keys"] && len(file.Server.ApiKeys) > 0 {
		apiKeys = file.Server.ApiKeys
	}

	cfg := appconf.Config{
		Port:      pickInt("port", opts.port, file.Server.Port),
		Env:       env,
		ApiKeys:   apiKeys,
		RateLimit: pickInt("rate-limit", opts.rateLimit, file.Server.RateLimit),
	}

	gtfsCfg := gtfs.Config{
		GtfsURL:        pickString("gtfs-url", opts.gtfsURL, file.GTFS.StaticURL),
		GTFSDataPath:   pickString("data-path", opts.dataPath, file.GTFS.DataPath),
		Env:            env,
		Verbose:        true,
		ReloadInterval: file.GTFS.ReloadInterval,
		CandidateCount: file.Planner.CandidateCount,
		Workers:        file.Planner.Workers,
		CacheSize:      file.Planner.CacheSize,
		CacheTTL:       file.Planner.CacheTTL,
	}
	return cfg, gtfsCfg
}
