package main

import (
	"fmt"
	"os"

	_ "github.com/kardianos/minwinsvc"

	"github.com/value-relay/value-relay/config"
	"github.com/value-relay/value-relay/internal/application"
	"github.com/value-relay/value-relay/internal/logging"
	"github.com/value-relay/value-relay/internal/version"
	"github.com/value-relay/value-relay/relay"
)

func main() {
	loggers := logging.MakeDefaultLoggers()

	opts, err := application.ReadOptions(os.Args[1:])
	if err != nil {
		loggers.Errorf("Error: %s", err)
		os.Exit(1)
	}

	if opts.PrintVersion {
		fmt.Fprintf(os.Stdout, "value-relay %s\n", version.Version)
		return
	}

	loggers.Infof("Starting value relay version %s with %s\n", version.Version, opts.DescribeConfigSource())

	c := config.DefaultConfig
	if opts.ConfigFile != "" {
		if err := config.LoadConfigFile(&c, opts.ConfigFile, loggers); err != nil {
			loggers.Errorf("Error loading config file: %s", err)
			os.Exit(1)
		}
	}
	if opts.UseEnvironment {
		if err := config.LoadConfigFromEnvironment(&c, loggers); err != nil {
			loggers.Errorf("Configuration error: %s", err)
			os.Exit(1)
		}
	}

	r, err := relay.NewRelay(c, loggers)
	if err != nil {
		loggers.Errorf("Unable to create relay: %s", err)
		os.Exit(1)
	}

	_, errCh := application.StartHTTPServer(
		c.Main.Port,
		r,
		c.Main.TLSEnabled,
		c.Main.TLSCert,
		c.Main.TLSKey,
		loggers,
	)

	for err := range errCh {
		loggers.Errorf("Error starting HTTP listener on port: %d  %s", c.Main.Port, err)
		if c.Main.ExitOnError {
			os.Exit(1)
		}
	}
}
