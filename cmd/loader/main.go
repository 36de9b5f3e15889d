package main

import (
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/fortmap/fortmap/internal/config"
	"github.com/fortmap/fortmap/internal/logger"
	"github.com/fortmap/fortmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file"      default:"config.yaml"`
	OutputDir  string `short:"o" long:"output" env:"OUTPUT_DIR"  description:"Directory for normalized output" default:"data"`
	Force      bool   `short:"f" long:"force"  description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	log.Info().
		Str("source", cfg.Feed.Source()).
		Str("output", opts.OutputDir).
		Bool("force", opts.Force).
		Msg("Starting loader")

	if err := processor.Run(client, cfg.Feed.Source(), opts.OutputDir, opts.Force); err != nil {
		log.Fatal().Err(err).Msg("Failed to process feature feed")
	}

	log.Info().Msg("Loader finished successfully")
}
