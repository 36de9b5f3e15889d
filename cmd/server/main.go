package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fortmap/fortmap/internal/config"
	"github.com/fortmap/fortmap/internal/enrich"
	"github.com/fortmap/fortmap/internal/logger"
	"github.com/fortmap/fortmap/internal/server"
	"github.com/fortmap/fortmap/internal/store"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	enricher := enrich.New(cfg.Enrichment, client)
	st := store.New(cfg.Feed.Source(), client, enricher)

	// A failed initial load is recoverable through /api/reload, so the
	// server starts either way.
	if err := st.Load(); err != nil {
		log.Error().Err(err).Msg("Initial feed load failed, waiting for reload")
	}

	srvCtx := server.NewServerContext(cfg, st)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/features", srvCtx.HandleFeatures)
	mux.HandleFunc("/api/search", srvCtx.HandleSearch)
	mux.HandleFunc("/api/reload", srvCtx.HandleReload)
	mux.HandleFunc("/api/enrich/", srvCtx.HandleEnrich)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/favicon.svg", srvCtx.HandleFavicon)
	mux.HandleFunc("/", srvCtx.HandleIndex)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("feed", cfg.Feed.Source()).
		Bool("feed_loaded", st.Loaded()).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
