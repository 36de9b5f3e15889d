package server

import (
	"github.com/rs/zerolog/log"

	"github.com/fortmap/fortmap/assets"
	"github.com/fortmap/fortmap/internal/config"
	"github.com/fortmap/fortmap/internal/store"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Store     *store.Store
	IndexHTML []byte
	Favicon   []byte
}

// NewServerContext initializes the handler context with the minified page
// and the shared feature store.
func NewServerContext(cfg *config.Config, st *store.Store) *ServerContext {
	log.Info().Str("feed", cfg.Feed.Source()).Msg("Initializing server context")

	return &ServerContext{
		Config:    cfg,
		Store:     st,
		IndexHTML: assets.Page(),
		Favicon:   assets.Favicon,
	}
}
