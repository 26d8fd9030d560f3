// Package node wires configuration, logging, the request journal, metrics
// and the instruction API into a single runnable service.
package node

import (
	"fmt"
	"sync"

	"github.com/Klingon-tech/solforge/config"
	"github.com/Klingon-tech/solforge/internal/api"
	klog "github.com/Klingon-tech/solforge/internal/log"
	"github.com/rs/zerolog"
)

// Routes lists the endpoints served by the API, in banner order.
var Routes = []string{
	"GET  /health",
	"POST /keypair",
	"POST /token/create",
	"POST /token/mint",
	"POST /message/sign",
	"POST /message/verify",
	"POST /send/sol",
	"POST /send/token",
}

// Node is a fully-initialized instruction service.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	journal journal
	metrics *api.Metrics
	server  *api.Server

	stopOnce sync.Once
}

// journal is the API journal plus its lifecycle.
type journal interface {
	api.Journal
	Close() error
}

// New creates and initializes a new Node. It sets up the logger, journal,
// metrics and API server but does NOT start listening. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, expandHome(cfg.Log.File)); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.Node
	klog.Config.Debug().
		Str("config_file", cfg.ConfigFile).
		Str("env_file", cfg.EnvFile).
		Str("listen", cfg.Server.ListenAddr()).
		Str("log_level", cfg.Log.Level).
		Msg("Configuration loaded")

	// ── 2. Journal ──────────────────────────────────────────────────
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return nil, err
	}

	// ── 3. Metrics ──────────────────────────────────────────────────
	var metrics *api.Metrics
	if cfg.Metrics.Enabled {
		metrics = api.NewMetrics()
	}

	// ── 4. API server ───────────────────────────────────────────────
	server := api.New(cfg.Server.ListenAddr(), api.Options{
		AllowedIPs:   cfg.Server.AllowedIPs,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Journal:      j,
		Metrics:      metrics,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	return &Node{
		cfg:     cfg,
		logger:  logger,
		journal: j,
		metrics: metrics,
		server:  server,
	}, nil
}

// Start binds the API listener and begins serving.
func (n *Node) Start() error {
	if err := n.server.Start(); err != nil {
		n.journal.Close()
		return err
	}

	ev := n.logger.Info().
		Str("addr", n.server.Addr()).
		Bool("metrics", n.metrics != nil).
		Bool("journal", n.cfg.Journal.Enabled)
	if n.cfg.Journal.Enabled {
		ev = ev.Str("journal_file", n.cfg.Journal.File)
	}
	if len(n.cfg.Server.AllowedIPs) > 0 {
		ev = ev.Strs("allowed", n.cfg.Server.AllowedIPs)
	}
	ev.Msg("Instruction server started")
	return nil
}

// Stop shuts the server down and closes the journal. It is safe to call
// more than once.
func (n *Node) Stop() {
	n.stopOnce.Do(func() {
		if err := n.server.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("API shutdown")
		}
		if err := n.journal.Close(); err != nil {
			n.logger.Warn().Err(err).Msg("Journal close")
		}
		n.logger.Info().Msg("Goodbye!")
	})
}

// APIAddr returns the address the API server is listening on.
func (n *Node) APIAddr() string {
	return n.server.Addr()
}

// Metrics returns the node's metrics, or nil when disabled.
func (n *Node) Metrics() *api.Metrics {
	return n.metrics
}
