// Package app wires the steward components together and runs them.
package app

import (
	"context"

	"steward/internal/cli"
	"steward/internal/config"
	"steward/internal/constants"
	"steward/internal/db"
	"steward/internal/lifecycle"
	"steward/internal/logger"
	"steward/internal/server"
)

// App represents the main application
type App struct {
	Config    *config.ServiceConfig
	DB        *db.DB
	Server    *server.Server
	Lifecycle *lifecycle.Lifecycle
	CLI       *cli.Manager
}

// New creates a new application instance
func New() *App {
	return &App{}
}

// RunWithContext runs the CLI with a context for cancellation
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	a.CLI = cli.New(a.serve)

	if len(args) == 0 {
		args = []string{"--help"}
	}

	return a.CLI.ExecuteWithContext(ctx, args)
}

// serve builds the collaborators, starts the lifecycle and blocks until
// the context is cancelled, then stops it.
func (a *App) serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logger.SetLevel(cfg.LogLevel)
	logger.SetFormat(cfg.LogFormat)

	database := db.New(db.ConfigFromService(cfg.Database))
	a.DB = database
	journal := db.NewTransitionRepo(database)

	srv := server.New(server.DefaultConfig(), nil, journal)
	a.Server = srv

	lc := lifecycle.New(cfg, database, srv.ResponseCache(), srv)
	lc.SetJournal(journal)
	srv.SetStatusSource(lc)
	a.Lifecycle = lc

	if err := lc.Start(ctx); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"service": cfg.Name,
		"port":    cfg.Port,
	}).Info("steward is serving")

	<-ctx.Done()

	// The run context is already cancelled; give shutdown its own deadline.
	stopCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultServerShutdownTimeout)
	defer cancel()

	return lc.Stop(stopCtx)
}
