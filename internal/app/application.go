package app

import (
	"context"
	"errors"
	"io"

	"github.com/raysh454/harplay/internal/logging"
	"github.com/raysh454/harplay/internal/resources"
	"github.com/raysh454/harplay/internal/scenario"
	"github.com/raysh454/harplay/internal/server"
	"github.com/raysh454/harplay/internal/transform"
	"github.com/raysh454/harplay/internal/useragent"
)

// Application is the global runtime state container. It holds the config,
// the logger and the conversion pipeline shared by every command. Pass
// Application into code that needs them rather than using package-level
// variables.
type Application struct {
	Config    *Config
	Logger    logging.Logger
	Converter *scenario.Converter
}

// NewApplication wires the conversion pipeline. A nil logger logs nothing.
func NewApplication(cfg *Config, logger logging.Logger) *Application {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	t := transform.New(resources.NewHTMLExtractor(), useragent.NewParser())
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Converter: scenario.NewConverter(t, logger),
	}
}

// NewLogger builds the logger described by cfg, writing to w.
func NewLogger(cfg LoggingConfig, w io.Writer) (logging.Logger, error) {
	l, err := logging.New(logging.Options{
		Level:     cfg.Level,
		Format:    cfg.Format,
		Writer:    w,
		Component: "harplay",
		NoColor:   cfg.NoColor,
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Options turns the configured filters into per-call conversion options.
func (a *Application) Options() (scenario.Options, error) {
	rules, err := a.Config.Filters.BuildRules()
	if err != nil {
		return scenario.Options{}, err
	}
	return scenario.Options{Rules: rules}, nil
}

// NewServer builds the HTTP surface on top of the application's converter.
func (a *Application) NewServer() (*server.Server, error) {
	cfg := a.Config.Server
	if cfg.Logger == nil {
		cfg.Logger = a.Logger
	}
	return server.NewServer(cfg, a.Converter)
}

// Serve runs the HTTP surface until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	s, err := a.NewServer()
	if err != nil {
		return err
	}
	a.Logger.Info("application starting", logging.Field{Key: "addr", Value: a.Config.Server.ListenAddr})
	return s.Run(ctx)
}
