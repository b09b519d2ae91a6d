package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"BGM-Picker-Go/pkg/catalog"
	"BGM-Picker-Go/pkg/config"
	"BGM-Picker-Go/pkg/render"
	"BGM-Picker-Go/pkg/selector"
	"BGM-Picker-Go/pkg/spotify"
)

// application bundles the dependencies shared by every command.
type application struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	catalog  *catalog.Client
	selector *selector.Selector
	print    render.Printer
}

// setup loads configuration and wires the catalog client and selector.
func (app *application) setup(configPath string, errOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, errOut)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.log = log
	app.registry = prometheus.NewRegistry()

	// The token source keeps this context for refreshes, so it must outlive
	// any single command.
	hc := catalog.NewHTTPClient(context.Background(), catalog.Credentials{
		Token:        cfg.Catalog.Token,
		ClientID:     cfg.Catalog.ClientID,
		ClientSecret: cfg.Catalog.ClientSecret,
		TokenURL:     cfg.Catalog.TokenURL,
	}, cfg.Catalog.Timeout)
	app.catalog = &catalog.Client{
		BaseURL: cfg.Catalog.BaseURL,
		HTTP:    hc,
		Log:     log.WithField("component", "catalog"),
		Metrics: catalog.NewMetrics(app.registry),
	}
	app.selector = selector.New(app.catalog, selector.WithLogger(log.WithField("component", "selector")))
	log.WithField("catalog", cfg.Catalog.BaseURL).Debug("configured")
	return nil
}

// enableReference rebuilds the selector with Spotify lookups. It must run
// before the first pick since the exclusion list starts over.
func (app *application) enableReference(ctx context.Context) error {
	if !app.cfg.Spotify.Enabled() {
		return fmt.Errorf("reference lookups need SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET")
	}
	// ctx also drives token refreshes, so it must live as long as the command.
	sc, err := spotify.NewSpotifyClient(ctx, app.cfg.Spotify.ClientID, app.cfg.Spotify.ClientSecret)
	if err != nil {
		return err
	}
	app.selector = selector.New(app.catalog,
		selector.WithLogger(app.log.WithField("component", "selector")),
		selector.WithReferenceAnalyzer(sc),
	)
	return nil
}

func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log, nil
}
