package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"BGM-Picker-Go/pkg/catalog"
	"BGM-Picker-Go/pkg/handlers"
	"BGM-Picker-Go/pkg/music"
	"BGM-Picker-Go/pkg/render"
)

// newRootCommand creates the root command with all subcommands attached. The
// root command itself runs the demo.
func newRootCommand(out, errOut io.Writer) *cobra.Command {
	app := &application{print: render.Printer{W: out}}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bgm",
		Short: "Pick background music for video edits",
		Long: `Pick background music for video edits from the music catalog.
Without a subcommand a short demo of every operation is run.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup(configPath, errOut)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			app.runDemo(cmd.Context())
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bgm.yaml)")

	rootCmd.AddCommand(app.createSelectCommand())
	rootCmd.AddCommand(app.createOptionsCommand())
	rootCmd.AddCommand(app.createSearchCommand())
	rootCmd.AddCommand(app.createLikeCommand())
	rootCmd.AddCommand(app.createListCommand("genres", "List catalog genres", (*catalog.Client).Genres))
	rootCmd.AddCommand(app.createListCommand("moods", "List catalog moods", (*catalog.Client).Moods))
	rootCmd.AddCommand(app.createHealthCommand())
	rootCmd.AddCommand(app.createAttributionCommand())
	rootCmd.AddCommand(app.createServeCommand())
	return rootCmd
}

func (app *application) createSelectCommand() *cobra.Command {
	var (
		duration          float64
		count             int
		contentType, mood string
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick background tracks that do not repeat within the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			for i := 0; i < count; i++ {
				t, err := app.selector.SelectBackgroundMusic(cmd.Context(), duration, contentType, mood)
				app.showPick(t, err)
			}
			app.showExcluded()
			return nil
		},
	}
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "video length in seconds")
	cmd.Flags().StringVarP(&contentType, "content-type", "t", "general", "video subject: "+contentTypeNames())
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood filter")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of picks in this session")
	return cmd
}

func (app *application) createOptionsCommand() *cobra.Command {
	var (
		count       int
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List candidate tracks for manual selection",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			tracks, err := app.selector.MusicOptions(cmd.Context(), contentType, count)
			app.showTracks(tracks, err)
		},
	}
	cmd.Flags().StringVarP(&contentType, "content-type", "t", "general", "video subject: "+contentTypeNames())
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of options")
	return cmd
}

func (app *application) createSearchCommand() *cobra.Command {
	var bpmMin, bpmMax int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by text and tempo",
		Run: func(cmd *cobra.Command, args []string) {
			var bpm *music.BPMRange
			if cmd.Flags().Changed("bpm-min") || cmd.Flags().Changed("bpm-max") {
				bpm = &music.BPMRange{Min: bpmMin, Max: bpmMax}
			}
			tracks, err := app.selector.SearchForSpecificMusic(cmd.Context(), strings.Join(args, " "), bpm)
			app.showTracks(tracks, err)
		},
	}
	cmd.Flags().IntVar(&bpmMin, "bpm-min", 0, "lowest tempo")
	cmd.Flags().IntVar(&bpmMax, "bpm-max", 0, "highest tempo (accepted, not sent to the catalog)")
	return cmd
}

func (app *application) createLikeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "like <song>",
		Short: "Pick a track with the tempo and key of a well-known song",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enableReference(cmd.Context()); err != nil {
				return err
			}
			t, ref, err := app.selector.SelectLike(cmd.Context(), strings.Join(args, " "))
			if ref.Title != "" {
				fmt.Fprintf(app.print.W, "Reference: %s - %s (%d BPM, %s %s)\n", ref.Title, ref.Artist, ref.BPM, ref.Key, ref.Mode)
			}
			app.showPick(t, err)
			return nil
		},
	}
}

func (app *application) createListCommand(use, short string, fetch func(*catalog.Client, context.Context) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			items, err := fetch(app.catalog, cmd.Context())
			if err != nil {
				app.print.Warn(failureText("No "+use+" available", err))
				return
			}
			app.print.List(strings.ToUpper(use[:1])+use[1:], items)
		},
	}
}

func (app *application) createHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the catalog is reachable",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			h, err := app.catalog.Health(cmd.Context())
			if err != nil {
				app.print.Warn(failureText("Catalog unhealthy", err))
				return
			}
			fmt.Fprintf(app.print.W, "Catalog %s (version %s) %s\n", h.Status, h.Version, h.Message)
		},
	}
}

func (app *application) createAttributionCommand() *cobra.Command {
	var t music.Track
	cmd := &cobra.Command{
		Use:   "attribution",
		Short: "Print the credit line and usage terms for a track",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			app.print.Attribution(music.Attribute(t))
		},
	}
	cmd.Flags().StringVar(&t.Title, "title", "", "track title")
	cmd.Flags().StringVar(&t.Artist, "artist", "", "artist name")
	cmd.Flags().StringVar(&t.License, "license", "", "license, e.g. \"CC BY 4.0\"")
	cmd.Flags().StringVar(&t.LicenseURL, "license-url", "", "license URL")
	cmd.Flags().StringVar(&t.Source, "source", "", "where the track came from")
	cmd.Flags().StringVar(&t.SourceURL, "source-url", "", "link to the track")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("artist")
	cmd.MarkFlagRequired("license")
	return cmd
}

func (app *application) createServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the selector as a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if app.cfg.Spotify.Enabled() {
				if err := app.enableReference(ctx); err != nil {
					app.log.WithError(err).Warn("reference lookups disabled")
				}
			}
			api := &handlers.Application{
				Selector: app.selector,
				Catalog:  app.catalog,
				Log:      app.log.WithField("component", "http"),
			}
			srv := &http.Server{
				Addr:              app.cfg.ListenAddr,
				Handler:           api.Routes(promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			app.log.WithField("addr", app.cfg.ListenAddr).Info("listening")

			select {
			case err := <-errCh:
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// showPick prints a single selection result.
func (app *application) showPick(t *music.Track, err error) {
	if err != nil {
		app.print.Warn(failureText("No track found", err))
		return
	}
	app.print.Track(t)
}

// showExcluded prints the session's exclusion list, if any.
func (app *application) showExcluded() {
	if used := app.selector.UsedTrackIDs(); len(used) > 0 {
		app.print.List("Excluded", used)
	}
}

func (app *application) showTracks(tracks []music.Track, err error) {
	if err != nil {
		app.print.Warn(failureText("No tracks found", err))
		return
	}
	app.print.Tracks(tracks)
}

// failureText explains why a result is empty. The details are already in the
// log, so only the failure kind is shown.
func failureText(prefix string, err error) string {
	if k, ok := catalog.KindOf(err); ok {
		return fmt.Sprintf("%s (catalog %s failure)", prefix, k)
	}
	return fmt.Sprintf("%s (%v)", prefix, err)
}

func contentTypeNames() string {
	var names []string
	for _, ct := range music.ContentTypes() {
		names = append(names, string(ct))
	}
	return strings.Join(names, ", ")
}
