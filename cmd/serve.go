package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/progress"
	"github.com/ziadkadry99/mangaview/internal/server"
	"github.com/ziadkadry99/mangaview/internal/session"
	"github.com/ziadkadry99/mangaview/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it over HTTP",
	Long: `Builds the reader site, serves it with a small JSON API and, unless
disabled, rebuilds it when the library changes. Reader pages served this way
let the server track the chapter being read and update the address bar.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("no-watch", false, "do not rebuild when the library changes")
	serveCmd.Flags().Bool("no-live", false, "disable server-driven reading sessions")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if noLive, _ := cmd.Flags().GetBool("no-live"); noLive {
		cfg.Server.LiveSession = false
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Server.Watch = false
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := site.NewSiteGenerator(cfg, log)
	gen.Live = cfg.Server.LiveSession
	gen.Progress = progress.NewReporter()
	res, err := gen.Generate(ctx)
	if res.Catalog == nil {
		return fmt.Errorf("generating site: %w", err)
	}
	if err != nil {
		log.Warn("site built with problems", zap.Error(err))
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr(),
		SiteDir:        cfg.OutputDir,
		AllowAll:       cfg.Server.AllowAllOrigins,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LiveSession:    cfg.Server.LiveSession,
		Covers:         cfg.CoverWidth > 0,
		Session: session.Options{
			StickyOffset: cfg.StickyOffset,
			Quiet:        cfg.Quiet(),
			Fraction:     cfg.ObserveFraction,
		},
	}, res.Catalog, log)

	if cfg.Server.Watch {
		gen.Progress = progress.Nop{}
		w, err := server.NewWatcher(cfg.LibraryDir, cfg.Server.RebuildDelay(), func(ctx context.Context) error {
			res, err := gen.Generate(ctx)
			if res.Catalog != nil {
				srv.SetCatalog(res.Catalog)
				log.Info("library rebuilt", zap.Int("series", len(res.Series)))
			}
			return err
		}, log)
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.LibraryDir, err)
		}
		go w.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "mangaview %s serving %s at %s\n", Version, cfg.OutputDir, url)
	fmt.Fprintf(os.Stderr, "  Series: %d\n", len(res.Series))
	fmt.Fprintf(os.Stderr, "  Live sessions: %v, watching library: %v\n", cfg.Server.LiveSession, cfg.Server.Watch)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop.")

	if open, _ := cmd.Flags().GetBool("open"); open {
		go openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
