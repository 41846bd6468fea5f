// Command remixd serves the remix engine over HTTP.
//
// Routes:
//
//	POST /api/remix     multipart upload: primary, texture, ambience files
//	                    plus form fields; responds with the encoded remix
//	GET  /api/catalog   modes and themes as JSON
//	GET  /api/presets   preset table as JSON
//	GET  /healthz       liveness probe
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	remix "github.com/tphakala/go-audio-remix"
	"github.com/tphakala/go-audio-remix/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML config file (default $REMIX_CONFIG)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	log, err := cfg.NewLogger()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := serve(cfg, log); err != nil {
		log.Fatal(err)
	}
}

func serve(cfg config.Config, log *logrus.Logger) error {
	rc, err := cfg.RemixConfig(log)
	if err != nil {
		return err
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	srv := newServer(remix.New(rc), presets, cfg.MaxUploadBytes, log)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Shutdown incomplete")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr,
		"format":  rc.Exporter.Format(),
		"quality": rc.Quality.String(),
	}).Info("remixd listening")
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
