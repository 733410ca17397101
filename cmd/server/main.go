package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/watchpartyhq/watchparty/internal/api"
	"github.com/watchpartyhq/watchparty/internal/blurb"
	"github.com/watchpartyhq/watchparty/internal/config"
	"github.com/watchpartyhq/watchparty/internal/database"
	"github.com/watchpartyhq/watchparty/internal/server"
	"github.com/watchpartyhq/watchparty/internal/stats"
	"github.com/watchpartyhq/watchparty/internal/tmdb"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	tmdbAPIKey     string
	openAIAPIKey   string
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.StringVar(&tmdbAPIKey, "tmdb-api-key", os.Getenv("TMDB_API_KEY"), "TMDB API key")
	flag.StringVar(&openAIAPIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key for movie blurbs (optional)")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[watchparty] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dsn, signingKey, allowedOrigins, tmdbAPIKey, openAIAPIKey)
	if err != nil {
		logger.Fatal("config:", err)
	}

	dbConn, err := database.NewPgWatchPartyRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := dbConn.Migrate(); err != nil {
		logger.Fatal("db migrate:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	relay, err := server.NewRelayServer(logger, server.NewRegistry(), statsUpdater)
	if err != nil {
		logger.Fatal("new relay server:", err)
	}

	catalog := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)
	blurbs := blurb.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)

	srv := api.NewWatchPartyApp(mux, logger, relay, dbConn, catalog, blurbs, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go relay.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down relay...")
	if err := relay.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("relay shutdown:", err)
	}

	logger.Println("shutdown complete")
}
