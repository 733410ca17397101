package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/teris-io/shortid"
	"github.com/watchpartyhq/watchparty/internal/blurb"
	"github.com/watchpartyhq/watchparty/internal/config"
	"github.com/watchpartyhq/watchparty/internal/database"
	"github.com/watchpartyhq/watchparty/internal/server"
	"github.com/watchpartyhq/watchparty/internal/tmdb"
)

type WatchPartyApp struct {
	log            *log.Logger
	db             database.WatchPartyRepository
	mux            *http.Server
	relay          *server.RelayServer
	catalog        *tmdb.Client
	blurbs         *blurb.Client
	signingKey     []byte
	allowedOrigins []string
	// swapped out in tests
	generateGuestId func() (string, error)
}

func NewWatchPartyApp(mux *http.ServeMux, logger *log.Logger, relay *server.RelayServer,
	db database.WatchPartyRepository, catalog *tmdb.Client, blurbs *blurb.Client, cfg *config.Config) *WatchPartyApp {

	s := &WatchPartyApp{
		log:             logger,
		db:              db,
		relay:           relay,
		catalog:         catalog,
		blurbs:          blurbs,
		signingKey:      cfg.SigningKey,
		allowedOrigins:  cfg.AllowedOrigins,
		generateGuestId: shortid.Generate,
	}

	mux.HandleFunc("GET /api/health", s.health)
	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.Handle("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("/api/account", s.authMiddleware(s.account))
	mux.HandleFunc("GET /api/movies/trending", s.trendingMovies)
	mux.HandleFunc("GET /api/movies/search", s.searchMovies)
	mux.HandleFunc("GET /api/movies/{id}", s.movieDetail)
	mux.HandleFunc("GET /api/movies/{id}/videos", s.movieVideos)
	mux.HandleFunc("GET /api/movies/{id}/similar", s.similarMovies)
	mux.HandleFunc("GET /api/movies/{id}/blurb", s.movieBlurb)
	mux.HandleFunc("GET /api/rooms/{id}/viewers", s.roomViewers)
	mux.HandleFunc("GET /ws", s.serveWs)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *WatchPartyApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *WatchPartyApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
