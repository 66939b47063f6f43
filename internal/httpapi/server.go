// Package httpapi exposes the catalog and the player over a small JSON API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// Catalog is the read side of the catalog used by the API.
type Catalog interface {
	Tracks(ctx context.Context) ([]domain.Track, error)
	Track(ctx context.Context, id int64) (*domain.Track, error)
	Artwork(ctx context.Context, id int64) ([]byte, error)
	Artists() []domain.Artist
	Artist(id int) (domain.Artist, error)
}

// Player is the subset of the player view-model driven by the API.
type Player interface {
	State() domain.PlayerState
	Queue() []domain.Track
	PlayTracks(tracks []domain.Track, start int) error
	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error
	Seek(position time.Duration) error
}

// Server routes API requests to the catalog and the player.
type Server struct {
	logger  *slog.Logger
	catalog Catalog
	player  Player
	version string
}

// NewServer creates an API server.
func NewServer(logger *slog.Logger, catalog Catalog, player Player, version string) *Server {
	return &Server{
		logger:  logger.With(slog.String("component", "httpapi")),
		catalog: catalog,
		player:  player,
		version: version,
	}
}

// Router builds the chi router. Extra middlewares run after the built-in ones.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/tracks", func(r chi.Router) {
		r.Get("/", s.handleListTracks)
		r.Get("/{id}", s.handleGetTrack)
		r.Get("/{id}/artwork", s.handleGetArtwork)
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", s.handleListArtists)
		r.Get("/{id}", s.handleGetArtist)
	})

	r.Route("/player", func(r chi.Router) {
		r.Get("/", s.handlePlayerState)
		r.Post("/queue", s.handleSetQueue)
		r.Post("/seek", s.handleSeek)
		r.Post("/play", s.command(s.player.Play))
		r.Post("/pause", s.command(s.player.Pause))
		r.Post("/stop", s.command(s.player.Stop))
		r.Post("/next", s.command(s.player.Next))
		r.Post("/previous", s.command(s.player.Previous))
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tunebox",
		"version": s.version,
	})
}
