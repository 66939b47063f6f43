package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.Tracks(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]trackView, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, newTrackView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := trackID(w, r)
	if !ok {
		return
	}
	track, err := s.catalog.Track(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTrackView(*track))
}

func (s *Server) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	id, ok := trackID(w, r)
	if !ok {
		return
	}
	artwork, err := s.catalog.Artwork(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(artwork))
	w.Header().Set("Content-Length", strconv.Itoa(len(artwork)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artwork)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Artists())
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "artist id must be an integer")
		return
	}
	artist, err := s.catalog.Artist(id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func trackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "track id must be an integer")
		return 0, false
	}
	return id, true
}

// trackView is the JSON shape of a track. Artwork is served separately.
type trackView struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Asset      string `json:"asset"`
	HasArtwork bool   `json:"hasArtwork"`
}

func newTrackView(t domain.Track) trackView {
	return trackView{
		ID:         t.ID,
		Title:      t.Title,
		Artist:     t.ArtistName,
		Album:      t.AlbumName,
		Asset:      t.AssetRef.String(),
		HasArtwork: t.HasArtwork(),
	}
}
