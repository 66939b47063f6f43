package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

type playerView struct {
	Track       *trackView `json:"track"`
	Index       int        `json:"index"`
	Playing     bool       `json:"playing"`
	Buffering   bool       `json:"buffering"`
	PositionMS  int64      `json:"positionMs"`
	DurationMS  int64      `json:"durationMs"`
	HasNext     bool       `json:"hasNext"`
	HasPrevious bool       `json:"hasPrevious"`
	Shuffle     bool       `json:"shuffle"`
	Repeat      string     `json:"repeat"`
	QueueLength int        `json:"queueLength"`
	Error       string     `json:"error,omitempty"`
}

func (s *Server) playerView() playerView {
	st := s.player.State()
	view := playerView{
		Index:       st.Index,
		Playing:     st.IsPlaying,
		Buffering:   st.IsBuffering,
		PositionMS:  st.Position.Milliseconds(),
		DurationMS:  st.Duration.Milliseconds(),
		HasNext:     st.HasNext,
		HasPrevious: st.HasPrevious,
		Shuffle:     st.Shuffle,
		Repeat:      st.Repeat.String(),
		QueueLength: len(s.player.Queue()),
		Error:       st.LastError,
	}
	if st.CurrentTrack != nil {
		tv := newTrackView(*st.CurrentTrack)
		view.Track = &tv
	}
	return view
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.playerView())
}

// command adapts a no-argument player command into a handler that
// replies with the resulting player state.
func (s *Server) command(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(); err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.playerView())
	}
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseInt(r.URL.Query().Get("ms"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ms must be an integer")
		return
	}
	if err := s.player.Seek(time.Duration(ms) * time.Millisecond); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.playerView())
}

type queueRequest struct {
	TrackIDs []int64 `json:"trackIds"`
	Start    int     `json:"start"`
}

func (s *Server) handleSetQueue(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.TrackIDs) == 0 {
		s.writeDomainError(w, domain.ErrQueueEmpty)
		return
	}

	tracks := make([]domain.Track, 0, len(req.TrackIDs))
	for _, id := range req.TrackIDs {
		track, err := s.catalog.Track(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		tracks = append(tracks, *track)
	}

	if err := s.player.PlayTracks(tracks, req.Start); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.playerView())
}
