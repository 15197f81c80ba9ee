package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/lettersort/internal/logging"
	"github.com/robalobadob/lettersort/internal/session"
	"github.com/robalobadob/lettersort/internal/store"
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" | "daily"
}
type newGameRes struct {
	GameID string       `json:"gameId"`
	Mode   session.Mode `json:"mode"`
}

// handleNewGame creates an idle board, replacing any board this browser
// already owned, and hands out a signed session cookie for it.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	lg := logging.FromContext(r.Context())

	if old, err := s.sessionFromRequest(r); err == nil {
		_ = s.store.Delete(r.Context(), old)
	}

	sessLog := s.log
	sess := session.New(session.Options{
		Mode:      session.ParseMode(req.Mode),
		Seconds:   s.opts.GameSeconds,
		Salt:      s.opts.DailySalt,
		Scheduler: s.opts.Scheduler,
		Logger:    &sessLog,
	})
	if err := s.store.Save(r.Context(), sess); errors.Is(err, store.ErrFull) {
		lg.Warn().Msg("every board is in use")
		writeError(w, http.StatusServiceUnavailable, "store_full")
		return
	} else if err != nil {
		lg.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signSession(sess.ID)
	if err != nil {
		lg.Error().Err(err).Msg("sign session")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, r, tok, exp)
	lg.Info().Str("session", sess.ID).Str("mode", string(sess.Mode)).Msg("session created")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Mode: sess.Mode})
}

// handleGetGame returns the current snapshot of the caller's board.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, status, msg := s.ownedSession(r, chi.URLParam(r, "id"))
	if sess == nil {
		writeError(w, status, msg)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// ownedSession resolves id (or the cookie's board when id is empty) and
// checks the caller owns it.
func (s *Server) ownedSession(r *http.Request, id string) (*session.Session, int, string) {
	sid, err := s.sessionFromRequest(r)
	if err != nil {
		return nil, http.StatusUnauthorized, "no_session"
	}
	if id != "" && id != sid {
		return nil, http.StatusForbidden, "forbidden"
	}
	sess, err := s.store.Get(r.Context(), sid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, http.StatusNotFound, "not_found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "store_error"
	}
	return sess, http.StatusOK, ""
}
