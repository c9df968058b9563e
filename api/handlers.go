// Package api provides HTTP handlers, middleware, and routing for the theme preference service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/palette"
	"github.com/CreativeUnicorns/themeprefs/registry"
)

const maxBodyBytes = 1 << 20

// themeResponse is the body returned by every /theme endpoint.
type themeResponse struct {
	themeprefs.State
	IsDark bool `json:"is_dark"`
}

type paletteResponse struct {
	Scheme    themeprefs.Scheme `json:"color_scheme"`
	Variables palette.Variables `json:"variables"`
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

type setSchemeRequest struct {
	Scheme string `json:"scheme"`
}

func newThemeResponse(st themeprefs.State) themeResponse {
	return themeResponse{State: st, IsDark: st.IsDark()}
}

// handleGetTheme returns the user's current theme state.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Session(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.respondWithRegistryError(w, r, err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, newThemeResponse(sess.Resolver.State()))
}

// handleSetMode changes the user's theme mode.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if !s.decode(w, r, &req) {
		return
	}

	mode, err := themeprefs.ParseMode(req.Mode)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid theme mode", err)
		return
	}

	s.update(w, r, func(sess *registry.Session) error {
		return sess.Resolver.SetMode(mode)
	})
}

// handleSetOSScheme records the colour scheme reported by the user's device.
func (s *Server) handleSetOSScheme(w http.ResponseWriter, r *http.Request) {
	var req setSchemeRequest
	if !s.decode(w, r, &req) {
		return
	}

	scheme, err := themeprefs.ParseScheme(req.Scheme)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid color scheme", err)
		return
	}

	s.update(w, r, func(sess *registry.Session) error {
		return sess.OS.Set(scheme)
	})
}

// handleToggle flips the user's theme between light and dark.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, toggleOnce())
}

// toggleOnce returns an update func that toggles on its first successful run
// and reapplies that result if the registry retries it on a fresh session.
func toggleOnce() func(*registry.Session) error {
	var next themeprefs.Mode
	return func(sess *registry.Session) error {
		if next != "" {
			return sess.Resolver.SetMode(next)
		}
		mode, err := sess.Resolver.Toggle()
		if err != nil {
			return err
		}
		next = mode
		return nil
	}
}

// handleGetUserPalette returns the palette for the user's effective scheme.
func (s *Server) handleGetUserPalette(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Session(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.respondWithRegistryError(w, r, err)
		return
	}
	scheme := sess.Resolver.Scheme()
	s.respondWithJSON(w, r, http.StatusOK, paletteResponse{Scheme: scheme, Variables: palette.For(scheme)})
}

// handleGetPalette returns the palette for a named scheme.
func (s *Server) handleGetPalette(w http.ResponseWriter, r *http.Request) {
	scheme, err := themeprefs.ParseScheme(chi.URLParam(r, "scheme"))
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid color scheme", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, paletteResponse{Scheme: scheme, Variables: palette.For(scheme)})
}

// update applies fn to the user's session and responds with the resulting state.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*registry.Session) error) {
	var state themeprefs.State
	err := s.registry.Update(r.Context(), chi.URLParam(r, "userID"), func(sess *registry.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		state = sess.Resolver.State()
		return nil
	})
	if err != nil {
		s.respondWithRegistryError(w, r, err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, newThemeResponse(state))
}

// decode reads a JSON body into v, responding with 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	// Limit the size of the request body to 1MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return false
	}
	return true
}

func (s *Server) respondWithRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, themeprefs.ErrInvalidInput),
		errors.Is(err, themeprefs.ErrInvalidMode),
		errors.Is(err, themeprefs.ErrInvalidScheme):
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, themeprefs.ErrClosed):
		s.respondWithError(w, r, http.StatusServiceUnavailable, "Service is shutting down", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.respondWithError(w, r, http.StatusGatewayTimeout, "Timed out loading theme preference", err)
	default:
		s.respondWithError(w, r, http.StatusInternalServerError, "Failed to load theme preference", err)
	}
}

// respondWithError is a helper to send JSON error responses.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := map[string]string{"message": message}
	if err != nil {
		body["details"] = err.Error()
	}

	log := s.logger.Warn
	if status >= http.StatusInternalServerError {
		log = s.logger.Error
	}
	log("API Error", "status", status, "message", message, "path", r.URL.Path, "error", err)

	s.respondWithJSON(w, r, status, map[string]interface{}{"error": body})
}

// respondWithJSON is a helper to send JSON responses.
func (s *Server) respondWithJSON(w http.ResponseWriter, _ *http.Request, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Failed to marshal response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
