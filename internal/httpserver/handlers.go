package httpserver

import (
	"net/http"
	"strings"

	authdomain "bookmarks/backend/internal/domain/auth"
	bookmarkusecase "bookmarks/backend/internal/usecase/bookmark"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/auth/signup", http.HandlerFunc(s.handleSignup))
	s.router.Handle("/auth/signin", http.HandlerFunc(s.handleSignin))

	authenticated := s.authMiddleware
	s.router.Handle("/user/me", authenticated(http.HandlerFunc(s.handleMe)))
	s.router.Handle("/user", authenticated(http.HandlerFunc(s.handleEditUser)))
	s.router.Handle("/bookmarks", authenticated(http.HandlerFunc(s.handleBookmarks)))
	s.router.Handle("/bookmarks/", authenticated(http.HandlerFunc(s.handleBookmarkByID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readCredentials decodes and validates a signup or signin body.
func readCredentials(w http.ResponseWriter, r *http.Request) (authdomain.Credentials, authdomain.Profile, error) {
	var payload authPayload
	if err := decodeBody(w, r, &payload); err != nil {
		return authdomain.Credentials{}, authdomain.Profile{}, err
	}

	var v validator
	creds := authdomain.Credentials{
		Email:    v.requiredEmail("email", payload.Email),
		Password: v.requiredString("password", payload.Password),
	}
	var profile authdomain.Profile
	if first := v.optionalString("firstName", payload.FirstName); first != nil {
		profile.FirstName = strings.TrimSpace(*first)
	}
	if last := v.optionalString("lastName", payload.LastName); last != nil {
		profile.LastName = strings.TrimSpace(*last)
	}
	return creds, profile, v.err()
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	creds, profile, err := readCredentials(w, r)
	if err != nil {
		s.writeRequestError(w, r, err)
		return
	}

	token, err := s.authService.Signup(r.Context(), creds, profile)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	creds, _, err := readCredentials(w, r)
	if err != nil {
		s.writeRequestError(w, r, err)
		return
	}

	token, err := s.authService.Signin(r.Context(), creds)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, ok := currentUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w, http.MethodPatch)
		return
	}
	user, ok := currentUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload userPatchPayload
	if err := decodeBody(w, r, &payload); err != nil {
		s.writeRequestError(w, r, err)
		return
	}
	var v validator
	patch := authdomain.UserPatch{
		Email:     v.optionalEmail("email", payload.Email),
		FirstName: v.optionalString("firstName", payload.FirstName),
		LastName:  v.optionalString("lastName", payload.LastName),
	}
	if err := v.err(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	updated, err := s.userService.Update(r.Context(), user.ID, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		items, err := s.bookmarkService.List(ctx, user.ID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var payload bookmarkPayload
		if err := decodeBody(w, r, &payload); err != nil {
			s.writeRequestError(w, r, err)
			return
		}
		var v validator
		input := bookmarkusecase.CreateInput{
			Title: v.requiredString("title", payload.Title),
			Link:  v.requiredString("link", payload.Link),
		}
		if desc := v.optionalString("description", payload.Description); desc != nil {
			input.Description = *desc
		}
		if err := v.err(); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		item, err := s.bookmarkService.Create(ctx, user.ID, input)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleBookmarkByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/bookmarks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	user, ok := currentUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		item, err := s.bookmarkService.Get(ctx, user.ID, id)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPatch:
		var payload bookmarkPayload
		if err := decodeBody(w, r, &payload); err != nil {
			s.writeRequestError(w, r, err)
			return
		}
		var v validator
		input := bookmarkusecase.UpdateInput{
			Title:       v.optionalString("title", payload.Title),
			Link:        v.optionalString("link", payload.Link),
			Description: v.optionalString("description", payload.Description),
		}
		if err := v.err(); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		item, err := s.bookmarkService.Update(ctx, user.ID, id, input)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.bookmarkService.Delete(ctx, user.ID, id); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// writeRequestError reports a body that could not be decoded, or one that
// failed validation.
func (s *Server) writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case errInvalidJSON:
		writeError(w, http.StatusBadRequest, err.Error())
	case errBodyTooLarge:
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		s.writeServiceError(w, r, err)
	}
}
