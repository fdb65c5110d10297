package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	user, err := s.repo.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("auth: get profile: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"user": user,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	var body struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
		Avatar    *string `json:"avatar"`
		Bio       *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.repo.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("auth: update profile fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if body.FirstName != nil {
		user.FirstName = strings.TrimSpace(*body.FirstName)
	}
	if body.LastName != nil {
		user.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.Phone != nil {
		user.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Avatar != nil {
		user.Avatar = strings.TrimSpace(*body.Avatar)
	}
	if body.Bio != nil {
		bio := strings.TrimSpace(*body.Bio)
		if len(bio) > 1000 {
			writeError(w, http.StatusBadRequest, "bio is too long")
			return
		}
		user.Bio = bio
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		log.Printf("auth: update profile: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "profile updated",
		"user":    user,
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	user, err := s.repo.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("auth: get preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	prefs := map[string]any{}
	if user.Preferences != "" {
		// A corrupt blob degrades to empty preferences rather than a 500.
		_ = json.Unmarshal([]byte(user.Preferences), &prefs)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"preferences": prefs,
	})
}

// handleUpdatePreferences merges the request body into the stored blob;
// omitted keys keep their value.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	var incoming map[string]any
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.repo.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("auth: update preferences fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	prefs := map[string]any{}
	if user.Preferences != "" {
		_ = json.Unmarshal([]byte(user.Preferences), &prefs)
	}
	for k, v := range incoming {
		prefs[k] = v
	}

	blob, err := json.Marshal(prefs)
	if err != nil {
		log.Printf("auth: update preferences marshal: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.repo.UpdatePreferences(ctx, userID, string(blob)); err != nil {
		log.Printf("auth: update preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"message":     "preferences updated",
		"preferences": prefs,
	})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	user, err := s.repo.ByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("auth: get plan: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"plan": user.Plan,
	})
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")

	var body struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Plan = strings.ToLower(strings.TrimSpace(body.Plan))
	if body.Plan != planFree && body.Plan != planPremium {
		writeError(w, http.StatusBadRequest, `invalid plan (must be "free" or "premium")`)
		return
	}

	if err := s.repo.UpdatePlan(ctx, userID, body.Plan); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("auth: update plan: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "plan updated",
		"plan":    body.Plan,
	})
}
