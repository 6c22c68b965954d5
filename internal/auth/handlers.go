package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// manager is the package-wide session manager, wired in Init.
var manager *Manager

const sessionCookieName = "session_id"

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		MaxAge: 0,
		Path:   "/",
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if body.Email == "" || body.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := manager.Login(r.Context(), body.Email, body.Password, RequestedRole(body.Role))
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	case errors.Is(err, ErrNotAuthorizedAdmin), errors.Is(err, ErrNotAuthorizedViewer):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case errors.Is(err, ErrUnknownRole):
		http.Error(w, "Role must be admin or viewer", http.StatusBadRequest)
		return
	default:
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, result.SessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"redirect": result.Redirect,
		"user":     result.User,
		"roles":    result.Flags,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	redirect, err := manager.Logout(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"redirect": redirect})
}

type MeResponse struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Roles  RoleFlags `json:"roles"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	response := MeResponse{
		UserID: user.UserID,
		Email:  user.Email,
		Roles:  ResolveRoles(r.Context(), manager.roles, user.UserID),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type UpdatePassword struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	var updatepass UpdatePassword
	if err := json.NewDecoder(r.Body).Decode(&updatepass); err != nil {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	// Make sure user's current password matches stored hash before updating
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(updatepass.CurrentPassword)); err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(updatepass.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&user).Update("hashed_password", string(hashed)).Error; err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}
