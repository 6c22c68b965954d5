package site

import (
	"encoding/json"
	"net/http"
)

// profile is loaded once in Init; the file is static per deployment.
var profile *Profile

// GetProfile serves the practitioner profile and expertise list.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	if profile == nil {
		http.Error(w, "Profile not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
