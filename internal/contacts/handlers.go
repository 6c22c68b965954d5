package contacts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drparash/site-backend/internal/db"
	"github.com/go-chi/chi/v5"
)

// SubmitContact ingests one signed form submission from the public site.
// Replays of the same submission id are dropped silently.
func SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get("X-Form-Signature")
	sid := r.Header.Get("X-Form-Submission-Id")
	if sid == "" {
		http.Error(w, "missing submission id", http.StatusBadRequest)
		return
	}

	if webhookSecret == "" {
		http.Error(w, "server misconfigured", http.StatusInternalServerError)
		return
	}
	if !verifySignature(sig, sid, raw, webhookSecret) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	name := str(m, "Name", "name")
	email := str(m, "Email", "email")
	phone := str(m, "Phone", "phone")
	message := str(m, "Message", "message", "About You", "about")

	if name == "" || email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	if err := db.DB.Exec(`
    insert into site.contacts
        (submission_id, name, email, phone, message, created_at)
    values
        (?, ?, ?, ?, ?, now())
    on conflict (submission_id) do nothing
`, sid, name, email, phone, message).Error; err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

// ListContacts returns all inquiries newest-first for the viewer back office.
func ListContacts(w http.ResponseWriter, r *http.Request) {
	var contacts []Contact

	query := db.DB.WithContext(r.Context()).Order("created_at DESC")
	if r.URL.Query().Get("unviewed") == "true" {
		query = query.Where("viewed_at IS NULL")
	}
	if err := query.Find(&contacts).Error; err != nil {
		http.Error(w, "Failed to fetch contacts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contacts)
}

// MarkContactViewed stamps an inquiry as handled.
func MarkContactViewed(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contact_id")

	var contact Contact
	if err := db.DB.WithContext(r.Context()).First(&contact, "id = ?", contactID).Error; err != nil {
		http.Error(w, "Contact not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	if err := db.DB.WithContext(r.Context()).Model(&contact).Update("viewed_at", &now).Error; err != nil {
		http.Error(w, "Failed to update contact: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func verifySignature(sig, sid string, raw []byte, secret string) bool {
	if !strings.HasPrefix(sig, "sha256=") {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	mac.Write([]byte(sid))
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
