package contacts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sign(raw []byte, sid, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	mac.Write([]byte(sid))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	raw := []byte(`{"name":"A","email":"a@b.c"}`)

	if !verifySignature(sign(raw, "sub-1", "secret"), "sub-1", raw, "secret") {
		t.Error("valid signature rejected")
	}
	if verifySignature(sign(raw, "sub-1", "wrong"), "sub-1", raw, "secret") {
		t.Error("signature with wrong secret accepted")
	}
	if verifySignature(sign(raw, "sub-2", "secret"), "sub-1", raw, "secret") {
		t.Error("signature over different submission id accepted")
	}
	if verifySignature("not-prefixed", "sub-1", raw, "secret") {
		t.Error("malformed signature accepted")
	}
}

// TestSubmitContact_RejectsBeforeStorage covers the request validation that
// happens before any database work.
func TestSubmitContact_RejectsBeforeStorage(t *testing.T) {
	webhookSecret = "secret"
	t.Cleanup(func() { webhookSecret = "" })

	// Missing submission id
	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	SubmitContact(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing sid: expected 400, got %d", rec.Code)
	}

	// Bad signature
	req = httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{}`))
	req.Header.Set("X-Form-Submission-Id", "sub-1")
	req.Header.Set("X-Form-Signature", "sha256=deadbeef")
	rec = httptest.NewRecorder()
	SubmitContact(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad signature: expected 401, got %d", rec.Code)
	}
}

// TestSubmitContact_MisconfiguredSecret verifies the fatal-misconfiguration
// path surfaces as a persistent 500, not a crash.
func TestSubmitContact_MisconfiguredSecret(t *testing.T) {
	webhookSecret = ""

	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(`{}`))
	req.Header.Set("X-Form-Submission-Id", "sub-1")
	rec := httptest.NewRecorder()
	SubmitContact(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
