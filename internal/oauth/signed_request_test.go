package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signRequest(t *testing.T, payload, secret string) string {
	t.Helper()
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)) + "." + encoded
}

func TestParseSignedRequest(t *testing.T) {
	signed := signRequest(t, `{"user_id":"fb-123","algorithm":"HMAC-SHA256","issued_at":1700000000}`, "app-secret")

	payload, err := ParseSignedRequest(signed, "app-secret")
	require.NoError(t, err)
	assert.Equal(t, "fb-123", payload.UserID)
	assert.Equal(t, int64(1700000000), payload.IssuedAt)
}

func TestParseSignedRequestRejectsWrongSecret(t *testing.T) {
	signed := signRequest(t, `{"user_id":"fb-123","algorithm":"HMAC-SHA256"}`, "app-secret")

	_, err := ParseSignedRequest(signed, "other-secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestParseSignedRequestRejectsTamperedPayload(t *testing.T) {
	signed := signRequest(t, `{"user_id":"fb-123","algorithm":"HMAC-SHA256"}`, "app-secret")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"fb-999","algorithm":"HMAC-SHA256"}`))

	_, err := ParseSignedRequest(signed[:len(signed)-len(forged)]+forged, "app-secret")
	require.Error(t, err)
}

func TestParseSignedRequestRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "nodot", "!!.!!", "a.b"} {
		_, err := ParseSignedRequest(raw, "app-secret")
		assert.Error(t, err, raw)
	}
}

func TestParseSignedRequestRequiresUserID(t *testing.T) {
	signed := signRequest(t, `{"algorithm":"HMAC-SHA256"}`, "app-secret")

	_, err := ParseSignedRequest(signed, "app-secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}
