package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// SignedRequestPayload is the decoded body of a Facebook signed_request.
type SignedRequestPayload struct {
	UserID    string `json:"user_id"`
	Algorithm string `json:"algorithm"`
	IssuedAt  int64  `json:"issued_at"`
}

// ParseSignedRequest verifies a Facebook signed_request: a base64url
// signature and payload joined by a dot, where the signature is HMAC-SHA256
// over the raw payload part keyed with the app secret.
func ParseSignedRequest(signedRequest, appSecret string) (*SignedRequestPayload, error) {
	parts := strings.SplitN(signedRequest, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed signed_request")
	}

	sig, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[0], "="))
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, fmt.Errorf("signed_request signature mismatch")
	}

	var decoded SignedRequestPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if !strings.EqualFold(decoded.Algorithm, "HMAC-SHA256") {
		return nil, fmt.Errorf("unsupported signed_request algorithm %q", decoded.Algorithm)
	}
	if decoded.UserID == "" {
		return nil, fmt.Errorf("signed_request carries no user_id")
	}
	return &decoded, nil
}
