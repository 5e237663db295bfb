package xendit

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const (
	// CallbackTokenHeader carries the shared verification token.
	CallbackTokenHeader = "X-Callback-Token"
	// SignatureHeader carries a hex HMAC-SHA256 of the raw body.
	SignatureHeader = "X-Callback-Signature"
)

// WebhookVerifier handles webhook signature verification
type WebhookVerifier struct {
	webhookToken string
}

// NewWebhookVerifier creates a new webhook verifier
func NewWebhookVerifier(webhookToken string) *WebhookVerifier {
	return &WebhookVerifier{
		webhookToken: strings.TrimSpace(webhookToken),
	}
}

// Verify accepts the body when either the HMAC signature or the callback
// token matches. An HMAC signature, when present, must be valid.
func (v *WebhookVerifier) Verify(body []byte, signature, callbackToken string) bool {
	if v.webhookToken == "" {
		return false
	}
	if signature = strings.TrimSpace(signature); signature != "" {
		return v.VerifyHMACSignature(body, signature)
	}
	if callbackToken = strings.TrimSpace(callbackToken); callbackToken != "" {
		return v.VerifySignature(callbackToken)
	}
	return false
}

// VerifySignature compares the x-callback-token header with the webhook token
func (v *WebhookVerifier) VerifySignature(callbackToken string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(callbackToken)), []byte(v.webhookToken)) == 1
}

// VerifyHMACSignature verifies HMAC-SHA256 signature
func (v *WebhookVerifier) VerifyHMACSignature(payload []byte, signature string) bool {
	expectedMAC := Sign(payload, v.webhookToken)
	return hmac.Equal([]byte(expectedMAC), []byte(strings.ToLower(signature)))
}

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
