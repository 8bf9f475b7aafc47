// Package signx implements the symmetric signing scheme used for download
// tokens and webhook signatures. Tokens are self-contained: the payload is
// carried alongside its MAC, so verification needs no server-side state.
package signx

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformed reports a token that does not match the expected
	// base64(payload).hex(mac) shape.
	ErrMalformed = errors.New("signx: malformed token")

	// ErrBadSignature reports a MAC mismatch.
	ErrBadSignature = errors.New("signx: signature mismatch")

	// ErrStaleTimestamp reports a webhook timestamp outside the replay window.
	ErrStaleTimestamp = errors.New("signx: timestamp outside tolerance")
)

// Sign produces a token of the form base64url(payload) + "." + hex(HMAC-SHA256(payload)).
// The payload travels with the token; the MAC proves it was issued by a holder
// of the secret and has not been altered.
func Sign(payload []byte, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + hex.EncodeToString(mac.Sum(nil))
}

// Verify splits a token on its last "." separator, recomputes the MAC over
// the decoded payload and compares it in constant time. On success it returns
// the decoded payload.
//
// The comparison must never short-circuit: a byte-at-a-time timing oracle
// would let an attacker forge a valid MAC incrementally.
func Verify(token string, secret []byte) ([]byte, error) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return nil, ErrMalformed
	}

	payload, err := base64.RawURLEncoding.DecodeString(token[:idx])
	if err != nil {
		return nil, ErrMalformed
	}

	got, err := hex.DecodeString(token[idx+1:])
	if err != nil {
		return nil, ErrMalformed
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	want := mac.Sum(nil)

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return nil, ErrBadSignature
	}
	return payload, nil
}

// WebhookTolerance is how far a webhook timestamp may lag behind the current
// time before the delivery is considered a replay.
const WebhookTolerance = 300 * time.Second

// WebhookSignature is the parsed form of a provider signature header, e.g.
// "t=1712345678,v1=5257a8...". Multiple v1 entries may appear during secret
// rotation; all are retained.
type WebhookSignature struct {
	Timestamp time.Time
	MACs      [][]byte
}

// ParseWebhookSignature parses the t= and v1= components of a signature
// header. Missing timestamp or missing v1 MAC yields ErrMalformed.
func ParseWebhookSignature(header string) (WebhookSignature, error) {
	var sig WebhookSignature

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			unix, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return WebhookSignature{}, ErrMalformed
			}
			sig.Timestamp = time.Unix(unix, 0)
		case "v1":
			mac, err := hex.DecodeString(v)
			if err != nil {
				continue // unparseable entries are skipped, not fatal
			}
			sig.MACs = append(sig.MACs, mac)
		}
	}

	if sig.Timestamp.IsZero() || len(sig.MACs) == 0 {
		return WebhookSignature{}, ErrMalformed
	}
	return sig, nil
}

// VerifyWebhook checks a raw webhook body against its signature header.
// The MAC is computed over "<unix timestamp>.<body>". Deliveries older than
// WebhookTolerance are rejected before any MAC work.
func VerifyWebhook(body []byte, header string, secret []byte, now time.Time) error {
	sig, err := ParseWebhookSignature(header)
	if err != nil {
		return err
	}

	if now.Sub(sig.Timestamp) > WebhookTolerance {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(sig.Timestamp.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	want := mac.Sum(nil)

	for _, got := range sig.MACs {
		if subtle.ConstantTimeCompare(got, want) == 1 {
			return nil
		}
	}
	return ErrBadSignature
}

// SignWebhook produces a signature header for a body at the given time.
// Used by tests and local tooling to forge valid deliveries.
func SignWebhook(body []byte, secret []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
