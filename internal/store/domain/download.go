package domain

import "time"

// DownloadWindow is how long download links stay valid, measured from the
// payment session's creation time. Anchoring to session creation rather than
// time-of-issue means repeated verify calls cannot extend validity.
const DownloadWindow = 24 * time.Hour

// TokenClaims is the signed payload embedded in a download token. Validity
// is entirely self-contained: signature + expiry + item list.
type TokenClaims struct {
	SessionID string   `json:"sessionId"`
	Items     []string `json:"items"` // expanded set, compact id:variant form
	Expiry    int64    `json:"expiry"`
}

// Download is one fulfillable file the customer may fetch.
type Download struct {
	CertID         string  `json:"certId"`
	Variant        Variant `json:"variant"`
	Filename       string  `json:"filename"`
	URL            string  `json:"url"`
	CareerPathID   string `json:"careerPathId,omitempty"`
	CareerPathName string `json:"careerPathName,omitempty"`
}

// Order records a fulfilled purchase for audit. OrderID is app-generated
// (ULID); everything else comes from the payment session.
type Order struct {
	ID            string
	SessionID     string
	CustomerEmail string
	Items         string // compact id:variant encoding as purchased
	AmountTotal   int64
	CreatedAt     time.Time
}

// WebhookEvent records a processed provider event delivery for dedupe.
type WebhookEvent struct {
	EventID     string
	EventType   string
	SessionID   string
	ProcessedAt time.Time
}
