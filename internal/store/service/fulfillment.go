package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/fixthevuln/backend/pkg/signx"
)

var (
	ErrNotPaid      = errors.New("payment_not_confirmed")
	ErrTokenExpired = errors.New("token_expired")
	ErrTokenInvalid = errors.New("token_invalid")
	ErrFileNotOwned = errors.New("file_not_in_purchase")
)

// FulfillmentService turns a paid session into signed download links. Tokens
// are stateless: validity is signature + expiry + item membership, nothing
// server-side.
type FulfillmentService struct {
	Provider payment.Provider
	Secret   []byte

	// DownloadBaseURL is the public origin downloads are served from,
	// e.g. "https://store.fixthevuln.com".
	DownloadBaseURL string

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *FulfillmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// VerifySession re-fetches the session from the provider and, if paid,
// returns the full set of download links. Safe to call repeatedly: the token
// expiry is anchored to the session's creation time, so later calls yield
// tokens with identical expiry rather than a refreshed window.
func (s *FulfillmentService) VerifySession(ctx context.Context, sessionID string) ([]domain.Download, error) {
	sess, err := s.Provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Paid {
		return nil, ErrNotPaid
	}

	raw, err := domain.DecodeItems(sess.Metadata["items"])
	if err != nil {
		return nil, err
	}

	return s.BuildDownloads(sess.ID, raw, sess.Created)
}

// BuildDownloads expands the raw purchased items and mints one signed token
// covering the entire set; per-file URLs reuse that token with a different
// file parameter.
func (s *FulfillmentService) BuildDownloads(sessionID string, raw []domain.CartItem, sessionCreated time.Time) ([]domain.Download, error) {
	expanded := domain.ExpandItems(raw)
	if len(expanded) == 0 {
		return nil, fmt.Errorf("fulfillment: no fulfillable items for session %s", sessionID)
	}

	// Expiry is a strict function of session creation time, never of the
	// clock at verification: re-verifying must not extend the window.
	expiry := sessionCreated.Add(domain.DownloadWindow)

	items := make([]string, 0, len(expanded))
	for _, p := range expanded {
		items = append(items, p.CertID+":"+string(p.Variant))
	}

	payload, err := json.Marshal(domain.TokenClaims{
		SessionID: sessionID,
		Items:     items,
		Expiry:    expiry.Unix(),
	})
	if err != nil {
		return nil, err
	}
	token := signx.Sign(payload, s.Secret)

	downloads := make([]domain.Download, 0, len(expanded))
	for _, p := range expanded {
		filename := p.Filename()
		downloads = append(downloads, domain.Download{
			CertID:   p.CertID,
			Variant:  p.Variant,
			Filename: filename,
			URL: s.DownloadBaseURL + "/v1/download?token=" +
				url.QueryEscape(token) + "&file=" + url.QueryEscape(filename),
			CareerPathID:   p.CareerPathID,
			CareerPathName: p.CareerPathName,
		})
	}
	return downloads, nil
}

// VerifyToken checks a download token's signature and expiry and returns its
// claims.
func (s *FulfillmentService) VerifyToken(token string) (domain.TokenClaims, error) {
	payload, err := signx.Verify(token, s.Secret)
	if err != nil {
		return domain.TokenClaims{}, ErrTokenInvalid
	}

	var claims domain.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.TokenClaims{}, ErrTokenInvalid
	}

	if s.now().Unix() > claims.Expiry {
		return domain.TokenClaims{}, ErrTokenExpired
	}
	return claims, nil
}

// AuthorizeFile checks that the requested filename belongs to one of the
// items the token was minted for. This is what stops a token from one
// purchase fetching files from another.
func (s *FulfillmentService) AuthorizeFile(claims domain.TokenClaims, filename string) error {
	items, err := domain.DecodeItems(strings.Join(claims.Items, ","))
	if err != nil {
		return ErrTokenInvalid
	}

	for _, it := range items {
		p := domain.PurchasedItem{CertID: it.ProductID, Variant: it.Variant}
		if p.Filename() == filename {
			return nil
		}
	}
	return ErrFileNotOwned
}
