package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("fulfillment-test-secret")

func newFulfillmentService(p *fakeProvider, now time.Time) *FulfillmentService {
	return &FulfillmentService{
		Provider:        p,
		Secret:          testSecret,
		DownloadBaseURL: "https://store.fixthevuln.com",
		Now:             func() time.Time { return now },
	}
}

func TestVerifySession_StandalonePlanner(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProvider{sessions: map[string]payment.Session{
		"cs_1": paidSession("cs_1", "comptia-security-plus:standard", created),
	}}
	s := newFulfillmentService(p, created.Add(time.Hour))

	downloads, err := s.VerifySession(context.Background(), "cs_1")
	require.NoError(t, err)
	require.Len(t, downloads, 1)

	d := downloads[0]
	require.Equal(t, "comptia-security-plus", d.CertID)
	require.Equal(t, "comptia-security-plus_study_planner.pdf", d.Filename)
	require.Empty(t, d.CareerPathID)
	require.Contains(t, d.URL, "https://store.fixthevuln.com/v1/download?token=")
	require.Contains(t, d.URL, "file=comptia-security-plus_study_planner.pdf")
}

func TestVerifySession_CareerPathBundleExpands(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProvider{sessions: map[string]payment.Session{
		"cs_2": paidSession("cs_2", "cp:comptia-a-plus:bundle", created),
	}}
	s := newFulfillmentService(p, created.Add(time.Hour))

	downloads, err := s.VerifySession(context.Background(), "cs_2")
	require.NoError(t, err)
	require.Len(t, downloads, 2)

	for _, d := range downloads {
		require.Equal(t, "cp:comptia-a-plus", d.CareerPathID)
		require.Equal(t, "CompTIA A+ Career Path", d.CareerPathName)
		require.True(t, strings.HasSuffix(d.Filename, "_bundle.zip"), d.Filename)
	}
	require.Equal(t, "comptia-a-plus-1201", downloads[0].CertID)
	require.Equal(t, "comptia-a-plus-1202", downloads[1].CertID)
}

func TestVerifySession_Unpaid(t *testing.T) {
	created := time.Now().UTC()
	sess := paidSession("cs_3", "isc2-cc:standard", created)
	sess.Paid = false
	p := &fakeProvider{sessions: map[string]payment.Session{"cs_3": sess}}
	s := newFulfillmentService(p, created)

	_, err := s.VerifySession(context.Background(), "cs_3")
	require.ErrorIs(t, err, ErrNotPaid)
}

func TestVerifySession_ExpiryAnchoredToCreation(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProvider{sessions: map[string]payment.Session{
		"cs_4": paidSession("cs_4", "comptia-network-plus:adhd", created),
	}}

	early := newFulfillmentService(p, created.Add(10*time.Minute))
	late := newFulfillmentService(p, created.Add(20*time.Hour))

	first, err := early.VerifySession(context.Background(), "cs_4")
	require.NoError(t, err)
	second, err := late.VerifySession(context.Background(), "cs_4")
	require.NoError(t, err)

	// Re-verifying hours later must not mint a longer-lived token.
	require.Equal(t, first[0].URL, second[0].URL)

	claims, err := early.VerifyToken(tokenFromURL(t, first[0].URL))
	require.NoError(t, err)
	require.Equal(t, created.Add(domain.DownloadWindow).Unix(), claims.Expiry)
}

func TestVerifyToken(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newFulfillmentService(nil, created.Add(time.Hour))

	downloads, err := s.BuildDownloads("cs_5", []domain.CartItem{
		{ProductID: "comptia-security-plus", Variant: domain.VariantDark},
	}, created)
	require.NoError(t, err)
	token := tokenFromURL(t, downloads[0].URL)

	t.Run("valid", func(t *testing.T) {
		claims, err := s.VerifyToken(token)
		require.NoError(t, err)
		require.Equal(t, "cs_5", claims.SessionID)
		require.Equal(t, []string{"comptia-security-plus:dark"}, claims.Items)
	})

	t.Run("expired", func(t *testing.T) {
		stale := newFulfillmentService(nil, created.Add(25*time.Hour))
		_, err := stale.VerifyToken(token)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := s.VerifyToken(token[:len(token)-2] + "00")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newFulfillmentService(nil, created.Add(time.Hour))
		other.Secret = []byte("some-other-secret")
		_, err := other.VerifyToken(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestAuthorizeFile(t *testing.T) {
	claims := domain.TokenClaims{
		SessionID: "cs_6",
		Items:     []string{"comptia-security-plus:standard", "isc2-cc:dark"},
	}
	s := &FulfillmentService{Secret: testSecret}

	require.NoError(t, s.AuthorizeFile(claims, "comptia-security-plus_study_planner.pdf"))
	require.NoError(t, s.AuthorizeFile(claims, "isc2-cc_study_planner_dark.pdf"))

	// Same catalog, different purchase: must be refused.
	err := s.AuthorizeFile(claims, "comptia-network-plus_study_planner.pdf")
	require.ErrorIs(t, err, ErrFileNotOwned)

	// Owned cert but a variant that was not bought.
	err = s.AuthorizeFile(claims, "comptia-security-plus_study_planner_dark.pdf")
	require.ErrorIs(t, err, ErrFileNotOwned)
}

// tokenFromURL pulls the token query parameter out of a generated download URL.
func tokenFromURL(t *testing.T, rawURL string) string {
	t.Helper()
	_, query, ok := strings.Cut(rawURL, "?")
	require.True(t, ok, "download URL has no query: %s", rawURL)
	for _, kv := range strings.Split(query, "&") {
		if v, ok := strings.CutPrefix(kv, "token="); ok {
			unescaped, err := url.QueryUnescape(v)
			require.NoError(t, err)
			return unescaped
		}
	}
	t.Fatalf("no token parameter in %s", rawURL)
	return ""
}
