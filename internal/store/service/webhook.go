package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/email"
	"github.com/fixthevuln/backend/internal/store/store"
	"github.com/fixthevuln/backend/pkg/idx"
	"github.com/fixthevuln/backend/pkg/signx"
	"github.com/fixthevuln/backend/pkg/slogx"

	"github.com/stripe/stripe-go/v82"
)

// ErrInvalidSignature is the only webhook failure that surfaces as non-200:
// the signature check is cheap and idempotent, so a provider retry is safe
// and desirable.
var ErrInvalidSignature = errors.New("invalid_webhook_signature")

// WebhookService verifies payment-completion events and triggers fulfillment
// exactly once per event.
type WebhookService struct {
	Signing     []byte // webhook signing secret
	Fulfillment *FulfillmentService
	Events      store.WebhookEvents
	Orders      store.Orders
	Sender      email.Sender

	// NotifyAddress receives the internal sale notification.
	NotifyAddress string

	Now func() time.Time
}

func (s *WebhookService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// HandleEvent processes one raw webhook delivery. The contract mirrors the
// provider's retry semantics: ErrInvalidSignature means 401 (retry wanted);
// any nil return means 200, even when fulfillment email failed, because a
// retry would duplicate customer email for a transient downstream error.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte, sigHeader string) error {
	log := slogx.FromContext(ctx)

	if err := signx.VerifyWebhook(body, sigHeader, s.Signing, s.now()); err != nil {
		log.Warn("webhook signature rejected", "error", err)
		return ErrInvalidSignature
	}

	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		// Authenticated but unparseable: acknowledge, a retry cannot help.
		log.Error("webhook body unparseable", "error", err)
		return nil
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		log.Error("webhook session unparseable", "event_id", event.ID, "error", err)
		return nil
	}

	fresh, err := s.Events.MarkProcessed(ctx, domain.WebhookEvent{
		EventID:     event.ID,
		EventType:   string(event.Type),
		SessionID:   sess.ID,
		ProcessedAt: s.now().UTC(),
	})
	if err != nil {
		log.Error("webhook dedupe store failed", "event_id", event.ID, "error", err)
		return nil
	}
	if !fresh {
		log.Info("webhook event redelivered, skipping", "event_id", event.ID)
		return nil
	}

	s.fulfill(ctx, &sess)
	return nil
}

// fulfill generates download links, records the order and dispatches the two
// fulfillment emails. Everything here is best-effort: failures are logged and
// swallowed so the provider never retries a signed, accepted delivery.
func (s *WebhookService) fulfill(ctx context.Context, sess *stripe.CheckoutSession) {
	log := slogx.FromContext(ctx)

	raw, err := domain.DecodeItems(sess.Metadata["items"])
	if err != nil {
		log.Error("webhook session has bad items metadata", "session_id", sess.ID, "error", err)
		return
	}

	downloads, err := s.Fulfillment.BuildDownloads(sess.ID, raw, time.Unix(sess.Created, 0).UTC())
	if err != nil {
		log.Error("download link generation failed", "session_id", sess.ID, "error", err)
		return
	}

	customerEmail := ""
	if sess.CustomerDetails != nil {
		customerEmail = sess.CustomerDetails.Email
	}

	if s.Orders != nil {
		order := domain.Order{
			ID:            idx.New().String(),
			SessionID:     sess.ID,
			CustomerEmail: customerEmail,
			Items:         sess.Metadata["items"],
			AmountTotal:   sess.AmountTotal,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.Orders.CreateOrder(ctx, order); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			log.Error("order record failed", "session_id", sess.ID, "error", err)
		}
	}

	// Two independent, unordered sends; wait for both to settle, let neither
	// failure affect the other or the HTTP response.
	var wg sync.WaitGroup

	if customerEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subject, body := customerEmailContent(downloads)
			if err := s.Sender.Send(ctx, email.Message{
				To:      []string{customerEmail},
				Subject: subject,
				HTML:    body,
			}); err != nil {
				log.Error("customer email failed", "session_id", sess.ID, "error", err)
			}
		}()
	} else {
		log.Warn("session has no customer email", "session_id", sess.ID)
	}

	if s.NotifyAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Sender.Send(ctx, email.Message{
				To:      []string{s.NotifyAddress},
				Subject: fmt.Sprintf("Sale: %d item(s), $%.2f", len(downloads), float64(sess.AmountTotal)/100),
				HTML:    saleNotificationContent(sess.ID, customerEmail, downloads),
			}); err != nil {
				log.Error("sale notification email failed", "session_id", sess.ID, "error", err)
			}
		}()
	}

	wg.Wait()
	log.Info("fulfillment dispatched", "session_id", sess.ID, "downloads", len(downloads))
}

// customerEmailContent renders the download list, grouping career path items
// under their path name.
func customerEmailContent(downloads []domain.Download) (subject, body string) {
	var b strings.Builder
	b.WriteString("<h2>Your study planners are ready</h2>")
	b.WriteString("<p>Links are valid for 24 hours from purchase.</p>")

	grouped := map[string][]domain.Download{}
	var order []string
	for _, d := range downloads {
		key := d.CareerPathName // "" groups the standalone items
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], d)
	}

	for _, key := range order {
		if key != "" {
			b.WriteString("<h3>" + html.EscapeString(key) + "</h3>")
		}
		b.WriteString("<ul>")
		for _, d := range grouped[key] {
			b.WriteString(`<li><a href="` + d.URL + `">` + html.EscapeString(d.Filename) + "</a></li>")
		}
		b.WriteString("</ul>")
	}

	b.WriteString("<p>Problems downloading? Reply to this email.</p>")
	return "Your FixTheVuln downloads", b.String()
}

func saleNotificationContent(sessionID, customerEmail string, downloads []domain.Download) string {
	var b strings.Builder
	b.WriteString("<p>Session: " + html.EscapeString(sessionID) + "</p>")
	b.WriteString("<p>Customer: " + html.EscapeString(customerEmail) + "</p>")
	b.WriteString("<ul>")
	for _, d := range downloads {
		b.WriteString("<li>" + html.EscapeString(d.Filename) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
