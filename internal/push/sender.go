package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

// ErrSubscriptionExpired signals the endpoint rejected the subscription for
// good; callers should drop the stored subscription.
var ErrSubscriptionExpired = errors.New("push subscription expired")

// Payload is the JSON document delivered to the service worker.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Subscription carries the Web Push endpoint and client keys.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type sendFunc func(ctx context.Context, message []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error)

// Sender delivers Web Push messages signed with the configured VAPID keys.
type Sender struct {
	cfg  config.PushConfig
	logg *logger.Logger
	send sendFunc
}

// NewSender builds a sender from the VAPID configuration.
func NewSender(cfg config.PushConfig, logg *logger.Logger) (*Sender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("vapid key pair required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return newSender(cfg, logg, webpush.SendNotificationWithContext), nil
}

func newSender(cfg config.PushConfig, logg *logger.Logger, send sendFunc) *Sender {
	return &Sender{cfg: cfg, logg: logg, send: send}
}

// Send pushes the payload to one subscription. A 404 or 410 response returns
// ErrSubscriptionExpired so the caller can prune the registration.
func (s *Sender) Send(ctx context.Context, sub Subscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	resp, err := s.send(ctx, data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		return fmt.Errorf("send web push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionExpired
	case resp.StatusCode >= 400:
		return fmt.Errorf("web push rejected with status %d", resp.StatusCode)
	}
	return nil
}
