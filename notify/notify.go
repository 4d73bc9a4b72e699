// Package notify delivers launch alerts to a push service.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"launch-notifier/config"
	"launch-notifier/model"
)

// Notifier sends one notification. Delivery is best effort: a returned error
// means the service could not be reached, while a message the service answers
// with a rejection is logged and reported as sent.
type Notifier interface {
	Notify(ctx context.Context, ntf *model.Notification) error
}

// Throttled spaces out notifications sent through next.
type Throttled struct {
	next    Notifier
	limiter *rate.Limiter
}

func NewThrottled(next Notifier, perSecond float64) *Throttled {
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (t *Throttled) Notify(ctx context.Context, ntf *model.Notification) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Notify(ctx, ntf)
}

// New builds the notifier selected by cfg.NotifyBackend, rate limited to
// cfg.NotifyRate messages per second.
func New(cfg *config.Config, logger *slog.Logger) (Notifier, error) {
	var n Notifier
	switch cfg.NotifyBackend {
	case config.BackendPushover:
		n = NewPushover(cfg.PushoverAPIToken, cfg.Recipient(), logger)
	case config.BackendNtfy:
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		n = NewNtfy(cfg.NtfyURL, cfg.NtfyTopic, timeout, logger)
	default:
		return nil, fmt.Errorf("unknown notify backend: %s", cfg.NotifyBackend)
	}
	return NewThrottled(n, cfg.NotifyRate), nil
}

// isTransportError reports whether err means no response came back at all.
func isTransportError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
