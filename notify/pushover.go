package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gregdel/pushover"

	"launch-notifier/model"
)

// Pushover sends messages to a single user or group key via Pushover.net.
type Pushover struct {
	p         *pushover.Pushover
	recipient *pushover.Recipient
	logger    *slog.Logger
}

func NewPushover(apiToken, recipient string, logger *slog.Logger) *Pushover {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pushover{
		p:         pushover.New(apiToken),
		recipient: pushover.NewRecipient(recipient),
		logger:    logger,
	}
}

// Notify returns an error only when Pushover could not be reached. A message
// the API refuses is logged and dropped.
func (s *Pushover) Notify(ctx context.Context, ntf *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := pushover.NewMessageWithTitle(
		truncateRunes(ntf.Message, pushover.MessageMaxLength),
		truncateRunes(ntf.Title, pushover.MessageTitleMaxLength),
	)

	resp, err := s.p.SendMessage(msg, s.recipient)
	if err != nil {
		if isTransportError(err) {
			return fmt.Errorf("send pushover message: %w", err)
		}

		var apiErrs pushover.Errors
		switch {
		case errors.As(err, &apiErrs):
			s.logger.Warn("pushover rejected notification",
				slog.String("title", ntf.Title), slog.String("error", apiErrs.Error()))
		case errors.Is(err, pushover.ErrHTTPPushover):
			s.logger.Warn("pushover server error",
				slog.String("title", ntf.Title), slog.String("error", err.Error()))
		default:
			s.logger.Warn("can't build pushover request",
				slog.String("title", ntf.Title), slog.String("error", err.Error()))
		}
		return nil
	}

	s.logger.Debug("notification sent to Pushover", slog.String("request", resp.ID))
	return nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
