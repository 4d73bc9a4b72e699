package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"launch-notifier/model"
)

const ntfyDefaultPriority = 3

// Ntfy publishes messages to a topic on an ntfy server.
type Ntfy struct {
	client  *http.Client
	baseURL string
	topic   string
	logger  *slog.Logger
}

func NewNtfy(baseURL, topic string, timeout time.Duration, logger *slog.Logger) *Ntfy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ntfy{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		topic:   topic,
		logger:  logger,
	}
}

// Notify returns an error only when the server could not be reached. A non-2xx
// answer is logged and dropped.
func (n *Ntfy) Notify(ctx context.Context, ntf *model.Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/"+n.topic,
		strings.NewReader(ntf.Message))
	if err != nil {
		return fmt.Errorf("create ntfy request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain")
	if ntf.Title != "" {
		req.Header.Set("Title", ntf.Title)
	}
	if len(ntf.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(ntf.Tags, ","))
	}
	req.Header.Set("Priority", strconv.Itoa(ntfyDefaultPriority))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.logger.Warn("NTFY error response", slog.String("status", resp.Status),
			slog.String("body", strings.TrimSpace(string(bodyBytes))))
		return nil
	}

	n.logger.Debug("notification sent to NTFY", slog.String("topic", n.topic))
	return nil
}
