package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// deliveryError is a webhook endpoint answering with a non-2xx status.
type deliveryError struct {
	Status int
	Body   string
}

func (e *deliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook answered %d", e.Status)
	}
	return fmt.Sprintf("webhook answered %d: %s", e.Status, e.Body)
}

// Rate limiting and gateway failures are worth another attempt, and so is
// any network error. Other statuses mean the payload was refused.
func retryable(err error) bool {
	var de *deliveryError
	if errors.As(err, &de) {
		return de.Status == http.StatusTooManyRequests || de.Status >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// deliver posts payload until the endpoint accepts it, doubling the pause
// between attempts. The attempt number travels in X-Webhook-Attempt so
// receivers can spot redeliveries of runID.
func (w *WebhookNotifier) deliver(ctx context.Context, runID string, payload []byte) error {
	pause := w.backoff
	for attempt := 1; ; attempt++ {
		err := w.post(ctx, runID, attempt, payload)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= w.maxAttempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("attempt %d: %w", attempt, ctx.Err())
		case <-timer.C:
		}
		pause *= 2
	}
}

// post makes a single delivery attempt. The response body is only kept, up
// to 4 KiB, when the endpoint rejects the payload.
func (w *WebhookNotifier) post(ctx context.Context, runID string, attempt int, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Run-ID", runID)
	req.Header.Set("X-Webhook-Attempt", strconv.Itoa(attempt))
	if w.secret != "" {
		req.Header.Set("Authorization", "Bearer "+w.secret)
	}

	resp, err := w.session.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &deliveryError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
