package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/platform/obs"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type runSummary struct {
	RunID        string  `json:"run_id"`
	Instance     string  `json:"instance"`
	Fingerprint  string  `json:"fingerprint"`
	Seed         int64   `json:"seed"`
	Generations  int     `json:"generations"`
	BestDistance float64 `json:"best_distance"`
	BestOrder    []int   `json:"best_order"`
	Evaluations  int     `json:"evaluations"`
	DurationMS   int64   `json:"duration_ms"`
	CreatedAt    string  `json:"created_at"`
}

// WebhookNotifier POSTs a JSON summary of each finished run to a URL.
type WebhookNotifier struct {
	url         string
	secret      string
	session     *http.Client
	maxAttempts int
	backoff     time.Duration
}

type Option func(*WebhookNotifier)

// WithSecret sends secret as a bearer token.
func WithSecret(secret string) Option {
	return func(w *WebhookNotifier) { w.secret = secret }
}

func WithHTTPClient(c *http.Client) Option {
	return func(w *WebhookNotifier) { w.session = c }
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(w *WebhookNotifier) {
		if maxAttempts > 0 {
			w.maxAttempts = maxAttempts
		}
		w.backoff = backoff
	}
}

func NewWebhookNotifier(url string, opts ...Option) (*WebhookNotifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("webhook notifier: url is required")
	}
	w := &WebhookNotifier{
		url:         strings.TrimSpace(url),
		session:     &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *WebhookNotifier) Notify(ctx context.Context, run *domain.OptimizationRun) (err error) {
	defer obs.Time(ctx, "webhook.Notify")(&err)

	if run == nil {
		return errors.New("notify: run must be non-nil")
	}

	payload, err := json.Marshal(runSummary{
		RunID:        run.RunID,
		Instance:     run.InstanceName,
		Fingerprint:  run.Fingerprint,
		Seed:         run.Seed,
		Generations:  run.Generations,
		BestDistance: run.BestDistance,
		BestOrder:    run.BestOrder,
		Evaluations:  run.Evaluations,
		DurationMS:   run.Duration.Milliseconds(),
		CreatedAt:    run.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}

	if err := w.deliver(ctx, run.RunID, payload); err != nil {
		return fmt.Errorf("notify run %s: %w", run.RunID, err)
	}
	return nil
}
