// Package notify implements the transactional notification client.
// Notifications (enrollment confirmations, publish announcements, role
// decisions) are delivered through an external mailer service over HTTP.
// Delivery is best-effort: the command handlers call this client
// fire-and-forget, so a failure here never fails the triggering operation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/shared"
	"github.com/eduhub/course-hub/internal/domain/user"
	"github.com/eduhub/course-hub/pkg/circuitbreaker"
	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the notification client.
type Config struct {
	// BaseURL is the mailer service base URL.
	BaseURL string

	// APIKey authenticates against the mailer service.
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client delivers notifications over HTTP with retries and a circuit
// breaker. It implements the command layer's Notifier interface.
type Client struct {
	config     Config
	httpClient *http.Client
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a notification client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retrier:    retry.NotifierRetrier(),
		breaker: circuitbreaker.NotifierBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.F("breaker", name),
				logger.F("from", from.String()),
				logger.F("to", to.String()))
		}),
		log: log,
	}
}

// NotifyEnrollment confirms a successful enrollment to the student.
func (c *Client) NotifyEnrollment(ctx context.Context, u *user.User, crs *course.Course) error {
	return c.send(ctx, "/v1/notifications/enrollment", map[string]any{
		"email":      u.Email,
		"name":       u.FullName(),
		"courseName": crs.Name,
	})
}

// NotifyCoursePublished announces to the author that the course went public.
func (c *Client) NotifyCoursePublished(ctx context.Context, crs *course.Course) error {
	return c.send(ctx, "/v1/notifications/course-published", map[string]any{
		"authorId":   crs.AuthorID,
		"courseName": crs.Name,
	})
}

// NotifyRoleDecision informs the user about an approved or refused role request.
func (c *Client) NotifyRoleDecision(ctx context.Context, u *user.User, accepted bool) error {
	return c.send(ctx, "/v1/notifications/role-decision", map[string]any{
		"email":    u.Email,
		"name":     u.FullName(),
		"accepted": accepted,
	})
}

// NotifyUserDeleted confirms account deletion.
func (c *Client) NotifyUserDeleted(ctx context.Context, u *user.User) error {
	return c.send(ctx, "/v1/notifications/account-deleted", map[string]any{
		"email": u.Email,
		"name":  u.FullName(),
	})
}

// send posts the payload through the circuit breaker with retries.
// 5xx responses are retried; 4xx responses are treated as permanent.
func (c *Client) send(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			return c.post(ctx, path, body)
		})
	})
	if err != nil {
		return shared.WrapError("notify", "Send", shared.ErrExternalService, "failed to send notification", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return retry.Retryable(fmt.Errorf("notify: %s returned %d", path, resp.StatusCode))
	default:
		return retry.Permanent(fmt.Errorf("notify: %s returned %d", path, resp.StatusCode))
	}
}
