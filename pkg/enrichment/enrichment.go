package enrichment

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/alitto/pond/v2"
	"github.com/allegro/bigcache/v3"
	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/pkg/bufferpool"
	"github.com/gaze-network/near-indexer/pkg/httpclient"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-indexer/pkg/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultWorkers    = 16
	DefaultQueueSize  = 4096
	DefaultMaxElapsed = 30 * time.Second
	DefaultDedupeTTL  = 10 * time.Minute
)

type Config struct {
	// URL of the enrichment endpoint. Empty disables notifications.
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue_size"`
	// RateLimit is the maximum number of requests per second. Zero means unlimited.
	RateLimit  float64       `mapstructure:"rate_limit"`
	Burst      int           `mapstructure:"burst"`
	MaxElapsed time.Duration `mapstructure:"max_elapsed"`
	DedupeTTL  time.Duration `mapstructure:"dedupe_ttl"`
	Debug      bool          `mapstructure:"debug"`
}

// Notifier sends best-effort enrichment requests. Notify never blocks on delivery.
type Notifier interface {
	Notify(ctx context.Context, messages ...Message)
}

// Client delivers messages in the background. Messages passed to one Notify call are sent
// in order; separate calls are independent.
type Client struct {
	config  Config
	http    *httpclient.Client
	pool    pond.Pool
	limiter *rate.Limiter
	seen    *bigcache.BigCache
	metrics *metrics.NotifierMetrics
}

var _ Notifier = (*Client)(nil)

func New(ctx context.Context, config Config, m *metrics.NotifierMetrics) (*Client, error) {
	config.Timeout = utils.Default(config.Timeout, DefaultTimeout)
	config.Workers = utils.Default(config.Workers, DefaultWorkers)
	config.QueueSize = utils.Default(config.QueueSize, DefaultQueueSize)
	config.MaxElapsed = utils.Default(config.MaxElapsed, DefaultMaxElapsed)
	config.DedupeTTL = utils.Default(config.DedupeTTL, DefaultDedupeTTL)

	c := &Client{
		config:  config,
		metrics: m,
	}
	if config.URL == "" {
		logger.InfoContext(ctx, "Enrichment endpoint is not configured, notifications are disabled", slog.String("package", "enrichment"))
		return c, nil
	}

	httpClient, err := httpclient.New(config.URL, httpclient.Config{
		Debug:   config.Debug,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}

	seen, err := bigcache.New(ctx, bigcache.DefaultConfig(config.DedupeTTL))
	if err != nil {
		return nil, errors.Wrap(err, "can't create dedupe cache")
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	c.http = httpClient
	c.seen = seen
	c.limiter = rate.NewLimiter(limit, utils.Default(config.Burst, config.Workers))
	c.pool = pond.NewPool(config.Workers, pond.WithQueueSize(config.QueueSize))
	return c, nil
}

func (c *Client) enabled() bool {
	return c != nil && c.pool != nil
}

// Notify queues the messages for delivery. When the queue is full the messages are dropped.
func (c *Client) Notify(ctx context.Context, messages ...Message) {
	if len(messages) == 0 {
		return
	}
	if !c.enabled() {
		logger.DebugContext(ctx, "Enrichment disabled, skip notification", slog.String("message", messages[0].Tag()))
		return
	}

	// the task outlives the receipt that produced it
	taskCtx := context.WithoutCancel(ctx)
	_, ok := c.pool.TrySubmit(func() {
		for _, m := range messages {
			c.deliver(taskCtx, m)
		}
	})
	if !ok {
		c.metrics.IncDropped()
		for _, m := range messages {
			logger.WarnContext(ctx, "Enrichment queue is full, dropped notification",
				slog.String("message", m.Tag()),
				slog.String("target", describe(m)),
			)
		}
	}
}

func (c *Client) deliver(ctx context.Context, m Message) {
	if key := dedupeKey(m); key != "" {
		if _, err := c.seen.Get(key); err == nil {
			return
		}
	}

	if err := c.send(ctx, m); err != nil {
		c.metrics.IncFailed()
		logger.ErrorContext(ctx, "Failed to send enrichment notification", err,
			slog.String("message", m.Tag()),
			slog.String("target", describe(m)),
		)
		return
	}
	c.metrics.IncSent()

	if key := dedupeKey(m); key != "" {
		if err := c.seen.Set(key, []byte{1}); err != nil {
			logger.WarnContext(ctx, "Failed to remember contract notification", slogx.Error(err))
		}
	}
}

func (c *Client) send(ctx context.Context, m Message) error {
	buf := bufferpool.Get()
	defer buf.Release()
	if err := encodeTo(buf, m); err != nil {
		return errors.WithStack(err)
	}
	body := buf.Bytes()

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(errors.WithStack(err))
		}
		resp, err := c.http.Post(ctx, "", httpclient.RequestOptions{Body: body})
		if err != nil {
			return errors.Wrap(err, "can't send request")
		}
		status := resp.StatusCode()
		switch {
		case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
			return errors.Newf("enrichment service responded %d", status)
		case status >= http.StatusBadRequest:
			return backoff.Permanent(errors.Wrapf(errs.InvalidArgument, "enrichment service rejected message with %d: %s", status, resp.Body()))
		}
		logger.DebugContext(ctx, "Enrichment notification sent", slog.String("message", m.Tag()), slog.Int("status", status))
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = c.config.MaxElapsed

	notify := func(err error, next time.Duration) {
		logger.DebugContext(ctx, "Enrichment notification failed, retrying", slogx.Error(err), slog.Duration("next_retry_in", next))
	}
	return errors.WithStack(backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify))
}

// Close stops accepting messages and waits for queued ones until ctx is done.
func (c *Client) Close(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.pool.StopAndWait()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "enrichment queue was not drained")
	}
	return errors.WithStack(c.seen.Close())
}
