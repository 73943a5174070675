package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"portfolio_backend/platform/config"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// LeadQualifier enqueues transcript scoring when a chat closes.
type LeadQualifier interface {
	EnqueueQualifyLead(ctx context.Context, payload QualifyLeadPayload) error
}

// RequestForwarder enqueues service-request webhook forwarding.
type RequestForwarder interface {
	EnqueueForwardServiceRequest(ctx context.Context, payload ForwardServiceRequestPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueQualifyLead(ctx context.Context, payload QualifyLeadPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewQualifyLeadTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	return err
}

func (c *Client) EnqueueForwardServiceRequest(ctx context.Context, payload ForwardServiceRequestPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewForwardServiceRequestTask(payload)
	if err != nil {
		return err
	}
	// The forward itself is fire-and-forget; retries belong to the enqueue
	// hop only, not the webhook POST.
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var (
	_ LeadQualifier    = (*Client)(nil)
	_ RequestForwarder = (*Client)(nil)
)
