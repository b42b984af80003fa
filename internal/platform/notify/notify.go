// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

/*
Package notify hands identity mail off to the out-of-band delivery pipeline.

The identity core never talks SMTP. It enqueues a [MailJob] describing what
must be delivered; an external mailer worker consumes the queue and renders
the actual email.

# Failure Policy

Notification dispatch is best-effort BY CONTRACT: a queue failure is logged
by the caller and must never abort the triggering operation. In particular,
RequestPasswordReset returns its generic success message whether or not the
job could be enqueued.
*/
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/internal/platform/constants"
)

// # Mail Jobs

// Job kinds consumed by the mailer worker.
const (
	KindPasswordReset     = "password_reset"
	KindEmailVerification = "email_verification"
)

// MailJob is the queue payload describing one out-of-band notification.
type MailJob struct {
	Kind     string    `json:"kind"`
	To       string    `json:"to"`
	Token    string    `json:"token"`
	QueuedAt time.Time `json:"queued_at"`
}

// # Contracts

// Dispatcher defines the contract for enqueueing identity notifications.
type Dispatcher interface {

	/*
		SendPasswordReset enqueues a reset-link mail for the given address.

		Parameters:
		  - context: context.Context
		  - email: string (destination address)
		  - token: string (the opaque reset token)

		Returns:
		  - error: Queue failures (callers log and continue)
	*/
	SendPasswordReset(context context.Context, email, token string) error

	/*
		SendEmailVerification enqueues a verification-link mail.

		Parameters:
		  - context: context.Context
		  - email: string
		  - token: string

		Returns:
		  - error: Queue failures (callers log and continue)
	*/
	SendEmailVerification(context context.Context, email, token string) error
}

// # Redis Outbox

// RedisDispatcher implements [Dispatcher] by LPUSHing jobs onto the shared
// mail outbox list. The mailer worker BRPOPs from the same key, giving FIFO
// delivery order.
type RedisDispatcher struct {
	client *redis.Client
	clock  clock.Clock
}

// NewRedisDispatcher creates a Redis-backed [Dispatcher].
func NewRedisDispatcher(client *redis.Client, clk clock.Clock) *RedisDispatcher {
	if clk == nil {
		clk = clock.System()
	}
	return &RedisDispatcher{client: client, clock: clk}
}

// SendPasswordReset implements [Dispatcher].
func (dispatcher *RedisDispatcher) SendPasswordReset(context context.Context, email, token string) error {
	return dispatcher.enqueue(context, MailJob{
		Kind:  KindPasswordReset,
		To:    email,
		Token: token,
	})
}

// SendEmailVerification implements [Dispatcher].
func (dispatcher *RedisDispatcher) SendEmailVerification(context context.Context, email, token string) error {
	return dispatcher.enqueue(context, MailJob{
		Kind:  KindEmailVerification,
		To:    email,
		Token: token,
	})
}

// enqueue serializes the job and pushes it onto the outbox list.
func (dispatcher *RedisDispatcher) enqueue(context context.Context, job MailJob) error {
	job.QueuedAt = dispatcher.clock.Now()

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("notify: failed to encode mail job: %w", err)
	}

	if err := dispatcher.client.LPush(context, constants.RedisMailOutboxKey, payload).Err(); err != nil {
		return fmt.Errorf("notify: failed to enqueue mail job: %w", err)
	}

	return nil
}

// # Test Double

// Noop is a [Dispatcher] that records nothing and always succeeds.
// Used in development environments without a mailer.
type Noop struct{}

// SendPasswordReset implements [Dispatcher].
func (Noop) SendPasswordReset(context.Context, string, string) error { return nil }

// SendEmailVerification implements [Dispatcher].
func (Noop) SendEmailVerification(context.Context, string, string) error { return nil }
